// ABOUTME: Dashboard command launching the interactive TUI
// ABOUTME: Manages session and API keys in a full-screen terminal interface

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bgremover/cli/internal/session"
	"github.com/bgremover/cli/internal/tui"
	"github.com/bgremover/cli/internal/tui/debuglog"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive API key dashboard",
	Long: `Launch the interactive terminal dashboard.

Sign in (or register), then browse your API keys: reveal or copy key
secrets, create new keys, and revoke ones you no longer need.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Errors inside the TUI go to a debug log so they don't tear
		// the alternate screen
		debuglog.Init(session.DefaultConfigDir())
		defer debuglog.Close()

		if err := tui.Run(newController()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
