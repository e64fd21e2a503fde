// ABOUTME: Logout command for the bgr CLI
// ABOUTME: Clears the persisted session and in-memory key list

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runLogout(os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears the session and returns an exit code
func runLogout(w io.Writer) int {
	ctrl := newController()
	wasAuthenticated := ctrl.Authenticated()

	if err := ctrl.Logout(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	if wasAuthenticated {
		fmt.Fprintln(w, "Logged out.")
	} else {
		fmt.Fprintln(w, "Not logged in.")
	}
	return 0
}
