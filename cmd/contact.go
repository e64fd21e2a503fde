// ABOUTME: Contact command for the bgr CLI
// ABOUTME: Sends a message to the service operators

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bgremover/cli/internal/client"
)

var (
	contactName    string
	contactEmail   string
	contactMessage string
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message to the service operators",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runContact(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.Flags().StringVar(&contactName, "name", "", "Your name")
	contactCmd.Flags().StringVar(&contactEmail, "email", "", "Your email address")
	contactCmd.Flags().StringVar(&contactMessage, "message", "", "Message text")
}

// runContact validates the form and submits it, returning an exit code
func runContact(ctx context.Context, w io.Writer) int {
	if strings.TrimSpace(contactName) == "" ||
		strings.TrimSpace(contactEmail) == "" ||
		strings.TrimSpace(contactMessage) == "" {
		fmt.Fprintln(w, "Error: --name, --email, and --message are required")
		return 2
	}

	c := client.New(GetAPIURL())
	resp, err := c.Contact(ctx, contactName, contactEmail, contactMessage)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	if resp.Message != "" {
		fmt.Fprintln(w, resp.Message)
	} else {
		fmt.Fprintln(w, "Message sent.")
	}
	return 0
}
