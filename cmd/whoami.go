// ABOUTME: Whoami command for the bgr CLI
// ABOUTME: Shows the current session's profile and usage counters

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgremover/cli/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Long:  `Display the profile of the current session, or report guest state.`,
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runWhoami(os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami prints the session state and returns an exit code
func runWhoami(w io.Writer) int {
	ctrl := newController()
	sess := ctrl.Current()

	if sess == nil {
		if IsJSONOutput() {
			fmt.Fprintln(w, `{"authenticated": false}`)
		} else {
			fmt.Fprintln(w, "Not logged in. Run 'bgr login' first.")
		}
		return 1
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatWhoamiJSON(sess))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(sess))
	}
	return 0
}

// formatWhoamiHuman formats the session for human readability
func formatWhoamiHuman(sess *session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Logged in as: %s <%s>\n", sess.User.Name, sess.User.Email)
	fmt.Fprintf(&b, "User ID:      %d\n", sess.User.ID)
	if sess.User.CreatedAt != "" {
		fmt.Fprintf(&b, "Member since: %s\n", sess.User.CreatedAt)
	}
	if sess.User.LastLogin != "" {
		fmt.Fprintf(&b, "Last login:   %s\n", sess.User.LastLogin)
	}
	fmt.Fprintf(&b, "API calls:    %d", sess.User.APICallsCount)
	return b.String()
}

// formatWhoamiJSON formats the session as JSON
func formatWhoamiJSON(sess *session.Session) string {
	out := map[string]any{
		"authenticated": true,
		"user":          sess.User,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}
