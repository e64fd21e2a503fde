// ABOUTME: Login command for the bgr CLI
// ABOUTME: Authenticates and persists the session to the config dir

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bgremover/cli/internal/client"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the Background Remover API",
	Long: `Authenticate with your email and password.

The session is stored in your config directory and used by the keys
commands and the dashboard until you log out.

Exit codes:
  0 - Logged in
  1 - Login failed
  2 - Invalid input`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted if omitted)")
}

// runLogin executes the login flow and returns an exit code
func runLogin(ctx context.Context, w io.Writer) int {
	email := loginEmail
	if email == "" {
		fmt.Fprint(w, "Email: ")
		if _, err := fmt.Scanln(&email); err != nil {
			fmt.Fprintln(w, "Error: email is required")
			return 2
		}
	}

	password := loginPassword
	if password == "" {
		var err error
		password, err = promptPassword(w, "Password: ")
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	ctrl := newController()
	sess, err := ctrl.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		if client.IsValidation(err) {
			return 2
		}
		return 1
	}

	fmt.Fprintf(w, "Logged in as %s (%s)\n", sess.User.Name, sess.User.Email)
	fmt.Fprintf(w, "You have %d API key(s). Run 'bgr keys list' to see them.\n", len(ctrl.Keys()))
	return 0
}

// promptPassword reads a password without echoing it to the terminal
func promptPassword(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pwBytes), nil
}
