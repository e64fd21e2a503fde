// ABOUTME: Register command for the bgr CLI
// ABOUTME: Creates an account; the user logs in afterward

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bgremover/cli/internal/client"
	"github.com/bgremover/cli/internal/session"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a Background Remover account",
	Long: `Create a new account. Registration does not log you in;
run 'bgr login' afterward.

Exit codes:
  0 - Account created
  1 - Registration failed
  2 - Invalid input`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRegister(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (prompted if omitted)")
}

// runRegister executes the registration flow and returns an exit code
func runRegister(ctx context.Context, w io.Writer) int {
	if registerName == "" || registerEmail == "" {
		fmt.Fprintln(w, "Error: --name and --email are required")
		return 2
	}

	password := registerPassword
	if password == "" {
		var err error
		password, err = promptPassword(w, "Password: ")
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		confirm, err := promptPassword(w, "Confirm password: ")
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if password != confirm {
			fmt.Fprintln(w, "Error: passwords do not match")
			return 2
		}
	}
	if err := session.ValidatePassword(password); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	ctrl := newController()
	user, err := ctrl.Register(ctx, registerName, registerEmail, password)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		if client.IsValidation(err) {
			return 2
		}
		return 1
	}

	fmt.Fprintf(w, "Account created for %s (%s)\n", user.Name, user.Email)
	fmt.Fprintln(w, "Run 'bgr login' to start a session.")
	return 0
}
