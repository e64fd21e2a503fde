// ABOUTME: API key management commands for the bgr CLI
// ABOUTME: Lists, creates, and deletes keys via the session controller

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bgremover/cli/internal/client"
	"github.com/bgremover/cli/internal/keylist"
)

var (
	keysShowSecrets bool
	keysDeleteYes   bool
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage your API keys",
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your API keys",
	Long: `List the API keys owned by the logged-in user.

Secrets are masked by default; pass --show to print them in full.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runKeysList(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var keysCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a new API key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runKeysCreate(ctx, os.Stdout, args[0]); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an API key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runKeysDelete(ctx, os.Stdout, os.Stdin, args[0]); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysCreateCmd)
	keysCmd.AddCommand(keysDeleteCmd)
	keysListCmd.Flags().BoolVar(&keysShowSecrets, "show", false, "Print full key secrets instead of masked values")
	keysDeleteCmd.Flags().BoolVar(&keysDeleteYes, "yes", false, "Skip the confirmation prompt")
}

// runKeysList fetches and prints the key list, returning an exit code
func runKeysList(ctx context.Context, w io.Writer) int {
	ctrl := newController()
	if !ctrl.Authenticated() {
		fmt.Fprintln(w, "Error: not logged in. Run 'bgr login' first.")
		return 1
	}

	keys, err := ctrl.RefreshKeys(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatKeysJSON(keys, keysShowSecrets))
	} else {
		fmt.Fprintln(w, formatKeysHuman(keys, keysShowSecrets))
	}
	return 0
}

// runKeysCreate creates a key and prints the secret once, in full
func runKeysCreate(ctx context.Context, w io.Writer, name string) int {
	ctrl := newController()
	if !ctrl.Authenticated() {
		fmt.Fprintln(w, "Error: not logged in. Run 'bgr login' first.")
		return 1
	}

	key, err := ctrl.CreateKey(ctx, name)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		if client.IsValidation(err) {
			return 2
		}
		return 1
	}

	fmt.Fprintf(w, "Created key %q (id %d)\n", key.Name, key.ID)
	fmt.Fprintf(w, "Secret: %s\n", key.Key)
	fmt.Fprintln(w, "Store it now; it is masked everywhere else.")
	return 0
}

// runKeysDelete confirms and deletes a key, returning an exit code
func runKeysDelete(ctx context.Context, w io.Writer, r io.Reader, rawID string) int {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid key id %q\n", rawID)
		return 2
	}

	ctrl := newController()
	if !ctrl.Authenticated() {
		fmt.Fprintln(w, "Error: not logged in. Run 'bgr login' first.")
		return 1
	}

	if !keysDeleteYes {
		fmt.Fprintf(w, "Delete key %d? This cannot be undone. [y/N]: ", id)
		scanner := bufio.NewScanner(r)
		if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			fmt.Fprintln(w, "Aborted.")
			return 0
		}
	}

	if err := ctrl.DeleteKey(ctx, id); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(w, "Deleted key %d. %d key(s) remain.\n", id, len(ctrl.Keys()))
	return 0
}

// formatKeysHuman renders the key list as an aligned table
func formatKeysHuman(keys []client.APIKey, show bool) string {
	if len(keys) == 0 {
		return "No API keys. Create one with 'bgr keys create NAME'."
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKEY\tUSES\tSTATUS\tCREATED")
	for _, k := range keys {
		secret := keylist.Mask(k.Key)
		if show {
			secret = k.Key
		}
		status := "active"
		if !k.IsActive {
			status = "inactive"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", k.ID, k.Name, secret, k.UsageCount, status, k.CreatedAt)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// formatKeysJSON renders the key list as JSON, masking secrets unless shown
func formatKeysJSON(keys []client.APIKey, show bool) string {
	out := make([]client.APIKey, len(keys))
	copy(out, keys)
	if !show {
		for i := range out {
			out[i].Key = keylist.Mask(out[i].Key)
		}
	}
	data, err := json.MarshalIndent(map[string]any{"api_keys": out}, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}
