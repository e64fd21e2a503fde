// ABOUTME: Root command for the bgr CLI
// ABOUTME: Handles global flags, env config, and shared constructors

package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bgremover/cli/internal/client"
	"github.com/bgremover/cli/internal/session"
)

var (
	apiURL     string
	useLocal   bool
	jsonOutput bool
)

const (
	defaultAPIURL = "https://background-remover-api.onrender.com"
	localAPIURL   = "http://localhost:8000"
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "bgr",
	Short: "CLI for the Background Remover API",
	Long: `bgr is a command-line client for the Background Remover service.

It manages your account session and API keys, and submits images for
background removal.

Environment Variables:
  BGR_API_URL  API base URL (default: ` + defaultAPIURL + `)
  BGR_API_KEY  API key used by the remove command`,
}

// Execute runs the root command
func Execute() error {
	// Optional .env next to the working directory, same as the server setup
	godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides BGR_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&useLocal, "local", false, "Target a locally running API at "+localAPIURL)
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if useLocal {
		return localAPIURL
	}
	if envURL := os.Getenv("BGR_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newController builds a session controller backed by the default config
// dir and the configured API base URL
func newController() *session.Controller {
	store := session.NewStore(session.DefaultConfigDir())
	return session.NewController(store, client.New(GetAPIURL()))
}
