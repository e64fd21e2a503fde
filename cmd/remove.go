// ABOUTME: Background removal command for the bgr CLI
// ABOUTME: Validates the image locally, uploads it, and writes the result

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bgremover/cli/internal/client"
)

// Upload limits mirror the server's accepted inputs
const maxImageBytes = 10 << 20 // 10MB

var supportedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var (
	removeOutput       string
	removeAPIKey       string
	removeAlphaMatting bool
	removeFgThreshold  int
	removeBgThreshold  int
	removeErodeSize    int
	removeBaseSize     int
)

var removeCmd = &cobra.Command{
	Use:   "remove IMAGE",
	Short: "Remove the background from an image",
	Long: `Upload an image and receive a PNG with the background removed.

The call is given a hard 5-minute budget; if the server takes longer the
request is canceled and reported as a timeout.

Exit codes:
  0 - Image processed
  1 - Processing failed
  2 - Invalid input`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runRemove(ctx, os.Stdout, args[0]); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().StringVarP(&removeOutput, "output", "o", "", "Output path (default: INPUT_no_bg.png)")
	removeCmd.Flags().StringVar(&removeAPIKey, "api-key", "", "API key (overrides BGR_API_KEY)")
	removeCmd.Flags().BoolVar(&removeAlphaMatting, "alpha-matting", true, "Refine edges with alpha matting")
	removeCmd.Flags().IntVar(&removeFgThreshold, "fg-threshold", 240, "Alpha matting foreground threshold")
	removeCmd.Flags().IntVar(&removeBgThreshold, "bg-threshold", 10, "Alpha matting background threshold")
	removeCmd.Flags().IntVar(&removeErodeSize, "erode-size", 10, "Alpha matting erode structure size")
	removeCmd.Flags().IntVar(&removeBaseSize, "base-size", 1000, "Alpha matting base size")
}

// runRemove validates the input, uploads it, and returns an exit code
func runRemove(ctx context.Context, w io.Writer, path string) int {
	apiKey := removeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("BGR_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintln(w, "Error: no API key. Pass --api-key or set BGR_API_KEY.")
		return 2
	}

	if err := validateImageFile(path); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer file.Close()

	c := client.New(GetAPIURL())
	opts := client.RemoveOptions{
		AlphaMatting:        removeAlphaMatting,
		ForegroundThreshold: removeFgThreshold,
		BackgroundThreshold: removeBgThreshold,
		ErodeSize:           removeErodeSize,
		BaseSize:            removeBaseSize,
	}

	fmt.Fprintf(w, "Uploading %s...\n", filepath.Base(path))
	start := time.Now()
	image, err := c.RemoveBackground(ctx, apiKey, filepath.Base(path), file, opts)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	out := removeOutput
	if out == "" {
		out = outputPath(path)
	}
	if err := os.WriteFile(out, image, 0644); err != nil {
		fmt.Fprintf(w, "Error: failed to write %s: %v\n", out, err)
		return 1
	}

	fmt.Fprintf(w, "Wrote %s (%d bytes) in %s\n", out, len(image), time.Since(start).Round(time.Millisecond))
	return 0
}

// validateImageFile rejects unsupported or oversized files before upload
func validateImageFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &client.ValidationError{Field: "file", Message: fmt.Sprintf("cannot read %s", path)}
	}
	if info.IsDir() {
		return &client.ValidationError{Field: "file", Message: fmt.Sprintf("%s is a directory", path)}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supportedImageExts[ext] {
		return &client.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("unsupported file type %q (use jpg, jpeg, png, or webp)", ext),
		}
	}

	if info.Size() > maxImageBytes {
		return &client.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file is %dMB, maximum is 10MB", info.Size()>>20),
		}
	}
	return nil
}

// outputPath derives the default output name from the input path
func outputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_no_bg.png"
}
