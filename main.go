// ABOUTME: Entry point for the bgr CLI
// ABOUTME: Command-line client for the Background Remover API

package main

import (
	"fmt"
	"os"

	"github.com/bgremover/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
