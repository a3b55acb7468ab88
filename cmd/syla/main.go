package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set via ldflags during build.
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "syla",
	Short: "Syla - sandboxed code execution service",
	Long: `Syla accepts submitted source code, runs it inside a resource-limited
container, and reports back exit status, stdout and stderr.

Run "syla serve" for the HTTP/gRPC front door and worker pool together, or
"syla worker" to run workers only against a shared Redis queue.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("syla version %s (%s)\n", Version, Commit))
}
