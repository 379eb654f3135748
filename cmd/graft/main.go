// cmd/graft/main.go
//
// This is the entry point for the graft CLI.
// Running `graft` with no subcommand performs one integration pass: check
// which task outputs exist, pull the fenced code out of the finished ones,
// rewrite the namespace, and report. Missing outputs are reported, never fatal.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// projectDir is the project graft operates on (defaults to the cwd)
	projectDir string
	// configPath overrides .graft/config.yaml
	configPath string
	// verbose mirrors debug logs to stderr
	verbose bool
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "graft",
	Short: "Integrate code fragments from parallel task outputs",
	Long: `graft checks the output files written by parallel tasks, extracts the
fenced code blocks from every finished one, renames the source namespace
to the target namespace, and reports the result per task.

Examples:
  # Run one integration pass in the current project
  graft

  # Show which tasks have finished
  graft status

  # Browse the rewritten fragments interactively
  graft browse`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runIntegrate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "project", "", "project directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: <project>/.graft/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write debug logs to stderr")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.SetErr(os.Stderr)
	cobra.OnFinalize(closeSession)
}
