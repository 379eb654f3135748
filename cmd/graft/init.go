package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kingrea/graft/internal/config"
)

// initCmd scaffolds the .graft directory
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .graft directory and a default config",
	Long: `Create .graft/, .graft/logs/ and .graft/tasks/ in the project and write a
default config.yaml. An existing config is left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		dir = cwd
	}
	if err := config.InitDir(dir); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", filepath.Join(dir, config.GraftDir, "config.yaml"))
	return nil
}
