package main

import (
	"fmt"
	"path/filepath"

	"github.com/3-lines-studio/starter"
	"github.com/3-lines-studio/starter/internal/adapters/cli"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Scaffold a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve project directory: %w", err)
		}
		return starter.Init(dir, cli.NewOutput()).Error
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
