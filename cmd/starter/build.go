package main

import (
	"errors"

	"github.com/3-lines-studio/starter"
	"github.com/3-lines-studio/starter/internal/adapters/cli"
	"github.com/3-lines-studio/starter/internal/mount"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Bundle the project into the output directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := starter.Build(cmd.Context(), cfg, cli.NewOutput())
		if errors.Is(out.Error, mount.ErrContainerNotFound) {
			logrus.WithError(out.Error).WithField("template", cfg.Template).Error("cannot mount the app")
			atexit.Exit(1)
		}
		return out.Error
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
