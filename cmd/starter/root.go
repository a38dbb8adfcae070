package main

import (
	"fmt"
	"path/filepath"
	"strings"

	envadapter "github.com/3-lines-studio/starter/internal/adapters/env"
	"github.com/3-lines-studio/starter/internal/core"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	rootDir   string
	outDir    string
	modeFlag  string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "starter",
	Short: "Build and serve the counter starter app",
	Long: `starter bundles src/ into browser assets, injects them into ` +
		`public/index.html and serves the result, with live reload in ` +
		`development.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel, logFormat)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootDir, "root", ".", "project root containing src/ and public/")
	flags.StringVar(&outDir, "out-dir", "", "output directory relative to the root (default dist)")
	flags.StringVar(&modeFlag, "mode", "", "build mode, development or production (default from NODE_ENV)")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "text", "log format (text or json)")
}

// Execute runs the CLI and exits through atexit so registered hooks run.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("starter failed")
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func setupLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logrus.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid --log-format %q: want text or json", format)
	}
	return nil
}

// loadConfig resolves the project configuration from .env, the environment
// and the --mode flag.
func loadConfig() (core.Config, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return core.Config{}, fmt.Errorf("failed to resolve --root: %w", err)
	}

	env, err := envadapter.Load(root)
	if err != nil {
		return core.Config{}, err
	}

	mode, err := resolveMode(modeFlag, env.NodeEnv)
	if err != nil {
		return core.Config{}, err
	}

	cfg := core.NewConfig(root, mode, env)
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	logrus.WithFields(logrus.Fields{
		"mode": mode.String(),
		"root": root,
	}).Debug("configuration resolved")
	return cfg, nil
}

func resolveMode(flag, nodeEnv string) (core.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "":
		return core.ParseMode(nodeEnv), nil
	case "development":
		return core.ModeDevelopment, nil
	case "production":
		return core.ModeProduction, nil
	default:
		return core.ModeDevelopment, fmt.Errorf("invalid --mode %q: want development or production", flag)
	}
}
