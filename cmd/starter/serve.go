package main

import (
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/3-lines-studio/starter"
	"github.com/3-lines-studio/starter/internal/adapters/cli"
	"github.com/3-lines-studio/starter/internal/mount"
	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	openBrowser bool
	hostFlag    string
	portFlag    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the app: from memory with live reload in development, from the output directory in production",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("open") {
			cfg.DevServer.Open = openBrowser
		}
		if hostFlag != "" {
			cfg.DevServer.Host = hostFlag
		}
		if portFlag != "" {
			cfg.DevServer.Port = portFlag
		}

		app, err := starter.New(cfg)
		if errors.Is(err, mount.ErrContainerNotFound) {
			logrus.WithError(err).WithField("template", cfg.Template).Error("cannot mount the app")
			atexit.Exit(1)
		}
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		atexit.Register(stop)

		out := cli.NewOutput()
		return app.Serve(ctx, func(addr string) {
			url := localURL(addr)
			out.PrintHeader("Serving " + cfg.Mode.String() + " build")
			out.PrintURL("Local", url)
			if cfg.Mode.IsDev() {
				out.PrintStep(out.Gray("Rebuilding on change. Press Ctrl+C to stop."))
			}

			if cfg.DevServer.Open {
				if err := browser.OpenURL(url); err != nil {
					logrus.WithError(err).Warn("failed to open browser")
				}
			}
		})
	},
}

func init() {
	serveCmd.Flags().BoolVar(&openBrowser, "open", false, "open the app in the default browser")
	serveCmd.Flags().StringVar(&hostFlag, "host", "", "listen host (default HOST or 0.0.0.0)")
	serveCmd.Flags().StringVar(&portFlag, "port", "", "listen port (default PORT or 3000)")
	rootCmd.AddCommand(serveCmd)
}

// localURL turns a listen address into one a browser on this machine can open.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
