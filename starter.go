// Package starter builds the counter front-end and serves it, from memory with
// live reload in development or from the build output in production.
package starter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/3-lines-studio/starter/internal/adapters/cli"
	"github.com/3-lines-studio/starter/internal/adapters/fs"
	httpadapter "github.com/3-lines-studio/starter/internal/adapters/http"
	"github.com/3-lines-studio/starter/internal/build"
	"github.com/3-lines-studio/starter/internal/component"
	"github.com/3-lines-studio/starter/internal/core"
	"github.com/3-lines-studio/starter/internal/live"
	"github.com/3-lines-studio/starter/internal/usecase"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type Config = core.Config

// App is a running counter page: its live sessions, its page source and, in
// development, the watcher that rebuilds it.
type App struct {
	cfg      core.Config
	registry *live.Registry
	pages    usecase.PageSource
	dev      *usecase.DevService
	handler  http.Handler
	log      *logrus.Entry
}

// New prepares the app for cfg. It fails when the page has no mount
// container, and in production when the output directory holds no build.
func New(cfg core.Config) (*App, error) {
	osfs := fs.NewOSFileSystem()
	app := &App{
		cfg: cfg,
		log: logrus.WithFields(logrus.Fields{"component": "app", "mode": cfg.Mode.String()}),
	}

	routes := httpadapter.RouterConfig{
		Public:             osfs,
		IsDev:              cfg.Mode.IsDev(),
		Compress:           cfg.DevServer.Compress,
		HistoryAPIFallback: cfg.DevServer.HistoryAPIFallback,
	}

	if cfg.Mode.IsDev() {
		out := fs.NewMemoryFileSystem()
		hub := live.NewHub(cfg.DevServer.Overlay.RuntimeErrors)
		app.dev = usecase.NewDevService(build.NewEngine(), osfs, out, hub)
		if err := app.dev.Check(cfg); err != nil {
			return nil, err
		}
		app.pages = app.dev

		routes.Assets = out
		routes.PublicRoot = cfg.StaticPath()
		if cfg.DevServer.Hot {
			routes.Reload = hub
		}
	} else {
		pages, err := usecase.LoadPage(osfs, cfg.OutputPath())
		if err != nil {
			return nil, err
		}
		app.pages = pages

		routes.Assets = osfs
		routes.AssetsRoot = cfg.OutputPath()
		routes.PublicRoot = cfg.OutputPath()
	}

	app.registry = live.NewRegistry(app.newRoot, live.Options{Strict: cfg.Mode.IsDev()})
	routes.Registry = app.registry
	routes.Pages = app.pages
	app.handler = httpadapter.NewRouter(routes)

	return app, nil
}

// newRoot builds the root component with the port baked into the current build.
func (a *App) newRoot() component.Component {
	var port string
	if page, err := a.pages.Page(); err == nil {
		port = page.Manifest.Port()
	}
	return component.NewCounter(port)
}

func (a *App) Handler() http.Handler {
	return a.handler
}

// Run drives the background work until ctx is done: expiring unclaimed
// sessions and, in development, rebuilding on change.
func (a *App) Run(ctx context.Context) error {
	go a.registry.Run(ctx)

	if a.dev == nil {
		<-ctx.Done()
		return nil
	}
	return a.dev.Start(ctx, a.cfg)
}

// Serve listens on the configured address until ctx is done. ready, when set,
// receives the bound address once the listener is open.
func (a *App) Serve(ctx context.Context, ready func(addr string)) error {
	addr, err := a.cfg.Addr()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 2)
	go func() {
		if err := a.Run(runCtx); err != nil {
			errc <- fmt.Errorf("watcher stopped: %w", err)
		}
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	a.log.WithField("addr", ln.Addr().String()).Info("listening")
	if ready != nil {
		ready(ln.Addr().String())
	}

	select {
	case <-ctx.Done():
	case err = <-errc:
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}

// Build writes a build of the project to its output directory.
func Build(ctx context.Context, cfg core.Config, out *cli.Output) usecase.BuildOutput {
	service := usecase.NewBuildService(build.NewEngine(), fs.NewOSFileSystem(), out, func(port string) component.Component {
		return component.NewCounter(port)
	})
	return service.BuildProject(ctx, usecase.BuildInput{Config: cfg})
}

// Init scaffolds a new project in dir.
func Init(dir string, out *cli.Output) usecase.InitOutput {
	return usecase.NewInitService(fs.NewOSFileSystem(), out).InitProject(usecase.InitInput{ProjectDir: dir})
}
