package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/3-lines-studio/starter/internal/adapters/fs"
	"github.com/3-lines-studio/starter/internal/core"
	"github.com/3-lines-studio/starter/internal/live"
	"github.com/3-lines-studio/starter/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	Assets     fs.FileSystem
	AssetsRoot string
	Public     fs.FileSystem
	PublicRoot string

	Pages    usecase.PageSource
	Registry *live.Registry
	// Reload is mounted at live.ReloadPath when set.
	Reload http.Handler

	IsDev              bool
	Compress           bool
	HistoryAPIFallback bool
}

type router struct {
	assets   *FileHandler
	public   *FileHandler
	page     *PageHandler
	fallback bool
}

// NewRouter wires the socket endpoints, static files and the page.
func NewRouter(cfg RouterConfig) http.Handler {
	rt := &router{
		assets:   NewAssetHandler(cfg.Assets, cfg.AssetsRoot),
		public:   NewPublicHandler(cfg.Public, cfg.PublicRoot),
		page:     NewPageHandler(cfg.Pages, cfg.Registry, cfg.IsDev),
		fallback: cfg.HistoryAPIFallback,
	}

	r := chi.NewRouter()
	r.Use(RequestLogger(logrus.WithField("component", "http")))
	r.Use(middleware.Recoverer)

	r.Handle(live.SocketPath, live.NewSocketHandler(cfg.Registry))
	if cfg.Reload != nil {
		r.Handle(live.ReloadPath, cfg.Reload)
	}

	r.Group(func(r chi.Router) {
		if cfg.Compress {
			r.Use(middleware.Compress(5))
		}
		r.HandleFunc("/*", rt.dispatch)
	})

	return r
}

func (rt *router) dispatch(w http.ResponseWriter, req *http.Request) {
	name := strings.TrimPrefix(core.NormalizePath(req.URL.Path), "/")

	action := core.DecidePageAction(core.PageRequest{
		Method:          req.Method,
		Path:            req.URL.Path,
		Accept:          req.Header.Get("Accept"),
		PublicExists:    name != usecase.IndexFile && rt.public.Exists(name),
		HistoryFallback: rt.fallback,
	})

	switch action {
	case core.ActionServeAsset:
		rt.assets.ServeHTTP(w, req)
	case core.ActionServePublic:
		rt.public.ServeHTTP(w, req)
	case core.ActionRenderPage:
		rt.page.ServeHTTP(w, req)
	default:
		http.NotFound(w, req)
	}
}

// RequestLogger logs one line per request. Socket upgrades are logged when
// the connection ends.
func RequestLogger(log *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

			next.ServeHTTP(ww, req)

			entry := log.WithFields(logrus.Fields{
				"method":   req.Method,
				"path":     req.URL.Path,
				"status":   ww.Status(),
				"bytes":    ww.BytesWritten(),
				"duration": time.Since(start).Round(time.Microsecond),
			})
			if ww.Status() >= http.StatusInternalServerError {
				entry.Warn("request")
			} else {
				entry.Debug("request")
			}
		})
	}
}
