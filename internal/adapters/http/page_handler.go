package http

import (
	"bytes"
	"errors"
	"html"
	"net/http"

	"github.com/3-lines-studio/starter/internal/core"
	"github.com/3-lines-studio/starter/internal/live"
	"github.com/3-lines-studio/starter/internal/usecase"
	"github.com/sirupsen/logrus"
)

// PageHandler renders the page with a freshly mounted root component on every
// navigation.
type PageHandler struct {
	pages    usecase.PageSource
	registry *live.Registry
	isDev    bool
	log      *logrus.Entry
}

func NewPageHandler(pages usecase.PageSource, registry *live.Registry, isDev bool) *PageHandler {
	return &PageHandler{
		pages:    pages,
		registry: registry,
		isDev:    isDev,
		log:      logrus.WithField("component", "page"),
	}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	page, err := h.pages.Page()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrNotReady) {
			status = http.StatusServiceUnavailable
		}
		h.serveError(w, status, err)
		return
	}

	session := h.registry.Mount()
	if req.Method == http.MethodHead {
		h.registry.Unmount(session.ID())
	}

	var buf bytes.Buffer
	if err := page.Shell.Render(&buf, session, session.ID()); err != nil {
		h.registry.Unmount(session.ID())
		h.log.WithError(err).WithField("path", req.URL.Path).Error("failed to render page")
		h.serveError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if req.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}

func (h *PageHandler) serveError(w http.ResponseWriter, status int, err error) {
	page := core.NewErrorPage(status, err, h.isDev)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("<!doctype html><html><body><pre>" + html.EscapeString(http.StatusText(status)) + "</pre></body></html>"))
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
