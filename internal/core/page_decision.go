package core

import (
	"net/http"
	"path"
	"strings"
)

type PageAction int

const (
	ActionNotFound PageAction = iota
	ActionServeAsset
	ActionServePublic
	ActionRenderPage
)

type PageRequest struct {
	Method          string
	Path            string
	Accept          string
	PublicExists    bool
	HistoryFallback bool
}

// DecidePageAction picks how a request outside the socket endpoints is answered.
// Navigations fall back to the page only when they look like an HTML navigation:
// GET or HEAD, an Accept header admitting HTML and no file extension in the last
// path segment.
func DecidePageAction(req PageRequest) PageAction {
	p := NormalizePath(req.Path)

	if strings.HasPrefix(p, "/static/") {
		return ActionServeAsset
	}

	if p != "/" && req.PublicExists {
		return ActionServePublic
	}

	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return ActionNotFound
	}

	if p == "/" || p == "/index.html" {
		return ActionRenderPage
	}

	if !req.HistoryFallback {
		return ActionNotFound
	}

	if !AcceptsHTML(req.Accept) {
		return ActionNotFound
	}

	if path.Ext(path.Base(p)) != "" {
		return ActionNotFound
	}

	return ActionRenderPage
}

func AcceptsHTML(accept string) bool {
	if accept == "" {
		return false
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if mediaType == "text/html" || mediaType == "*/*" {
			return true
		}
	}
	return false
}
