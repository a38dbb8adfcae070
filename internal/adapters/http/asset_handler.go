package http

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/3-lines-studio/starter/internal/adapters/fs"
	"github.com/3-lines-studio/starter/internal/core"
)

const (
	cacheImmutable  = "public, max-age=31536000, immutable"
	cacheRevalidate = "no-cache"
)

// FileHandler serves files below root. Content-hashed names are cached for a
// year when immutable is set; everything else revalidates against its ETag.
type FileHandler struct {
	fs        fs.FileSystem
	root      string
	immutable bool
}

// NewAssetHandler serves bundler output under /static/.
func NewAssetHandler(fsys fs.FileSystem, root string) *FileHandler {
	return &FileHandler{fs: fsys, root: root, immutable: true}
}

// NewPublicHandler serves files copied verbatim from the static directory.
func NewPublicHandler(fsys fs.FileSystem, root string) *FileHandler {
	return &FileHandler{fs: fsys, root: root}
}

// Exists reports whether a request path names a servable file.
func (h *FileHandler) Exists(urlPath string) bool {
	name, ok := h.resolve(urlPath)
	return ok && h.fs.FileExists(name)
}

func (h *FileHandler) resolve(urlPath string) (string, bool) {
	name := strings.TrimPrefix(urlPath, "/")
	if err := core.ValidateAssetPath(name); err != nil {
		return "", false
	}
	return filepath.Join(h.root, filepath.FromSlash(name)), true
}

func (h *FileHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	name, ok := h.resolve(req.URL.Path)
	if !ok || !h.fs.FileExists(name) {
		http.NotFound(w, req)
		return
	}

	data, err := h.fs.ReadFile(name)
	if err != nil {
		http.NotFound(w, req)
		return
	}

	w.Header().Set("Content-Type", core.GetContentType(name))
	w.Header().Set("ETag", core.ETag(data))
	if h.immutable && core.IsHashedAsset(name) {
		w.Header().Set("Cache-Control", cacheImmutable)
	} else {
		w.Header().Set("Cache-Control", cacheRevalidate)
	}

	http.ServeContent(w, req, filepath.Base(name), time.Time{}, bytes.NewReader(data))
}
