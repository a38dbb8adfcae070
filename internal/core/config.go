package core

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultHost = "0.0.0.0"
	DefaultPort = "3000"

	ContainerID = "app"
)

type SourceMap int

const (
	SourceMapNone SourceMap = iota
	SourceMapInline
	SourceMapLinked
)

type Loader int

const (
	LoaderJSX Loader = iota
	LoaderCSS
	LoaderFile
	LoaderJSON
)

// StyleHandling selects what happens to imported stylesheets.
type StyleHandling int

const (
	StyleInject StyleHandling = iota
	StyleExtract
)

type OutputConfig struct {
	Dir string
	// Entry, chunk and asset name patterns use esbuild placeholders
	// ([name], [hash], [ext]) and never include the file extension.
	EntryNames string
	ChunkNames string
	AssetNames string
	Clean      bool
	// PathInfo keeps whitespace and identifiers, so the bundle carries a
	// "// path/to/module.js" comment above every module.
	PathInfo bool
}

type OverlayConfig struct {
	Errors        bool
	Warnings      bool
	RuntimeErrors func(err error) bool
}

type DevServerConfig struct {
	Static             string
	Host               string
	Port               string
	Open               bool
	Hot                bool
	Compress           bool
	HistoryAPIFallback bool
	Overlay            OverlayConfig
}

type Config struct {
	Mode       Mode
	Root       string
	Entry      string
	Template   string
	Output     OutputConfig
	Devtool    SourceMap
	Target     string
	Minify     bool
	MinifyHTML bool
	Styles     StyleHandling
	Loaders    map[string]Loader
	Alias      map[string]string
	Extensions []string
	Defines    map[string]string
	DevServer  DevServerConfig
}

var (
	ErrInvalidPort     = errors.New("invalid port")
	ErrUnsafeOutputDir = errors.New("output directory contains project sources")
)

// NewConfig resolves the build configuration for the project rooted at root.
func NewConfig(root string, mode Mode, env Env) Config {
	isProd := mode == ModeProduction

	cfg := Config{
		Mode:     mode,
		Root:     root,
		Entry:    filepath.Join("src", "main.js"),
		Template: filepath.Join("public", "index.html"),
		Output: OutputConfig{
			Dir:        "dist",
			EntryNames: "static/js/bundle",
			ChunkNames: "static/js/[name].chunk",
			AssetNames: "static/media/[name].[hash]",
			Clean:      true,
			PathInfo:   !isProd,
		},
		Devtool:    SourceMapInline,
		Target:     "es2017",
		Minify:     isProd,
		MinifyHTML: isProd,
		Styles:     StyleInject,
		Loaders: map[string]Loader{
			".js":    LoaderJSX,
			".jsx":   LoaderJSX,
			".css":   LoaderCSS,
			".json":  LoaderJSON,
			".eot":   LoaderFile,
			".svg":   LoaderFile,
			".ttf":   LoaderFile,
			".woff":  LoaderFile,
			".woff2": LoaderFile,
			".png":   LoaderFile,
			".jpg":   LoaderFile,
			".gif":   LoaderFile,
		},
		Alias:      map[string]string{"@": "src"},
		Extensions: []string{".jsx", ".js", ".json"},
		Defines: map[string]string{
			"NODE_ENV": mode.String(),
			"PORT":     env.Port,
		},
		DevServer: DevServerConfig{
			Static:             "public",
			Host:               valueOr(env.Host, DefaultHost),
			Port:               valueOr(env.Port, DefaultPort),
			Hot:                true,
			Compress:           true,
			HistoryAPIFallback: true,
			Overlay: OverlayConfig{
				Errors:        true,
				Warnings:      false,
				RuntimeErrors: ShouldOverlay,
			},
		},
	}

	if isProd {
		cfg.Output.EntryNames = "static/[ext]/[name].[hash]"
		cfg.Output.ChunkNames = "static/[ext]/[name].[hash].chunk"
		cfg.Devtool = SourceMapLinked
		cfg.Styles = StyleExtract
	}

	return cfg
}

func (c Config) OutputPath() string {
	return filepath.Join(c.Root, c.Output.Dir)
}

func (c Config) EntryPath() string {
	return filepath.Join(c.Root, c.Entry)
}

func (c Config) TemplatePath() string {
	return filepath.Join(c.Root, c.Template)
}

func (c Config) StaticPath() string {
	return filepath.Join(c.Root, c.DevServer.Static)
}

// CheckOutput rejects an output directory that is the project root or holds
// the entry or static directories, since cleaning it would delete them.
func (c Config) CheckOutput() error {
	out, err := filepath.Abs(c.OutputPath())
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	for _, dir := range []string{c.Root, filepath.Dir(c.EntryPath()), c.StaticPath()} {
		protected, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", dir, err)
		}
		if within(protected, out) {
			return fmt.Errorf("%w: %s holds %s", ErrUnsafeOutputDir, out, protected)
		}
	}
	return nil
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (c Config) Addr() (string, error) {
	port, err := strconv.Atoi(c.DevServer.Port)
	if err != nil || port < 0 || port > 65535 {
		return "", ErrInvalidPort
	}
	return net.JoinHostPort(c.DevServer.Host, strconv.Itoa(port)), nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
