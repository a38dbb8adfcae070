package build

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/3-lines-studio/starter/internal/core"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

type File struct {
	Name     string
	Contents []byte
}

type Result struct {
	BuildID  string
	Files    []File
	Warnings []core.BuildMessage
}

func (r *Result) Names() []string {
	names := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		names = append(names, f.Name)
	}
	return names
}

// Engine bundles a project with esbuild according to a core.Config.
type Engine struct {
	log *logrus.Entry
}

func NewEngine() *Engine {
	return &Engine{log: logrus.WithField("component", "build")}
}

// Bundle runs a single build. Output stays in memory; nothing is written to disk.
func (e *Engine) Bundle(ctx context.Context, cfg core.Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("bundle not started: %w", err)
	}

	opts, outdir, err := e.options(cfg)
	if err != nil {
		return nil, err
	}

	bctx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return nil, &core.BuildError{Messages: convertMessages(ctxErr.Errors)}
	}
	defer bctx.Dispose()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			bctx.Cancel()
		case <-done:
		}
	}()

	result := bctx.Rebuild()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("bundle cancelled: %w", err)
	}

	return newResult(result, outdir)
}

// Watch builds once and then rebuilds whenever an input changes, reporting every
// outcome to onResult. It blocks until ctx is done.
func (e *Engine) Watch(ctx context.Context, cfg core.Config, onResult func(*Result, error)) error {
	opts, outdir, err := e.options(cfg)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	opts.Plugins = append(opts.Plugins, api.Plugin{
		Name: "starter-watch",
		Setup: func(build api.PluginBuild) {
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				mu.Lock()
				defer mu.Unlock()

				if err := ctx.Err(); err != nil {
					onResult(nil, fmt.Errorf("rebuild cancelled: %w", err))
					return api.OnEndResult{}, nil
				}
				onResult(newResult(*result, outdir))
				return api.OnEndResult{}, nil
			})
		},
	})

	bctx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return &core.BuildError{Messages: convertMessages(ctxErr.Errors)}
	}
	defer bctx.Dispose()

	if err := bctx.Watch(api.WatchOptions{}); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	e.log.WithField("entry", cfg.Entry).Info("watching for changes")

	<-ctx.Done()
	bctx.Cancel()
	return nil
}

func (e *Engine) options(cfg core.Config) (api.BuildOptions, string, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return api.BuildOptions{}, "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	outdir := filepath.Join(root, cfg.Output.Dir)

	target, ok := targets[strings.ToLower(cfg.Target)]
	if !ok {
		return api.BuildOptions{}, "", fmt.Errorf("unsupported target %q", cfg.Target)
	}

	defines, err := defineValues(cfg.Defines)
	if err != nil {
		return api.BuildOptions{}, "", err
	}

	plugins := []api.Plugin{
		progressPlugin(e.log.WithField("mode", cfg.Mode.String())),
		aliasPlugin(root, cfg.Alias),
	}
	if cfg.Styles == core.StyleInject {
		plugins = append(plugins, styleInjectPlugin(root, target))
	}

	opts := api.BuildOptions{
		AbsWorkingDir:     root,
		EntryPoints:       []string{filepath.Join(root, cfg.Entry)},
		Bundle:            true,
		Write:             false,
		Outdir:            outdir,
		EntryNames:        cfg.Output.EntryNames,
		ChunkNames:        cfg.Output.ChunkNames,
		AssetNames:        cfg.Output.AssetNames,
		PublicPath:        "/",
		Format:            api.FormatIIFE,
		Platform:          api.PlatformBrowser,
		Target:            target,
		Sourcemap:         sourceMaps[cfg.Devtool],
		MinifyWhitespace:  cfg.Minify && !cfg.Output.PathInfo,
		MinifyIdentifiers: cfg.Minify && !cfg.Output.PathInfo,
		MinifySyntax:      cfg.Minify,
		Loader:            loaders(cfg.Loaders),
		ResolveExtensions: resolveExtensions(cfg.Extensions),
		Define:            defines,
		LogLevel:          api.LogLevelSilent,
		Plugins:           plugins,
	}
	if cfg.Minify {
		opts.LegalComments = api.LegalCommentsNone
	}

	return opts, outdir, nil
}

var targets = map[string]api.Target{
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

var sourceMaps = map[core.SourceMap]api.SourceMap{
	core.SourceMapNone:   api.SourceMapNone,
	core.SourceMapInline: api.SourceMapInline,
	core.SourceMapLinked: api.SourceMapLinked,
}

func loaders(in map[string]core.Loader) map[string]api.Loader {
	out := make(map[string]api.Loader, len(in))
	for ext, l := range in {
		switch l {
		case core.LoaderJSX:
			out[ext] = api.LoaderJSX
		case core.LoaderCSS:
			out[ext] = api.LoaderCSS
		case core.LoaderJSON:
			out[ext] = api.LoaderJSON
		case core.LoaderFile:
			out[ext] = api.LoaderFile
		}
	}
	return out
}

// resolveExtensions tries the configured extensions first and keeps esbuild's
// defaults after them.
func resolveExtensions(configured []string) []string {
	defaults := []string{".tsx", ".ts", ".jsx", ".js", ".css", ".json"}
	seen := make(map[string]bool, len(configured)+len(defaults))
	out := make([]string, 0, len(configured)+len(defaults))
	for _, ext := range append(append([]string(nil), configured...), defaults...) {
		if seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}

// defineValues exposes every configured value as process.env.NAME. An empty
// value stays undefined, as an unset environment variable would.
func defineValues(values map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for name, value := range values {
		key := "process.env." + name
		if value == "" && name != "NODE_ENV" {
			out[key] = "undefined"
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode define %s: %w", name, err)
		}
		out[key] = string(encoded)
	}
	return out, nil
}

func newResult(result api.BuildResult, outdir string) (*Result, error) {
	if len(result.Errors) > 0 {
		return nil, &core.BuildError{Messages: convertMessages(result.Errors)}
	}

	files := make([]File, 0, len(result.OutputFiles))
	for _, f := range result.OutputFiles {
		rel, err := filepath.Rel(outdir, f.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("output %s escapes %s", f.Path, outdir)
		}
		files = append(files, File{
			Name:     filepath.ToSlash(rel),
			Contents: f.Contents,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return &Result{
		BuildID:  xid.New().String(),
		Files:    files,
		Warnings: convertMessages(result.Warnings),
	}, nil
}

func convertMessages(msgs []api.Message) []core.BuildMessage {
	out := make([]core.BuildMessage, 0, len(msgs))
	for _, m := range msgs {
		bm := core.BuildMessage{
			Text:   m.Text,
			Plugin: m.PluginName,
		}
		if m.Location != nil {
			bm.File = m.Location.File
			bm.Line = m.Location.Line
			bm.Column = m.Location.Column
		}
		out = append(out, bm)
	}
	return out
}
