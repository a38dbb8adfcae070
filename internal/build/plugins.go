package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/sirupsen/logrus"
)

// progressPlugin logs the start and the end of every build, the way a progress
// reporter would print 0% and 100%.
func progressPlugin(log *logrus.Entry) api.Plugin {
	return api.Plugin{
		Name: "starter-progress",
		Setup: func(build api.PluginBuild) {
			var started time.Time

			build.OnStart(func() (api.OnStartResult, error) {
				started = time.Now()
				log.WithField("percentage", 0).Info("building")
				return api.OnStartResult{}, nil
			})

			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				entry := log.WithFields(logrus.Fields{
					"percentage": 100,
					"duration":   time.Since(started).Round(time.Millisecond),
					"errors":     len(result.Errors),
					"warnings":   len(result.Warnings),
				})
				if len(result.Errors) > 0 {
					entry.Error("build failed")
				} else {
					entry.Info("build done")
				}
				for _, w := range result.Warnings {
					log.WithField("plugin", w.PluginName).Warn(w.Text)
				}
				return api.OnEndResult{}, nil
			})
		},
	}
}

// aliasPlugin resolves "<alias>/rest" imports against a directory under root.
func aliasPlugin(root string, aliases map[string]string) api.Plugin {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	return api.Plugin{
		Name: "starter-alias",
		Setup: func(build api.PluginBuild) {
			for _, name := range names {
				dir := filepath.Join(root, aliases[name])
				prefix := name + "/"

				build.OnResolve(api.OnResolveOptions{Filter: "^" + regexp.QuoteMeta(prefix)},
					func(args api.OnResolveArgs) (api.OnResolveResult, error) {
						resolved := build.Resolve("./"+strings.TrimPrefix(args.Path, prefix), api.ResolveOptions{
							ResolveDir: dir,
							Kind:       args.Kind,
							Importer:   args.Importer,
						})
						if len(resolved.Errors) > 0 {
							return api.OnResolveResult{Errors: resolved.Errors}, nil
						}
						return api.OnResolveResult{
							Path:      resolved.Path,
							Namespace: resolved.Namespace,
						}, nil
					})
			}
		},
	}
}

// styleInjectPlugin turns every imported stylesheet into a module that adds a
// <style> element to the document when the bundle runs. No CSS file is emitted.
func styleInjectPlugin(root string, target api.Target) api.Plugin {
	return api.Plugin{
		Name: "starter-style-inject",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: `\.css$`, Namespace: "file"},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					source, err := os.ReadFile(args.Path)
					if err != nil {
						return api.OnLoadResult{}, fmt.Errorf("failed to read %s: %w", args.Path, err)
					}

					rel, err := filepath.Rel(root, args.Path)
					if err != nil {
						rel = filepath.Base(args.Path)
					}

					css := api.Transform(string(source), api.TransformOptions{
						Loader:     api.LoaderCSS,
						Target:     target,
						Sourcefile: filepath.ToSlash(rel),
					})
					if len(css.Errors) > 0 {
						return api.OnLoadResult{Errors: css.Errors}, nil
					}

					contents, err := styleModule(filepath.ToSlash(rel), string(css.Code))
					if err != nil {
						return api.OnLoadResult{}, err
					}

					return api.OnLoadResult{
						Contents:   &contents,
						Loader:     api.LoaderJS,
						WatchFiles: []string{args.Path},
					}, nil
				})
		},
	}
}

func styleModule(source, css string) (string, error) {
	encodedSource, err := json.Marshal(source)
	if err != nil {
		return "", err
	}
	encodedCSS, err := json.Marshal(css)
	if err != nil {
		return "", err
	}

	return `(function () {
  var style = document.createElement("style");
  style.setAttribute("data-source", ` + string(encodedSource) + `);
  style.textContent = ` + string(encodedCSS) + `;
  document.head.appendChild(style);
})();
`, nil
}
