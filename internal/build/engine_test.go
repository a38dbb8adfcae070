package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/3-lines-studio/starter/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func defaultProject(t *testing.T) string {
	return writeProject(t, map[string]string{
		"src/main.js": `import "./main.css";
import { greet } from "@/greet";
import logo from "./logo.png";

const port = process.env.PORT;
document.body.dataset.logo = logo;
console.log(greet(port), process.env.NODE_ENV);
`,
		"src/greet.js": `export function greet(port) { return "listening on " + port; }
`,
		"src/main.css": `body {
  margin: 0;
  font-family: sans-serif;
}
`,
		"src/logo.png": "\x89PNG\r\n\x1a\nfake",
	})
}

func fileNames(r *Result) string {
	return strings.Join(r.Names(), "\n")
}

func findFile(r *Result, match func(string) bool) (File, bool) {
	for _, f := range r.Files {
		if match(f.Name) {
			return f, true
		}
	}
	return File{}, false
}

func TestBundleProduction(t *testing.T) {
	root := defaultProject(t)
	cfg := core.NewConfig(root, core.ModeProduction, core.Env{Port: "8080"})

	result, err := NewEngine().Bundle(context.Background(), cfg)
	require.NoError(t, err)
	require.NotEmpty(t, result.BuildID)

	script, ok := findFile(result, func(n string) bool {
		return strings.HasPrefix(n, "static/js/main.") && strings.HasSuffix(n, ".js")
	})
	require.True(t, ok, "hashed script missing in:\n%s", fileNames(result))
	assert.True(t, core.IsHashedAsset(script.Name), script.Name)
	assert.Contains(t, string(script.Contents), `"8080"`)
	assert.Contains(t, string(script.Contents), "sourceMappingURL=")
	assert.NotContains(t, string(script.Contents), "process.env")

	style, ok := findFile(result, func(n string) bool {
		return strings.HasPrefix(n, "static/css/main.") && strings.HasSuffix(n, ".css")
	})
	require.True(t, ok, "extracted stylesheet missing in:\n%s", fileNames(result))
	assert.True(t, core.IsHashedAsset(style.Name), style.Name)
	assert.Contains(t, string(style.Contents), "margin:0")

	_, ok = findFile(result, func(n string) bool { return strings.HasSuffix(n, ".js.map") })
	assert.True(t, ok, "source map missing")

	media, ok := findFile(result, func(n string) bool { return strings.HasPrefix(n, "static/media/logo.") })
	require.True(t, ok, "media asset missing in:\n%s", fileNames(result))
	assert.True(t, strings.HasSuffix(media.Name, ".png"))
	assert.Contains(t, string(script.Contents), "/"+media.Name)
}

func TestBundleProductionHashFollowsContent(t *testing.T) {
	root := defaultProject(t)
	cfg := core.NewConfig(root, core.ModeProduction, core.Env{Port: "1"})

	first, err := NewEngine().Bundle(context.Background(), cfg)
	require.NoError(t, err)
	again, err := NewEngine().Bundle(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, first.Names(), again.Names(), "same input, same names")

	cfg.Defines["PORT"] = "2"
	changed, err := NewEngine().Bundle(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, first.Names(), changed.Names(), "different input, different script hash")
}

func TestBundleDevelopment(t *testing.T) {
	root := defaultProject(t)
	cfg := core.NewConfig(root, core.ModeDevelopment, core.Env{})

	result, err := NewEngine().Bundle(context.Background(), cfg)
	require.NoError(t, err)

	for _, name := range result.Names() {
		assert.False(t, strings.HasSuffix(name, ".css"), "no stylesheet file in development, got %s", name)
	}

	bundle, ok := findFile(result, func(n string) bool { return n == "static/js/bundle.js" })
	require.True(t, ok, "bundle missing in:\n%s", fileNames(result))

	js := string(bundle.Contents)
	assert.Contains(t, js, `document.createElement("style")`)
	assert.Contains(t, js, "font-family")
	assert.Contains(t, js, "sourceMappingURL=data:application/json")
	assert.Contains(t, js, `"development"`)
	assert.Contains(t, js, "listening on", "development output is not minified")
}

func TestBundlePathInfo(t *testing.T) {
	root := defaultProject(t)
	cfg := core.NewConfig(root, core.ModeProduction, core.Env{})

	minified, err := NewEngine().Bundle(context.Background(), cfg)
	require.NoError(t, err)
	script, ok := findFile(minified, func(n string) bool { return strings.HasPrefix(n, "static/js/main.") && strings.HasSuffix(n, ".js") })
	require.True(t, ok, "script missing in:\n%s", fileNames(minified))
	assert.NotContains(t, string(script.Contents), "// src/greet.js")

	cfg.Output.PathInfo = true
	readable, err := NewEngine().Bundle(context.Background(), cfg)
	require.NoError(t, err)
	script, ok = findFile(readable, func(n string) bool { return strings.HasPrefix(n, "static/js/main.") && strings.HasSuffix(n, ".js") })
	require.True(t, ok, "script missing in:\n%s", fileNames(readable))
	assert.Contains(t, string(script.Contents), "// src/greet.js")
	assert.Contains(t, string(script.Contents), "function greet(port)")
}

func TestWatchRebuildsOnChange(t *testing.T) {
	root := defaultProject(t)
	cfg := core.NewConfig(root, core.ModeDevelopment, core.Env{})

	type outcome struct {
		result *Result
		err    error
	}
	outcomes := make(chan outcome, 16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewEngine().Watch(ctx, cfg, func(r *Result, err error) {
			select {
			case outcomes <- outcome{r, err}:
			default:
			}
		})
	}()

	bundleOf := func(t *testing.T) string {
		t.Helper()
		select {
		case o := <-outcomes:
			require.NoError(t, o.err)
			bundle, ok := findFile(o.result, func(n string) bool { return n == "static/js/bundle.js" })
			require.True(t, ok, "bundle missing in:\n%s", fileNames(o.result))
			return string(bundle.Contents)
		case <-time.After(15 * time.Second):
			t.Fatal("no build result")
			return ""
		}
	}

	first := bundleOf(t)
	assert.Contains(t, first, "font-family")
	assert.NotContains(t, first, "rebeccapurple")

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.css"), []byte("body { color: rebeccapurple; }\n"), 0644))
	second := bundleOf(t)
	assert.Contains(t, second, "rebeccapurple")

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "greet.js"),
		[]byte(`export function greet(port) { return "serving on " + port; }`+"\n"), 0644))
	third := bundleOf(t)
	assert.Contains(t, third, "serving on")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestBundleSyntaxError(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/main.js": "const = ;\n",
	})
	cfg := core.NewConfig(root, core.ModeProduction, core.Env{})

	_, err := NewEngine().Bundle(context.Background(), cfg)

	var buildErr *core.BuildError
	require.True(t, errors.As(err, &buildErr), "got %v", err)
	require.NotEmpty(t, buildErr.Messages)
	assert.Equal(t, "src/main.js", filepath.ToSlash(buildErr.Messages[0].File))
	assert.Equal(t, 1, buildErr.Messages[0].Line)
}

func TestBundleMissingEntry(t *testing.T) {
	root := t.TempDir()
	cfg := core.NewConfig(root, core.ModeDevelopment, core.Env{})

	_, err := NewEngine().Bundle(context.Background(), cfg)

	var buildErr *core.BuildError
	assert.True(t, errors.As(err, &buildErr), "got %v", err)
}

func TestBundleCancelledContext(t *testing.T) {
	root := defaultProject(t)
	cfg := core.NewConfig(root, core.ModeDevelopment, core.Env{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().Bundle(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, core.ShouldOverlay(err))
}

func TestBundleUnsupportedTarget(t *testing.T) {
	cfg := core.NewConfig(t.TempDir(), core.ModeDevelopment, core.Env{})
	cfg.Target = "es3"

	_, err := NewEngine().Bundle(context.Background(), cfg)
	assert.ErrorContains(t, err, "unsupported target")
}

func TestDefineValues(t *testing.T) {
	got, err := defineValues(map[string]string{
		"NODE_ENV": "production",
		"PORT":     "",
		"HOST":     `a"b`,
	})
	require.NoError(t, err)

	assert.Equal(t, `"production"`, got["process.env.NODE_ENV"])
	assert.Equal(t, "undefined", got["process.env.PORT"])
	assert.Equal(t, `"a\"b"`, got["process.env.HOST"])
}

func TestResolveExtensionsKeepsOrder(t *testing.T) {
	got := resolveExtensions([]string{".jsx", ".js", ".json"})
	assert.Equal(t, []string{".jsx", ".js", ".json", ".tsx", ".ts", ".css"}, got)
}

func TestStyleModule(t *testing.T) {
	js, err := styleModule("src/main.css", "body{color:red}\n")
	require.NoError(t, err)

	assert.Contains(t, js, `document.createElement("style")`)
	assert.Contains(t, js, `"body{color:red}\n"`)
	assert.Contains(t, js, `"src/main.css"`)
}
