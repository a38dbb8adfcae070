package usecase

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/3-lines-studio/starter/internal/adapters/cli"
	"github.com/3-lines-studio/starter/internal/component"
	"github.com/stretchr/testify/require"
)

const testTemplate = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>test</title>
    <!-- replaced at build time -->
  </head>
  <body>
    <div id="app"></div>
  </body>
</html>
`

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func quietOutput() *cli.Output {
	return cli.NewOutputTo(io.Discard, io.Discard)
}

func counterRoot(port string) component.Component {
	return component.NewCounter(port)
}
