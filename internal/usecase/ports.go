package usecase

import (
	"context"

	"github.com/3-lines-studio/starter/internal/adapters/cli"
	"github.com/3-lines-studio/starter/internal/adapters/fs"
	"github.com/3-lines-studio/starter/internal/build"
	"github.com/3-lines-studio/starter/internal/component"
	"github.com/3-lines-studio/starter/internal/core"
)

//go:generate mockgen -destination mock_ports_test.go -package usecase . Bundler,ReloadNotifier

type Bundler interface {
	Bundle(ctx context.Context, cfg core.Config) (*build.Result, error)
	Watch(ctx context.Context, cfg core.Config, onResult func(*build.Result, error)) error
}

type ReloadNotifier interface {
	Reload(buildID string)
	Fail(messages []core.BuildMessage)
}

type CLIOutput interface {
	PrintHeader(msg string)
	PrintStep(msg string, args ...any)
	PrintSuccess(msg string, args ...any)
	PrintWarning(msg string, args ...any)
	PrintError(msg string, args ...any)
	PrintFile(path string)
	PrintDone(msg string, args ...any)
	Report(mode, outputDir string) *cli.BuildReport
}

type FileSystem = fs.FileSystem

// OutputStore holds development output. Replace publishes a complete build.
type OutputStore interface {
	FileSystem
	Replace(files map[string][]byte)
}

// RootFactory creates the root component for a build-time port value.
type RootFactory func(port string) component.Component
