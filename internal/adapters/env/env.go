package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/3-lines-studio/starter/internal/core"
	"github.com/joho/godotenv"
)

const DotEnvFile = ".env"

// Load reads the project's .env file, if any, into the process environment and
// returns the variables the build cares about. Variables already set in the
// environment take precedence over the file.
func Load(root string) (core.Env, error) {
	path := filepath.Join(root, DotEnvFile)
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return core.Env{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return Read(), nil
}

func Read() core.Env {
	return core.Env{
		NodeEnv: os.Getenv("NODE_ENV"),
		Port:    os.Getenv("PORT"),
		Host:    os.Getenv("HOST"),
	}
}
