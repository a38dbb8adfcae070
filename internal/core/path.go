package core

import (
	"fmt"
	"strings"
)

func NormalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// ValidateAssetPath rejects request paths that could escape the output directory.
func ValidateAssetPath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("path cannot contain parent directory references")
	}

	if strings.Contains(path, "\\") {
		return fmt.Errorf("path cannot contain backslashes")
	}

	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path cannot contain NUL")
	}

	return nil
}
