package fs

import (
	iofs "io/fs"
)

// FileSystem is the storage the build writes to and the server reads from.
// Paths use the host separator; implementations create parent directories on write.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]iofs.DirEntry, error)
	FileExists(path string) bool
	WriteFile(path string, data []byte, perm iofs.FileMode) error
	MkdirAll(path string, perm iofs.FileMode) error
	RemoveAll(path string) error
	WalkDir(root string, fn iofs.WalkDirFunc) error
}
