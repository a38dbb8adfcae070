package fs

import (
	iofs "io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFileSystem keeps development output off the disk. Replace swaps the
// whole tree at once so readers never observe half of a rebuild.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{files: make(map[string][]byte)}
}

func memKey(p string) string {
	p = path.Clean("/" + filepath.ToSlash(p))
	return strings.TrimPrefix(p, "/")
}

func (m *MemoryFileSystem) ReadFile(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[memKey(p)]
	if !ok {
		return nil, &iofs.PathError{Op: "read", Path: p, Err: iofs.ErrNotExist}
	}
	return data, nil
}

func (m *MemoryFileSystem) ReadDir(p string) ([]iofs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir := memKey(p)
	prefix := dir + "/"
	if dir == "" || dir == "." {
		prefix = ""
	}

	seen := make(map[string]iofs.DirEntry)
	for name, data := range m.files {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}
		if child, _, isDir := strings.Cut(rest, "/"); isDir {
			seen[child] = memEntry{name: child, dir: true}
		} else {
			seen[child] = memEntry{name: child, size: int64(len(data))}
		}
	}
	if len(seen) == 0 {
		return nil, &iofs.PathError{Op: "readdir", Path: p, Err: iofs.ErrNotExist}
	}

	entries := make([]iofs.DirEntry, 0, len(seen))
	for _, e := range seen {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MemoryFileSystem) FileExists(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[memKey(p)]
	return ok
}

func (m *MemoryFileSystem) WriteFile(p string, data []byte, _ iofs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[memKey(p)] = append([]byte(nil), data...)
	return nil
}

// MkdirAll is a no-op; directories exist implicitly.
func (m *MemoryFileSystem) MkdirAll(string, iofs.FileMode) error {
	return nil
}

func (m *MemoryFileSystem) RemoveAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memKey(p)
	for name := range m.files {
		if key == "" || name == key || strings.HasPrefix(name, key+"/") {
			delete(m.files, name)
		}
	}
	return nil
}

// WalkDir visits the files below root in lexical order. Directories are not reported.
func (m *MemoryFileSystem) WalkDir(root string, fn iofs.WalkDirFunc) error {
	m.mu.RLock()
	key := memKey(root)
	var names []string
	sizes := make(map[string]int64)
	for name, data := range m.files {
		if key == "" || name == key || strings.HasPrefix(name, key+"/") {
			names = append(names, name)
			sizes[name] = int64(len(data))
		}
	}
	m.mu.RUnlock()

	sort.Strings(names)
	for _, name := range names {
		err := fn(filepath.FromSlash(name), memEntry{name: path.Base(name), size: sizes[name]}, nil)
		if err == iofs.SkipAll {
			return nil
		}
		if err != nil && err != iofs.SkipDir {
			return err
		}
	}
	return nil
}

// Replace drops every file and installs files in their place.
func (m *MemoryFileSystem) Replace(files map[string][]byte) {
	next := make(map[string][]byte, len(files))
	for name, data := range files {
		next[memKey(name)] = data
	}

	m.mu.Lock()
	m.files = next
	m.mu.Unlock()
}

type memEntry struct {
	name string
	size int64
	dir  bool
}

func (e memEntry) Name() string { return e.name }
func (e memEntry) IsDir() bool  { return e.dir }

func (e memEntry) Type() iofs.FileMode {
	if e.dir {
		return iofs.ModeDir
	}
	return 0
}

func (e memEntry) Info() (iofs.FileInfo, error) { return memInfo{e}, nil }

type memInfo struct{ e memEntry }

func (i memInfo) Name() string        { return i.e.name }
func (i memInfo) Size() int64         { return i.e.size }
func (i memInfo) Mode() iofs.FileMode { return i.e.Type() | 0644 }
func (i memInfo) ModTime() time.Time  { return time.Time{} }
func (i memInfo) IsDir() bool         { return i.e.dir }
func (i memInfo) Sys() any            { return nil }
