package usecase

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/3-lines-studio/starter/internal/core"
	"github.com/3-lines-studio/starter/internal/mount"
)

const IndexFile = "index.html"

var (
	ErrNotReady = errors.New("no successful build yet")
	ErrNoBuild  = errors.New("output directory holds no build")
)

// Page is what the server renders on every navigation.
type Page struct {
	Shell    *mount.Shell
	Manifest *core.Manifest
}

type PageSource interface {
	Page() (*Page, error)
}

// PreparePage splits a built document around the mount container.
func PreparePage(document []byte, manifest *core.Manifest) (*Page, error) {
	shell, err := mount.Prepare(document, core.ContainerID)
	if err != nil {
		return nil, err
	}
	return &Page{Shell: shell, Manifest: manifest}, nil
}

// StaticPages serves the page of a finished build.
type StaticPages struct {
	page *Page
}

// LoadPage reads index.html and the asset manifest from a build output directory.
func LoadPage(fs FileSystem, outdir string) (*StaticPages, error) {
	document, err := fs.ReadFile(filepath.Join(outdir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoBuild, err)
	}

	data, err := fs.ReadFile(filepath.Join(outdir, core.ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoBuild, err)
	}
	manifest, err := core.ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", core.ManifestFile, err)
	}

	page, err := PreparePage(document, manifest)
	if err != nil {
		return nil, err
	}
	return &StaticPages{page: page}, nil
}

func (s *StaticPages) Page() (*Page, error) {
	return s.page, nil
}
