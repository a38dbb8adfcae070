package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/3-lines-studio/starter/internal/build"
	"github.com/3-lines-studio/starter/internal/core"
	"github.com/3-lines-studio/starter/internal/live"
	"github.com/3-lines-studio/starter/internal/mount"
	"github.com/sirupsen/logrus"
)

// DevService keeps an in-memory build of the project current while sources
// change. The last good build keeps being served while a rebuild is broken.
type DevService struct {
	bundler  Bundler
	fs       FileSystem
	out      OutputStore
	notifier ReloadNotifier
	log      *logrus.Entry

	page   atomic.Pointer[Page]
	builds atomic.Int64

	mu      sync.Mutex
	lastErr error
}

func NewDevService(bundler Bundler, fs FileSystem, out OutputStore, notifier ReloadNotifier) *DevService {
	return &DevService{
		bundler:  bundler,
		fs:       fs,
		out:      out,
		notifier: notifier,
		log:      logrus.WithField("component", "dev"),
	}
}

// Page returns the page of the newest good build. Before the first good build
// it returns ErrNotReady, wrapping the latest build error if there is one.
func (s *DevService) Page() (*Page, error) {
	page := s.page.Load()
	if page != nil {
		return page, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotReady, s.lastErr)
	}
	return nil, ErrNotReady
}

func (s *DevService) setLastErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Builds counts the builds published so far.
func (s *DevService) Builds() int64 {
	return s.builds.Load()
}

// Check fails when the template cannot be read or lacks the mount container.
func (s *DevService) Check(cfg core.Config) error {
	template, err := s.fs.ReadFile(cfg.TemplatePath())
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}
	_, err = mount.Prepare(template, core.ContainerID)
	return err
}

// Start checks the template and then watches the project until ctx is done.
func (s *DevService) Start(ctx context.Context, cfg core.Config) error {
	if err := s.Check(cfg); err != nil {
		return err
	}

	return s.bundler.Watch(ctx, cfg, func(result *build.Result, err error) {
		s.handle(cfg, result, err)
	})
}

func (s *DevService) handle(cfg core.Config, result *build.Result, err error) {
	if err != nil {
		s.fail(cfg, err)
		return
	}

	for _, w := range result.Warnings {
		s.log.WithField("file", w.File).Warn(w.Text)
	}
	if cfg.DevServer.Overlay.Warnings && len(result.Warnings) > 0 {
		s.notifier.Fail(result.Warnings)
		return
	}

	if err := s.publish(cfg, result); err != nil {
		s.fail(cfg, err)
		return
	}

	s.log.WithFields(logrus.Fields{
		"build": result.BuildID,
		"files": len(result.Files),
	}).Info("compiled successfully")
	s.notifier.Reload(result.BuildID)
}

func (s *DevService) fail(cfg core.Config, err error) {
	if !core.ShouldOverlay(err) {
		s.log.WithError(err).Debug("build cancelled")
		return
	}

	s.log.WithError(err).Error("failed to compile")
	s.setLastErr(err)
	if !cfg.DevServer.Overlay.Errors {
		return
	}

	var buildErr *core.BuildError
	if errors.As(err, &buildErr) {
		s.notifier.Fail(buildErr.Messages)
		return
	}
	s.notifier.Fail([]core.BuildMessage{{Text: err.Error(), File: cfg.Template}})
}

func (s *DevService) publish(cfg core.Config, result *build.Result) error {
	template, err := s.fs.ReadFile(cfg.TemplatePath())
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	manifest := core.NewManifest(cfg.Mode, result.BuildID, result.Names(), cfg.Defines)
	document, err := core.InjectAssets(template, manifest.Scripts, manifest.Styles)
	if err != nil {
		return err
	}
	if cfg.DevServer.Hot {
		document = live.InjectReloadScript(document)
	}

	page, err := PreparePage(document, manifest)
	if err != nil {
		return err
	}

	data, err := manifest.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	files := make(map[string][]byte, len(result.Files)+2)
	for _, f := range result.Files {
		files[f.Name] = f.Contents
	}
	files[IndexFile] = document
	files[core.ManifestFile] = data

	s.out.Replace(files)
	s.page.Store(page)
	s.setLastErr(nil)
	s.builds.Add(1)
	return nil
}
