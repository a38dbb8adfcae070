package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"

	"github.com/3-lines-studio/starter/internal/adapters/cli"
	"github.com/3-lines-studio/starter/internal/build"
	"github.com/3-lines-studio/starter/internal/core"
	"github.com/3-lines-studio/starter/internal/mount"
)

var ErrBuildFailed = errors.New("build failed")

type BuildInput struct {
	Config core.Config
}

type BuildOutput struct {
	Manifest *core.Manifest
	Files    []cli.EmittedFile
	Error    error
}

type BuildService struct {
	bundler Bundler
	fs      FileSystem
	cli     CLIOutput
	root    RootFactory
}

func NewBuildService(bundler Bundler, fs FileSystem, cli CLIOutput, root RootFactory) *BuildService {
	return &BuildService{
		bundler: bundler,
		fs:      fs,
		cli:     cli,
		root:    root,
	}
}

// BuildProject bundles the project and writes a servable output directory:
// hashed assets, copied public files, a prerendered index.html and the asset
// manifest.
func (s *BuildService) BuildProject(ctx context.Context, input BuildInput) BuildOutput {
	cfg := input.Config
	outdir := cfg.OutputPath()

	if cfg.Mode == core.ModeProduction {
		s.cli.PrintHeader("Creating an optimized production build...")
	} else {
		s.cli.PrintHeader("Creating a development build...")
	}

	report := s.cli.Report(cfg.Mode.String(), outdir)
	fail := func(step *cli.BuildStep, err error) BuildOutput {
		report.EndStep(step, false, err.Error())
		report.Render()
		return BuildOutput{Error: err}
	}

	step := report.StartStep("Reading " + cfg.Template)
	template, err := s.fs.ReadFile(cfg.TemplatePath())
	if err != nil {
		report.AddError(cfg.Template, "Template could not be read", []string{err.Error()})
		return fail(step, fmt.Errorf("failed to read template: %w", err))
	}
	if _, err := mount.Prepare(template, core.ContainerID); err != nil {
		report.AddError(cfg.Template, "Mount container is missing", []string{err.Error()})
		return fail(step, err)
	}
	report.EndStep(step, true, "")

	if cfg.Output.Clean {
		step = report.StartStep("Cleaning " + cfg.Output.Dir)
		if err := cfg.CheckOutput(); err != nil {
			report.AddError(cfg.Output.Dir, "Output directory cannot be cleaned", []string{err.Error()})
			return fail(step, err)
		}
		if err := s.fs.RemoveAll(outdir); err != nil {
			return fail(step, fmt.Errorf("failed to clean output directory: %w", err))
		}
		report.EndStep(step, true, "")
	}

	step = report.StartStep("Bundling " + cfg.Entry)
	result, err := s.bundler.Bundle(ctx, cfg)
	if err != nil {
		var buildErr *core.BuildError
		if errors.As(err, &buildErr) {
			for _, m := range buildErr.Messages {
				report.AddError(m.File, m.Text, location(m))
			}
		}
		return fail(step, fmt.Errorf("%w: %w", ErrBuildFailed, err))
	}
	for _, w := range result.Warnings {
		report.AddWarning(w.File, w.Text, location(w))
	}
	report.EndStep(step, true, "")

	step = report.StartStep("Writing assets")
	for _, f := range result.Files {
		if err := s.write(outdir, f.Name, f.Contents, report); err != nil {
			return fail(step, err)
		}
	}
	report.EndStep(step, true, "")

	step = report.StartStep("Copying " + cfg.DevServer.Static)
	if err := s.copyPublic(cfg, outdir, report); err != nil {
		report.AddWarning(cfg.DevServer.Static, "Failed to copy public files", []string{err.Error()})
	}
	report.EndStep(step, true, "")

	manifest := core.NewManifest(cfg.Mode, result.BuildID, result.Names(), cfg.Defines)

	step = report.StartStep("Rendering " + IndexFile)
	document, err := s.renderIndex(cfg, template, manifest)
	if err != nil {
		return fail(step, err)
	}
	if err := s.write(outdir, IndexFile, document, report); err != nil {
		return fail(step, err)
	}
	data, err := manifest.Marshal()
	if err != nil {
		return fail(step, fmt.Errorf("failed to encode manifest: %w", err))
	}
	if err := s.write(outdir, core.ManifestFile, data, report); err != nil {
		return fail(step, err)
	}
	report.EndStep(step, true, "")

	report.Render()

	return BuildOutput{
		Manifest: manifest,
		Files:    report.Files(),
	}
}

// renderIndex injects the assets into the template and prerenders the root
// component into the mount container.
func (s *BuildService) renderIndex(cfg core.Config, template []byte, manifest *core.Manifest) ([]byte, error) {
	document, err := core.InjectAssets(template, manifest.Scripts, manifest.Styles)
	if err != nil {
		return nil, err
	}

	page, err := PreparePage(document, manifest)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := page.Shell.Render(&buf, s.root(manifest.Port()), ""); err != nil {
		return nil, fmt.Errorf("failed to prerender %s: %w", IndexFile, err)
	}

	if !cfg.MinifyHTML {
		return buf.Bytes(), nil
	}
	return core.MinifyHTML(buf.Bytes())
}

func (s *BuildService) write(outdir, name string, data []byte, report *cli.BuildReport) error {
	target := filepath.Join(outdir, filepath.FromSlash(name))
	if err := s.fs.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	report.AddFile(filepath.ToSlash(name), len(data))
	return nil
}

// copyPublic copies every file of the static directory except the template.
func (s *BuildService) copyPublic(cfg core.Config, outdir string, report *cli.BuildReport) error {
	publicDir := cfg.StaticPath()
	template := filepath.Clean(cfg.TemplatePath())

	entries, err := s.fs.ReadDir(publicDir)
	if err != nil || len(entries) == 0 {
		return nil
	}

	return s.fs.WalkDir(publicDir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Clean(path) == template {
			return nil
		}

		rel, err := filepath.Rel(publicDir, path)
		if err != nil {
			return err
		}
		data, err := s.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		return s.write(outdir, filepath.ToSlash(rel), data, report)
	})
}

func location(m core.BuildMessage) []string {
	if m.File == "" {
		return nil
	}
	return []string{fmt.Sprintf("%s:%d:%d", m.File, m.Line, m.Column)}
}

var _ Bundler = (*build.Engine)(nil)
