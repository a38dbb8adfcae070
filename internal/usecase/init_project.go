package usecase

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"

	"github.com/3-lines-studio/starter/internal/templates"
)

var ErrDirectoryNotEmpty = errors.New("directory is not empty")

type InitInput struct {
	ProjectDir string
	Template   string
}

type InitOutput struct {
	Files []string
	Error error
}

type InitService struct {
	fs  FileSystem
	cli CLIOutput
}

func NewInitService(fs FileSystem, cli CLIOutput) *InitService {
	return &InitService{
		fs:  fs,
		cli: cli,
	}
}

// InitProject scaffolds a project from an embedded template into an empty or
// missing directory.
func (s *InitService) InitProject(input InitInput) InitOutput {
	s.cli.PrintHeader("Starter Init")

	if entries, err := s.fs.ReadDir(input.ProjectDir); err == nil && len(entries) > 0 {
		return InitOutput{Error: fmt.Errorf("%w: %s", ErrDirectoryNotEmpty, input.ProjectDir)}
	}

	templateFS, err := templates.GetTemplate(input.Template)
	if err != nil {
		return InitOutput{Error: fmt.Errorf("template %q: %w", input.Template, err)}
	}

	data := templates.TemplateData{Name: templates.DeriveName(input.ProjectDir)}
	var created []string

	err = iofs.WalkDir(templateFS, ".", func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := iofs.ReadFile(templateFS, path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		name, isTemplate := templates.ProcessFilename(path, data)
		target := filepath.Join(input.ProjectDir, filepath.FromSlash(name))
		if err := s.fs.WriteFile(target, templates.ProcessContent(content, isTemplate, data), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", target, err)
		}

		if isTemplate {
			s.cli.PrintFile(name + " (generated)")
		} else {
			s.cli.PrintFile(name)
		}
		created = append(created, name)
		return nil
	})
	if err != nil {
		return InitOutput{Error: err}
	}

	s.cli.PrintSuccess("Created %d files in %s", len(created), input.ProjectDir)
	s.cli.PrintStep("Next steps:")
	s.cli.PrintStep("  cd %s", input.ProjectDir)
	s.cli.PrintStep("  starter serve --open")

	return InitOutput{Files: created}
}
