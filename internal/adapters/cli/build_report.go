package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

type BuildStep struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

type cliOutputWithColors interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
}

type BuildError struct {
	File    string
	Message string
	Details []string
}

// EmittedFile is one file written to the output directory.
type EmittedFile struct {
	Name string
	Size int
}

type BuildReport struct {
	colors      cliOutputWithColors
	out         io.Writer
	errOut      io.Writer
	steps       []BuildStep
	warnings    []BuildError
	errors      []BuildError
	files       []EmittedFile
	startTime   time.Time
	mode        string
	outputDir   string
	hasFailures bool
}

func NewBuildReport(colors cliOutputWithColors, mode string, outputDir string) *BuildReport {
	return &BuildReport{
		colors:    colors,
		out:       os.Stdout,
		errOut:    os.Stderr,
		steps:     make([]BuildStep, 0),
		warnings:  make([]BuildError, 0),
		errors:    make([]BuildError, 0),
		startTime: time.Now(),
		mode:      mode,
		outputDir: outputDir,
	}
}

// SetWriters redirects the report, mostly for tests.
func (r *BuildReport) SetWriters(out, errOut io.Writer) {
	r.out = out
	r.errOut = errOut
}

func (r *BuildReport) AddFile(name string, size int) {
	r.files = append(r.files, EmittedFile{Name: name, Size: size})
}

func (r *BuildReport) Files() []EmittedFile {
	return r.files
}

func (r *BuildReport) StartStep(name string) *BuildStep {
	step := BuildStep{
		Name:      name,
		StartTime: time.Now(),
	}
	r.steps = append(r.steps, step)
	return &r.steps[len(r.steps)-1]
}

func (r *BuildReport) EndStep(step *BuildStep, success bool, err string) {
	step.EndTime = time.Now()
	step.Success = success
	step.Error = err
	if !success {
		r.hasFailures = true
	}
}

func (r *BuildReport) AddWarning(file string, message string, details []string) {
	r.warnings = append(r.warnings, BuildError{
		File:    file,
		Message: message,
		Details: details,
	})
}

func (r *BuildReport) AddError(file string, message string, details []string) {
	r.errors = append(r.errors, BuildError{
		File:    file,
		Message: message,
		Details: details,
	})
	r.hasFailures = true
}

func (r *BuildReport) Render() {
	duration := time.Since(r.startTime)

	if len(r.errors) == 0 && len(r.warnings) == 0 {
		r.renderMinimal(duration)
	} else {
		r.renderVerbose(duration)
	}
}

func (r *BuildReport) renderMinimal(duration time.Duration) {
	r.renderFiles()

	failed := make([]string, 0)
	for _, step := range r.steps {
		if !step.Success {
			failed = append(failed, "  "+r.colors.Red("✗ ")+step.Name)
		}
	}

	if len(failed) == 0 {
		fmt.Fprintf(r.out, "  "+r.colors.Green("✓ ")+"Compiled %s build in %s\n", r.mode, formatDuration(duration))
	} else {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Failed steps:")
		for _, line := range failed {
			fmt.Fprintln(r.out, line)
		}
	}

	if r.outputDir != "" {
		fmt.Fprintf(r.out, "\n  %s\n", r.colors.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderVerbose(duration time.Duration) {
	for _, step := range r.steps {
		status := r.colors.Green("✓")
		if !step.Success {
			status = r.colors.Red("✗")
		}
		fmt.Fprintf(r.out, "  %s %s\n", status, step.Name)
	}

	if len(r.errors) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.errOut, "  "+r.colors.Red("✗ ")+"Errors (%d):\n", len(r.errors))
		r.renderErrors(r.errors)
	}

	if len(r.warnings) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "  "+r.colors.Yellow("⚠ ")+"Warnings (%d):\n", len(r.warnings))
		r.renderErrors(r.warnings)
	}

	fmt.Fprintln(r.out)
	if len(r.errors) > 0 {
		fmt.Fprintf(r.errOut, "  %s\n", r.colors.Red(fmt.Sprintf("Build failed after %s", formatDuration(duration))))
	} else {
		r.renderFiles()
		fmt.Fprintf(r.out, "  "+r.colors.Green("✓ ")+"Compiled %s build with warnings in %s\n", r.mode, formatDuration(duration))
	}

	if r.outputDir != "" {
		fmt.Fprintf(r.out, "\n  %s\n", r.colors.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderFiles() {
	if len(r.files) == 0 {
		return
	}

	files := append([]EmittedFile(nil), r.files...)
	sort.Slice(files, func(i, j int) bool {
		if files[i].Size != files[j].Size {
			return files[i].Size > files[j].Size
		}
		return files[i].Name < files[j].Name
	})

	for _, f := range files {
		fmt.Fprintf(r.out, "    %10s  %s\n", r.colors.Gray(formatSize(f.Size)), f.Name)
	}
	fmt.Fprintln(r.out)
}

func (r *BuildReport) renderErrors(errors []BuildError) {
	for _, err := range errors {
		fmt.Fprintf(r.out, "  %s %s\n", r.colors.Red("✗"), err.File)
		fmt.Fprintf(r.out, "    %s\n", err.Message)

		for _, detail := range deduplicateStrings(err.Details) {
			fmt.Fprintf(r.out, "      • %s\n", detail)
		}
	}
}

func (r *BuildReport) HasFailures() bool {
	return r.hasFailures
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

func formatSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.2f kB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	}
}

// deduplicateStrings keeps the first occurrence order and counts repeats.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(items))
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if counts[item] > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, counts[item]))
		} else {
			result = append(result, item)
		}
	}
	return result
}
