// Package initcmd writes a starter pullr config file.
package initcmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/npratt/pullr/internal/config"
)

// ErrChanged is returned when the target file differs and Force is not set.
var ErrChanged = errors.New("config file has changes (use --force to overwrite)")

// Options configures the init command behavior.
type Options struct {
	DryRun bool
	Force  bool
	Global bool
	Config *config.Config // Values to write; nil writes the defaults
	Writer io.Writer      // Output writer (defaults to os.Stdout)
}

// Outcome describes what Run did, or would do on a dry run, to the file.
type Outcome int

const (
	Created Outcome = iota
	Unchanged
	Overwritten
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Unchanged:
		return "unchanged"
	case Overwritten:
		return "overwritten"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result contains the outcome of the init operation.
type Result struct {
	Path    string
	Outcome Outcome
	Diff    string // Unified diff against the existing file, if it differed
}

// Run renders the config file and installs it at the project or global
// location.
func Run(opts Options) (*Result, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	path, err := TargetPath(opts.Global)
	if err != nil {
		return nil, err
	}
	content, err := RenderConfig(cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{Path: path, Outcome: Created}
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if string(existing) == content {
			result.Outcome = Unchanged
		} else {
			result.Diff = UnifiedDiff("existing", "new", string(existing), content)
			result.Outcome = Overwritten
			if !opts.Force {
				result.Outcome = Skipped
			}
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if opts.DryRun {
		showDryRun(w, result, content)
		return result, nil
	}

	switch result.Outcome {
	case Unchanged:
		_, _ = fmt.Fprintf(w, "Already up to date: %s\n", path)
		return result, nil
	case Skipped:
		_, _ = fmt.Fprintf(w, "%s:\n", path)
		_, _ = fmt.Fprintln(w, result.Diff)
		_, _ = fmt.Fprintln(w, "Use --force to overwrite.")
		return result, ErrChanged
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	if result.Outcome == Overwritten {
		_, _ = fmt.Fprintf(w, "Overwrote: %s\n", path)
	} else {
		_, _ = fmt.Fprintf(w, "Created: %s\n", path)
	}
	return result, nil
}

// TargetPath returns where the config file goes: .pullr/config.yaml, or the
// global config directory when global is set.
func TargetPath(global bool) (string, error) {
	if !global {
		return filepath.Join(config.ProjectConfigDir, config.ProjectConfigFile), nil
	}
	dir := config.GlobalConfigHome()
	if dir == "" {
		return "", errors.New("cannot locate the global config directory: set XDG_CONFIG_HOME or HOME")
	}
	return filepath.Join(dir, config.GlobalConfigFile), nil
}

func showDryRun(w io.Writer, result *Result, content string) {
	_, _ = fmt.Fprintln(w, "DRY RUN - No changes will be made")
	_, _ = fmt.Fprintln(w)

	switch result.Outcome {
	case Unchanged:
		_, _ = fmt.Fprintf(w, "Already up to date: %s\n", result.Path)
	case Created:
		_, _ = fmt.Fprintf(w, "Would create: %s\n", result.Path)
		_, _ = fmt.Fprintln(w, "--- BEGIN FILE ---")
		_, _ = fmt.Fprint(w, content)
		_, _ = fmt.Fprintln(w, "--- END FILE ---")
	default:
		_, _ = fmt.Fprintf(w, "Would overwrite (has changes): %s\n", result.Path)
		_, _ = fmt.Fprintln(w, result.Diff)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Run without --dry-run to apply changes.")
}
