// Package exec runs external commands for refresh operations and command
// backed content.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner abstracts command execution for dependency injection.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner executes real commands using os/exec.
type ExecRunner struct {
	dir string
}

// NewExecRunner creates a runner that executes in the current directory.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// NewExecRunnerIn creates a runner that executes in dir.
func NewExecRunnerIn(dir string) *ExecRunner {
	return &ExecRunner{dir: dir}
}

// Run executes a command and returns its stdout. A non-zero exit includes
// the last line of stderr in the error.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := execCommand(ctx, r.dir, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return out, describeError(name, err)
	}
	return out, nil
}

// ShellRunner runs a single shell command line through a CommandRunner.
type ShellRunner struct {
	runner CommandRunner
	shell  string
}

// NewShellRunner wraps runner so command lines run via `sh -c`.
func NewShellRunner(runner CommandRunner) *ShellRunner {
	return &ShellRunner{runner: runner, shell: "sh"}
}

// Run executes line with the shell and returns its stdout.
func (s *ShellRunner) Run(ctx context.Context, line string) ([]byte, error) {
	if strings.TrimSpace(line) == "" {
		return nil, errors.New("empty command line")
	}
	return s.runner.Run(ctx, s.shell, "-c", line)
}

// describeError adds the command name and stderr tail to exec errors.
func describeError(name string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if tail := lastLine(exitErr.Stderr); tail != "" {
			return fmt.Errorf("%s: %w: %s", name, err, tail)
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}

func lastLine(b []byte) string {
	b = bytes.TrimSpace(b)
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}
	return string(b)
}

// execCommand is a variable to allow testing.
var execCommand = execCommandImpl

func execCommandImpl(ctx context.Context, dir, name string, args ...string) execCmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return realExecCmd{cmd: cmd}
}

// execCmd abstracts exec.Cmd for testing.
type execCmd interface {
	Output() ([]byte, error)
}

type realExecCmd struct {
	cmd *exec.Cmd
}

func (c realExecCmd) Output() ([]byte, error) {
	return c.cmd.Output()
}
