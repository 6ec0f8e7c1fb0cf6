// Package content loads the text shown under the pull gesture and keeps the
// current copy in a Document that a refresh can reload.
package content

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/npratt/pullr/internal/exec"
)

// Source produces the text of the view.
type Source interface {
	Load(ctx context.Context) (string, error)
	Name() string
}

// FileSource reads a file.
type FileSource struct {
	Path string
}

// NewFileSource returns a Source for the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load reads the whole file.
func (s *FileSource) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.Path, err)
	}
	return string(data), nil
}

// Name returns the file path.
func (s *FileSource) Name() string {
	return s.Path
}

// CommandSource runs a command and uses its stdout.
type CommandSource struct {
	runner  exec.CommandRunner
	command string
	args    []string
}

// NewCommandSource returns a Source that runs command with args.
func NewCommandSource(runner exec.CommandRunner, command string, args ...string) *CommandSource {
	return &CommandSource{runner: runner, command: command, args: args}
}

// Load runs the command.
func (s *CommandSource) Load(ctx context.Context) (string, error) {
	out, err := s.runner.Run(ctx, s.command, s.args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Name returns the command line.
func (s *CommandSource) Name() string {
	if len(s.args) == 0 {
		return s.command
	}
	return s.command + " " + strings.Join(s.args, " ")
}
