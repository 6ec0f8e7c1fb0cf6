package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// Workdir is a scratch directory the test has moved into. Config and state
// lookups are pointed at subdirectories of it so nothing on the machine
// running the tests is read or written.
type Workdir struct {
	Root      string
	ConfigDir string // XDG_CONFIG_HOME
	StateDir  string // XDG_STATE_HOME
}

// EnterWorkdir creates a Workdir, changes into it and restores the previous
// directory when the test ends.
func EnterWorkdir(t *testing.T) Workdir {
	t.Helper()
	root := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatalf("chdir %s: %v", root, err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })

	w := Workdir{
		Root:      root,
		ConfigDir: filepath.Join(root, "xdg-config"),
		StateDir:  filepath.Join(root, "xdg-state"),
	}
	t.Setenv("XDG_CONFIG_HOME", w.ConfigDir)
	t.Setenv("XDG_STATE_HOME", w.StateDir)
	return w
}

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ReadFile returns the contents of path, failing the test if it is unreadable.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// FileExists reports whether path exists.
func FileExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}

// AssertCalled fails the test unless mock ran name with exactly args.
func AssertCalled(t *testing.T, mock *MockRunner, name string, args ...string) {
	t.Helper()
	calls := mock.GetCalls()
	for _, call := range calls {
		if call.Name == name && slices.Equal(call.Args, args) {
			return
		}
	}
	t.Errorf("expected call to %s %v not found in %v", name, args, calls)
}
