package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/npratt/pullr/internal/testutil"
)

// chdirTemp moves into a fresh directory so no project or global config is
// picked up, and returns it.
func chdirTemp(t *testing.T) string {
	t.Helper()
	return testutil.EnterWorkdir(t).Root
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirTemp(t)

	v := viper.New()
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Pull.Threshold != 80 {
		t.Errorf("Pull.Threshold = %v, want 80", cfg.Pull.Threshold)
	}
	if cfg.Refresh.MinHold != time.Second {
		t.Errorf("Refresh.MinHold = %v, want %v", cfg.Refresh.MinHold, time.Second)
	}
	if !cfg.Pull.Enabled {
		t.Error("Pull.Enabled = false, want true")
	}
}

func TestLoadConfig_ProjectFile(t *testing.T) {
	chdirTemp(t)

	configContent := `
pull:
  threshold: 60
  damping: 0.25
animation:
  fps: 30
refresh:
  min_hold: 500ms
`
	testutil.WriteFile(t, ProjectConfigDir, ProjectConfigFile, configContent)

	v := viper.New()
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Pull.Threshold != 60 {
		t.Errorf("Pull.Threshold = %v, want 60", cfg.Pull.Threshold)
	}
	if cfg.Pull.Damping != 0.25 {
		t.Errorf("Pull.Damping = %v, want 0.25", cfg.Pull.Damping)
	}
	if cfg.Animation.FPS != 30 {
		t.Errorf("Animation.FPS = %d, want 30", cfg.Animation.FPS)
	}
	if cfg.Refresh.MinHold != 500*time.Millisecond {
		t.Errorf("Refresh.MinHold = %v, want 500ms", cfg.Refresh.MinHold)
	}
	// Untouched values keep their defaults.
	if cfg.Pull.MaxPull != 150 {
		t.Errorf("Pull.MaxPull = %v, want 150 (default)", cfg.Pull.MaxPull)
	}
}

func TestLoadConfig_GlobalThenProject(t *testing.T) {
	tmpDir := chdirTemp(t)

	testutil.WriteFile(t, filepath.Join(tmpDir, "xdg-config", GlobalConfigDir), GlobalConfigFile,
		"pull:\n  threshold: 90\n  max_pull: 200\n")
	testutil.WriteFile(t, ProjectConfigDir, ProjectConfigFile, "pull:\n  threshold: 70\n")

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Pull.Threshold != 70 {
		t.Errorf("Pull.Threshold = %v, want 70 (project wins)", cfg.Pull.Threshold)
	}
	if cfg.Pull.MaxPull != 200 {
		t.Errorf("Pull.MaxPull = %v, want 200 (from global)", cfg.Pull.MaxPull)
	}
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	tmpDir := chdirTemp(t)

	configContent := `
pull:
  enabled: false
paths:
  events: /var/tmp/pullr-events.jsonl
`
	configPath := filepath.Join(tmpDir, "custom-config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	v := viper.New()
	v.Set("config", configPath)

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Pull.Enabled {
		t.Error("Pull.Enabled = true, want false")
	}
	if cfg.Paths.Events != "/var/tmp/pullr-events.jsonl" {
		t.Errorf("Paths.Events = %q", cfg.Paths.Events)
	}
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	chdirTemp(t)

	v := viper.New()
	v.Set("config", "/nonexistent/path/config.yaml")

	_, err := LoadConfig(v)
	if err == nil {
		t.Error("LoadConfig should fail for missing explicit config")
	}
}

func TestLoadConfig_FlagOverride(t *testing.T) {
	chdirTemp(t)

	if err := os.MkdirAll(ProjectConfigDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	configPath := filepath.Join(ProjectConfigDir, ProjectConfigFile)
	if err := os.WriteFile(configPath, []byte("pull:\n  threshold: 60\n"), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("PULLR")
	v.AutomaticEnv()

	// Simulate a bound flag by setting directly in viper
	v.Set("pull.threshold", 100)

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Pull.Threshold != 100 {
		t.Errorf("Pull.Threshold = %v, want 100", cfg.Pull.Threshold)
	}
}

func TestLoadConfig_DurationParsing(t *testing.T) {
	tmpDir := chdirTemp(t)

	tests := []struct {
		name    string
		yaml    string
		wantDur time.Duration
	}{
		{"milliseconds", "refresh:\n  min_hold: 250ms", 250 * time.Millisecond},
		{"seconds", "refresh:\n  min_hold: 2s", 2 * time.Second},
		{"combined", "refresh:\n  min_hold: 1m30s", 90 * time.Second},
		{"zero", "refresh:\n  min_hold: 0s", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, tt.name+".yaml")
			if err := os.WriteFile(configPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("write config failed: %v", err)
			}

			v := viper.New()
			v.Set("config", configPath)

			cfg, err := LoadConfig(v)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if cfg.Refresh.MinHold != tt.wantDur {
				t.Errorf("got %v, want %v", cfg.Refresh.MinHold, tt.wantDur)
			}
		})
	}
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	tmpDir := chdirTemp(t)

	configPath := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(configPath, []byte("pull:\n  threshold: 200\n"), 0644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.Set("config", configPath)

	_, err := LoadConfig(v)
	if err == nil || !strings.Contains(err.Error(), "pull.max_pull") {
		t.Errorf("LoadConfig error = %v, want max_pull validation failure", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tmpDir := chdirTemp(t)

	configPath := filepath.Join(tmpDir, "broken.yaml")
	if err := os.WriteFile(configPath, []byte("pull: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.Set("config", configPath)

	if _, err := LoadConfig(v); err == nil {
		t.Error("LoadConfig should fail for malformed YAML")
	}
}

func TestGlobalConfigPath(t *testing.T) {
	chdirTemp(t)

	if path := globalConfigPath(); path != "" {
		t.Errorf("globalConfigPath() = %q, want empty when no file exists", path)
	}
}

func TestGlobalConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := GlobalConfigHome(); got != filepath.Join("/tmp/xdg", "pullr") {
		t.Errorf("GlobalConfigHome() = %q", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/dev")
	if got := GlobalConfigHome(); got != filepath.Join("/home/dev", ".config", "pullr") {
		t.Errorf("GlobalConfigHome() = %q", got)
	}
}

func TestProjectConfigPath(t *testing.T) {
	chdirTemp(t)

	if path := projectConfigPath(); path != "" {
		t.Errorf("projectConfigPath() = %q, want empty", path)
	}

	testutil.WriteFile(t, ProjectConfigDir, ProjectConfigFile, "{}")
	if path := projectConfigPath(); path == "" {
		t.Error("projectConfigPath() should find .pullr/config.yaml")
	}
}

func TestLoadConfig_RejectsStillSpring(t *testing.T) {
	chdirTemp(t)
	testutil.WriteFile(t, ProjectConfigDir, ProjectConfigFile, "animation:\n  frequency: 0\n")

	_, err := LoadConfig(viper.New())
	if err == nil || !strings.Contains(err.Error(), "animation.frequency") {
		t.Errorf("LoadConfig() error = %v, want animation.frequency rejection", err)
	}
}
