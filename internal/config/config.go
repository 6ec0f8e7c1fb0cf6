// Package config provides configuration types and defaults for pullr.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/npratt/pullr/internal/pull"
)

// Config holds all configuration for pullr.
type Config struct {
	Pull        PullConfig        `yaml:"pull" mapstructure:"pull"`
	Animation   AnimationConfig   `yaml:"animation" mapstructure:"animation"`
	Refresh     RefreshConfig     `yaml:"refresh" mapstructure:"refresh"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
}

// PullConfig holds the gesture parameters.
type PullConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Threshold   float64 `yaml:"threshold" mapstructure:"threshold"`
	MaxPull     float64 `yaml:"max_pull" mapstructure:"max_pull"`           // Visual cap on how far content is pushed down
	Damping     float64 `yaml:"damping" mapstructure:"damping"`             // Fraction of downward travel applied to the offset
	UnitsPerRow float64 `yaml:"units_per_row" mapstructure:"units_per_row"` // Pointer travel of one terminal row, before damping
}

// AnimationConfig holds the snap/reset spring settings.
type AnimationConfig struct {
	FPS       int     `yaml:"fps" mapstructure:"fps"`
	Frequency float64 `yaml:"frequency" mapstructure:"frequency"`
	Damping   float64 `yaml:"damping" mapstructure:"damping"` // Damping ratio; 1 is critically damped
}

// RefreshConfig holds refresh settings.
type RefreshConfig struct {
	MinHold time.Duration `yaml:"min_hold" mapstructure:"min_hold"` // Hold after a default reload
}

// PathsConfig holds file paths for logs.
type PathsConfig struct {
	Log    string `yaml:"log" mapstructure:"log"`
	Events string `yaml:"events" mapstructure:"events"`
}

// LogRotationConfig holds settings for log file rotation.
// Used for the TUI debug log (lumberjack-based automatic rotation).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// Default returns a Config with the stock settings.
func Default() *Config {
	gesture := pull.DefaultConfig()
	stateDir := StateDir()

	return &Config{
		Pull: PullConfig{
			Enabled:     gesture.Enabled,
			Threshold:   gesture.Threshold,
			MaxPull:     gesture.MaxPull,
			Damping:     gesture.Damping,
			UnitsPerRow: 100,
		},
		Animation: AnimationConfig{
			FPS:       gesture.FPS,
			Frequency: gesture.SpringFrequency,
			Damping:   gesture.SpringDamping,
		},
		Refresh: RefreshConfig{
			MinHold: gesture.MinHold,
		},
		Paths: PathsConfig{
			Log:    filepath.Join(stateDir, "pullr.log"),
			Events: filepath.Join(stateDir, "events.jsonl"),
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   false,
		},
	}
}

// StateDir returns the directory for logs: $XDG_STATE_HOME/pullr, falling
// back to ~/.local/state/pullr, or .pullr when no home directory is known.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, GlobalConfigDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ProjectConfigDir
	}
	return filepath.Join(home, ".local", "state", GlobalConfigDir)
}

// Validate checks that the settings describe a usable gesture.
func (c *Config) Validate() error {
	var errs []error

	if c.Pull.Threshold <= 0 {
		errs = append(errs, fmt.Errorf("pull.threshold must be positive, got %v", c.Pull.Threshold))
	}
	if c.Pull.MaxPull < c.Pull.Threshold {
		errs = append(errs, fmt.Errorf("pull.max_pull (%v) must not be below pull.threshold (%v)", c.Pull.MaxPull, c.Pull.Threshold))
	}
	if c.Pull.Damping <= 0 || c.Pull.Damping > 1 {
		errs = append(errs, fmt.Errorf("pull.damping must be in (0, 1], got %v", c.Pull.Damping))
	}
	if c.Pull.UnitsPerRow <= 0 {
		errs = append(errs, fmt.Errorf("pull.units_per_row must be positive, got %v", c.Pull.UnitsPerRow))
	}
	if c.Animation.FPS <= 0 {
		errs = append(errs, fmt.Errorf("animation.fps must be positive, got %d", c.Animation.FPS))
	}
	if c.Animation.Frequency <= 0 {
		errs = append(errs, fmt.Errorf("animation.frequency must be positive, got %v", c.Animation.Frequency))
	}
	if c.Animation.Damping < 0 {
		errs = append(errs, fmt.Errorf("animation.damping must not be negative, got %v", c.Animation.Damping))
	}
	if c.Refresh.MinHold < 0 {
		errs = append(errs, fmt.Errorf("refresh.min_hold must not be negative, got %v", c.Refresh.MinHold))
	}

	return errors.Join(errs...)
}

// Gesture converts the settings to controller parameters.
func (c *Config) Gesture() pull.Config {
	return pull.Config{
		Enabled:         c.Pull.Enabled,
		Threshold:       c.Pull.Threshold,
		MaxPull:         c.Pull.MaxPull,
		Damping:         c.Pull.Damping,
		FPS:             c.Animation.FPS,
		SpringFrequency: c.Animation.Frequency,
		SpringDamping:   c.Animation.Damping,
		MinHold:         c.Refresh.MinHold,
	}
}
