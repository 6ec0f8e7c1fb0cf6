package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/npratt/pullr/internal/config"
)

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose    = "verbose"
	FlagConfig     = "config"
	FlagLogFile    = "log-file"
	FlagEventsFile = "events-file"
	FlagNoPull     = "no-pull"
	FlagThreshold  = "threshold"
	FlagMinHold    = "min-hold"

	// View command flags
	FlagOnRefresh = "on-refresh"
	FlagTitle     = "title"

	// Watch command flags
	FlagDir = "dir"

	// Init command flags
	FlagDryRun = "dry-run"
	FlagForce  = "force"
	FlagGlobal = "global"
)

// addGlobalFlags registers the flags shared by every command.
func addGlobalFlags(fs *pflag.FlagSet) {
	fs.Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	fs.String(FlagConfig, "", "Config file path (default: .pullr/config.yaml)")
	fs.String(FlagLogFile, "", "Log file path (debug log is written next to it)")
	fs.String(FlagEventsFile, "", "Pull event log path (JSON lines)")
	fs.Bool(FlagNoPull, false, "Disable pull to refresh")
	fs.Float64(FlagThreshold, 0, "Pull distance that commits a refresh (raises max_pull if needed)")
	fs.Duration(FlagMinHold, 0, "How long the indicator stays up after a default reload")
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(fs *pflag.FlagSet, v *viper.Viper, cfg *config.Config) {
	if fs.Changed(FlagLogFile) {
		cfg.Paths.Log = v.GetString(FlagLogFile)
	}
	if fs.Changed(FlagEventsFile) {
		cfg.Paths.Events = v.GetString(FlagEventsFile)
	}
	if fs.Changed(FlagNoPull) && v.GetBool(FlagNoPull) {
		cfg.Pull.Enabled = false
	}
	if fs.Changed(FlagThreshold) {
		cfg.Pull.Threshold = v.GetFloat64(FlagThreshold)
		if cfg.Pull.MaxPull < cfg.Pull.Threshold {
			cfg.Pull.MaxPull = cfg.Pull.Threshold
		}
	}
	if fs.Changed(FlagMinHold) {
		cfg.Refresh.MinHold = v.GetDuration(FlagMinHold)
	}
}
