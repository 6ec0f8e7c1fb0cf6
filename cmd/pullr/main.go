package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/npratt/pullr/internal/config"
	"github.com/npratt/pullr/internal/content"
	"github.com/npratt/pullr/internal/events"
	"github.com/npratt/pullr/internal/exec"
	initcmd "github.com/npratt/pullr/internal/init"
	"github.com/npratt/pullr/internal/pull"
	"github.com/npratt/pullr/internal/shutdown"
	"github.com/npratt/pullr/internal/tui"
)

var version = "dev"

// shutdownTimeout bounds how long a signal waits for the TUI to exit.
const shutdownTimeout = 5 * time.Second

// app carries what every command needs.
type app struct {
	v        *viper.Viper
	logLevel *slog.LevelVar
	logger   *slog.Logger
}

func main() {
	logLevel := &slog.LevelVar{}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	v := viper.GetViper()
	v.SetEnvPrefix("PULLR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	a := &app{v: v, logLevel: logLevel, logger: logger}
	if err := a.rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pullr",
		Short: "Pull to refresh for terminal views",
		Long: `pullr shows a file or the output of a command in the terminal and
refreshes it when you drag the view down with the mouse past the threshold
and let go (or press r).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.v.GetBool(FlagVerbose) {
				a.logLevel.Set(slog.LevelDebug)
			}
		},
	}

	// Persistent flags available to all commands
	addGlobalFlags(rootCmd.PersistentFlags())

	// Bind all flags to viper
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = a.v.BindPFlag(f.Name, f)
	})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pullr %s\n", version)
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Show a file and reload it on pull",
		Long: `Show FILE. A committed pull reloads the file and keeps the indicator
up for refresh.min_hold. With --on-refresh the command runs first and the file
is reloaded once it succeeds, without the hold.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			doc := content.NewDocument(content.NewFileSource(args[0]))

			var refresher pull.Refresher
			if line := a.v.GetString(FlagOnRefresh); line != "" {
				refresher = shellThenReload(exec.NewShellRunner(exec.NewExecRunner()), line, doc)
			}

			return a.run(cmd.Context(), cmd.OutOrStdout(), cfg, doc, refresher, a.v.GetString(FlagTitle))
		},
	}
	viewCmd.Flags().String(FlagOnRefresh, "", "Shell command to run before reloading the file")
	viewCmd.Flags().String(FlagTitle, "", "Header title (default: the file path)")
	viewCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = a.v.BindPFlag(f.Name, f)
	})

	watchCmd := &cobra.Command{
		Use:   "watch -- COMMAND [ARGS...]",
		Short: "Show a command's output and rerun it on pull",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			runner := exec.NewExecRunner()
			if dir := a.v.GetString(FlagDir); dir != "" {
				runner = exec.NewExecRunnerIn(dir)
			}
			doc := content.NewDocument(content.NewCommandSource(runner, args[0], args[1:]...))
			refresher := pull.RefreshFunc(doc.Reload)

			return a.run(cmd.Context(), cmd.OutOrStdout(), cfg, doc, refresher, "")
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write .pullr/config.yaml (or the global config with --global) holding
the default settings, with any gesture flags given on the command line applied.
An existing file that differs is shown as a diff and left alone unless --force
is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			applyFlagOverrides(cmd.Flags(), a.v, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}

			result, err := initcmd.Run(initcmd.Options{
				DryRun: a.v.GetBool(FlagDryRun),
				Force:  a.v.GetBool(FlagForce),
				Global: a.v.GetBool(FlagGlobal),
				Config: cfg,
				Writer: cmd.OutOrStdout(),
			})
			if result != nil {
				a.logger.Debug("init finished", "path", result.Path, "outcome", result.Outcome.String())
			}
			return err
		},
	}
	initCmd.Flags().Bool(FlagDryRun, false, "Show what would be written without writing")
	initCmd.Flags().Bool(FlagForce, false, "Overwrite an existing config file that differs")
	initCmd.Flags().Bool(FlagGlobal, false, "Write the global config instead of the project one")
	initCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = a.v.BindPFlag(f.Name, f)
	})

	watchCmd.Flags().String(FlagDir, "", "Directory to run the command in (default: current directory)")
	watchCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = a.v.BindPFlag(f.Name, f)
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(watchCmd)

	return rootCmd
}

// loadConfig layers files, environment and flags into a validated config.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(a.v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	applyFlagOverrides(cmd.Flags(), a.v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	a.logger.Debug("config loaded",
		"pullable", cfg.Pull.Enabled,
		"threshold", cfg.Pull.Threshold,
		"max_pull", cfg.Pull.MaxPull,
		"min_hold", cfg.Refresh.MinHold,
		"log", cfg.Paths.Log,
	)
	return cfg, nil
}

// run loads doc, wires logging and the event log, and shows the TUI until it
// exits or a signal arrives.
func (a *app) run(ctx context.Context, out io.Writer, cfg *config.Config, doc *content.Document, refresher pull.Refresher, title string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := doc.Reload(ctx); err != nil {
		return fmt.Errorf("load %s: %w", doc.Name(), err)
	}

	// Logs go to a file while the TUI owns the terminal.
	logDir := filepath.Dir(cfg.Paths.Log)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logResult, err := SetupTUILogger(logDir, a.logLevel, cfg.LogRotation)
	if err != nil {
		return err
	}
	defer func() { _ = logResult.Close() }()
	logger := logResult.Logger
	prevLogger := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(prevLogger)

	router := events.NewRouter(events.DefaultBufferSize)
	logSink := events.NewLogSink(cfg.Paths.Events)

	sinkCtx, sinkCancel := context.WithCancel(ctx)
	defer sinkCancel()

	if err := logSink.Start(sinkCtx, router.Subscribe()); err != nil {
		router.Close()
		return fmt.Errorf("start event log: %w", err)
	}
	eventsLogged := make(chan struct{})
	go logEvents(logger, router.Subscribe(), eventsLogged)

	logger.Info("pullr starting",
		"version", version,
		"source", doc.Name(),
		"events_file", cfg.Paths.Events,
		"pullable", cfg.Pull.Enabled,
		"custom_refresh", refresher != nil,
	)

	opts := []tui.Option{
		tui.WithLogger(logger),
		tui.WithEmitter(router),
		tui.WithUnitsPerRow(cfg.Pull.UnitsPerRow),
		tui.WithOutput(out),
	}
	if refresher != nil {
		opts = append(opts, tui.WithRefresher(refresher))
	}
	if title != "" {
		opts = append(opts, tui.WithTitle(title))
	}
	view := tui.New(doc, cfg.Gesture(), opts...)

	err = shutdown.RunWithGracefulShutdown(ctx, logger, shutdownTimeout,
		view.Run,
		func(ctx context.Context) error {
			router.Close()
			select {
			case <-eventsLogged:
			case <-ctx.Done():
			}
			if dropped := router.Dropped(); dropped > 0 {
				logger.Warn("pull events dropped", "count", dropped)
			}
			return logSink.Stop()
		},
	)

	logger.Info("pullr exiting", "loads", doc.Loads(), "error", err)
	return err
}
