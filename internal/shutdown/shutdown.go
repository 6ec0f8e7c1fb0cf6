// Package shutdown runs a blocking component until it returns or the process
// is asked to stop.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// notify and stop are variables to allow testing.
var (
	notify = signal.Notify
	stop   = signal.Stop
)

// RunWithGracefulShutdown starts a component and handles graceful shutdown.
// The runner function should block while the component is running. On
// SIGINT/SIGTERM the runner's context is canceled, cleanup is called, and the
// runner gets up to timeout to return. cleanup also runs after a normal exit.
func RunWithGracefulShutdown(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	runner func(ctx context.Context) error,
	cleanup func(ctx context.Context) error,
) error {
	// Create cancellable context for the runner
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	// Channel to receive runner completion
	runDone := make(chan error, 1)
	go func() {
		runDone <- runner(runCtx)
	}()

	sigChan := make(chan os.Signal, 1)
	notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer stop(sigChan)

	shutdownCtx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), timeout)
	}

	select {
	case sig := <-sigChan:
		logger.Info("received signal, initiating shutdown", "signal", sig)
		runCancel()

		sctx, cancel := shutdownCtx()
		defer cancel()

		var runErr error
		select {
		case err := <-runDone:
			if err != nil && !errors.Is(err, context.Canceled) {
				runErr = err
			}
		case <-sctx.Done():
			logger.Warn("shutdown timeout exceeded")
		}

		if err := cleanup(sctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}

		logger.Info("shutdown complete")
		return runErr

	case err := <-runDone:
		sctx, cancel := shutdownCtx()
		defer cancel()
		if cerr := cleanup(sctx); cerr != nil {
			logger.Error("shutdown error", "error", cerr)
		}
		return err
	}
}
