package pull

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRefreshFailed matches every error reported for a failed refresh.
var ErrRefreshFailed = errors.New("refresh failed")

// Refresher is an externally supplied refresh operation.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshFunc adapts a function to Refresher.
type RefreshFunc func(ctx context.Context) error

// Refresh calls f(ctx).
func (f RefreshFunc) Refresh(ctx context.Context) error {
	return f(ctx)
}

// Reloader is the host's "reload the current view" facility, used when no
// Refresher is supplied.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloadFunc adapts a function to Reloader.
type ReloadFunc func(ctx context.Context) error

// Reload calls f(ctx).
func (f ReloadFunc) Reload(ctx context.Context) error {
	return f(ctx)
}

// RefreshError is the single failure kind of the controller. It wraps the
// operation's error (or a recovered panic) and matches ErrRefreshFailed.
type RefreshError struct {
	ID       uint64
	Err      error
	Panicked bool
}

func (e *RefreshError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("refresh #%d panicked: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("refresh #%d failed: %v", e.ID, e.Err)
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *RefreshError) Unwrap() []error {
	return []error{ErrRefreshFailed, e.Err}
}

// Job is one committed refresh. It carries everything needed to run the
// operation, so Run is safe to call from a goroutine other than the one
// driving the controller.
type Job struct {
	ID      uint64
	Default bool
	op      Refresher
}

// Run invokes the operation once. Errors and panics come back as a
// *RefreshError; success returns nil.
func (j Job) Run(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &RefreshError{ID: j.ID, Err: fmt.Errorf("%v", p), Panicked: true}
		}
	}()

	if j.op == nil {
		return &RefreshError{ID: j.ID, Err: errors.New("no refresh operation")}
	}
	if opErr := j.op.Refresh(ctx); opErr != nil {
		return &RefreshError{ID: j.ID, Err: opErr}
	}
	return nil
}

// reloadThenHold is the default operation: reload the view, then keep the
// loading indicator up for hold.
type reloadThenHold struct {
	reloader Reloader
	hold     time.Duration
}

func (r reloadThenHold) Refresh(ctx context.Context) error {
	var err error
	if r.reloader != nil {
		err = r.reloader.Reload(ctx)
	}

	if r.hold > 0 {
		timer := time.NewTimer(r.hold)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			if err == nil {
				err = ctx.Err()
			}
		}
	}
	return err
}
