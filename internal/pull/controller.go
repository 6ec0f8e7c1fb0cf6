// Package pull implements the pull-to-refresh gesture: a drag tracker that
// turns pointer travel into an offset, pure functions that map the offset to
// indicator visuals, and the state machine that decides on release whether to
// run a refresh.
//
// The package has no UI dependency. A host drives it by reporting gesture
// input (Press, Drag, Release), calling Step once per animation frame while
// Animating is true, running the Job handed out when Step returns
// StartRefresh, and reporting the Job's outcome with Settle.
package pull

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/npratt/pullr/internal/events"
)

// State is a gesture state machine state.
type State int

const (
	// Idle: offset at rest, nothing in flight.
	Idle State = iota
	// Dragging: the user is pulling and the offset is non-zero.
	Dragging
	// Committing: released past the threshold; the offset is snapping to it.
	Committing
	// Refreshing: the operation is in flight and the offset is held at the threshold.
	Refreshing
	// Resetting: the offset is returning to zero.
	Resetting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	case Refreshing:
		return "refreshing"
	case Resetting:
		return "resetting"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a release.
type Decision int

const (
	// DecisionNone means there was no active pull to decide on.
	DecisionNone Decision = iota
	// DecisionReset means the pull fell short and the offset returns to zero.
	DecisionReset
	// DecisionCommit means the pull crossed the threshold and a refresh follows.
	DecisionCommit
)

// Transition reports what an animation frame changed.
type Transition int

const (
	// TransitionNone means the animation is still running (or nothing was animating).
	TransitionNone Transition = iota
	// TransitionStartRefresh means the snap settled and Job must be run now.
	TransitionStartRefresh
	// TransitionIdle means the reset settled and the controller is at rest.
	TransitionIdle
)

const (
	// settleDistance and settleVelocity decide when a spring counts as settled.
	settleDistance = 0.5
	settleVelocity = 0.5
	// maxAnimationSeconds bounds an animation even if the spring is misconfigured.
	maxAnimationSeconds = 5
)

// Config holds the gesture parameters.
type Config struct {
	Enabled   bool
	Threshold float64
	MaxPull   float64
	Damping   float64

	FPS             int
	SpringFrequency float64
	SpringDamping   float64

	// MinHold applies only to the default (reload) path.
	MinHold time.Duration
}

// DefaultConfig returns the stock gesture parameters.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		Threshold:       80,
		MaxPull:         150,
		Damping:         0.1,
		FPS:             60,
		SpringFrequency: 6.0,
		SpringDamping:   1.0,
		MinHold:         time.Second,
	}
}

// Stats summarizes controller activity for display.
type Stats struct {
	Commits     int
	Refreshes   int
	Failures    int
	Ignored     int
	LastRefresh time.Time
	LastError   error
}

// Controller is the pull-to-refresh state machine. It is not safe for
// concurrent use; drive it from a single goroutine (the UI loop) and run Jobs
// elsewhere.
type Controller struct {
	cfg     Config
	tracker *Tracker

	spring    harmonica.Spring
	velocity  float64
	target    float64
	frames    int
	maxFrames int

	state    State
	gesture  bool
	loading  bool
	inflight uint64
	nextID   uint64
	started  time.Time

	refresher Refresher
	reloader  Reloader

	logger  *slog.Logger
	emitter events.Emitter
	now     func() time.Time

	stats Stats
}

// Option configures a Controller.
type Option func(*Controller)

// WithRefresher supplies the refresh operation. Without one, committed pulls
// use the Reloader followed by Config.MinHold.
func WithRefresher(r Refresher) Option {
	return func(c *Controller) {
		c.refresher = r
	}
}

// WithReloader sets the default-path collaborator.
func WithReloader(r Reloader) Option {
	return func(c *Controller) {
		c.reloader = r
	}
}

// WithLogger sets the logger used for transitions and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithEmitter sets where lifecycle events are published.
func WithEmitter(e events.Emitter) Option {
	return func(c *Controller) {
		c.emitter = e
	}
}

// WithClock overrides time.Now for durations and timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a controller at rest.
func New(cfg Config, opts ...Option) *Controller {
	fps := cfg.FPS
	if fps <= 0 {
		fps = DefaultConfig().FPS
	}

	c := &Controller{
		cfg:       cfg,
		tracker:   NewTracker(cfg.Damping),
		spring:    harmonica.NewSpring(harmonica.FPS(fps), cfg.SpringFrequency, cfg.SpringDamping),
		maxFrames: fps * maxAnimationSeconds,
		logger:    slog.Default(),
		emitter:   events.Discard,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Config returns the gesture parameters in effect.
func (c *Controller) Config() Config {
	return c.cfg
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Offset returns the current pull distance.
func (c *Controller) Offset() float64 {
	return c.tracker.Offset()
}

// Loading reports whether a refresh is in flight.
func (c *Controller) Loading() bool {
	return c.loading
}

// Threshold returns the commit threshold.
func (c *Controller) Threshold() float64 {
	return c.cfg.Threshold
}

// MaxPull returns the advisory visual cap.
func (c *Controller) MaxPull() float64 {
	return c.cfg.MaxPull
}

// FPS returns the animation frame rate Step expects to be called at.
func (c *Controller) FPS() int {
	if c.cfg.FPS <= 0 {
		return DefaultConfig().FPS
	}
	return c.cfg.FPS
}

// Enabled reports whether the gesture is turned on.
func (c *Controller) Enabled() bool {
	return c.cfg.Enabled
}

// Animating reports whether Step should be called on the next frame.
func (c *Controller) Animating() bool {
	return c.state == Committing || c.state == Resetting
}

// Visuals returns the indicator appearance for the current offset.
func (c *Controller) Visuals() Visuals {
	return Map(c.tracker.Offset(), c.cfg.Threshold, c.loading)
}

// Stats returns a snapshot of activity counters.
func (c *Controller) Stats() Stats {
	return c.stats
}

// acceptsDrag reports whether gesture input is currently allowed.
func (c *Controller) acceptsDrag() bool {
	if !c.cfg.Enabled || c.loading {
		return false
	}
	return c.state == Idle || c.state == Dragging
}

// Press starts a gesture. It returns false, and the gesture's later samples
// are ignored, when pulling is disabled or the controller is busy.
func (c *Controller) Press() bool {
	if !c.acceptsDrag() {
		c.gesture = false
		c.stats.Ignored++
		reason := "busy"
		switch {
		case !c.cfg.Enabled:
			reason = "pull disabled"
		case c.loading:
			reason = "refresh in flight"
		}
		c.emitter.Emit(&events.PullIgnoredEvent{
			BaseEvent: c.event(events.EventPullIgnored),
			Reason:    reason,
		})
		return false
	}
	c.gesture = true
	return true
}

// Drag feeds one vertical movement sample of the active gesture.
// It reports whether the sample was applied.
func (c *Controller) Drag(delta float64) bool {
	if !c.gesture || !c.acceptsDrag() {
		return false
	}
	offset := c.tracker.Move(delta)
	if c.state == Idle && offset > 0 {
		c.setState(Dragging)
	}
	return true
}

// Release ends the gesture and decides whether to refresh.
func (c *Controller) Release() Decision {
	if !c.gesture {
		return DecisionNone
	}
	c.gesture = false

	if c.state != Dragging {
		return DecisionNone
	}

	if c.tracker.Offset() >= c.cfg.Threshold {
		c.stats.Commits++
		c.animateTo(c.cfg.Threshold)
		c.setState(Committing)
		return DecisionCommit
	}

	c.animateTo(0)
	c.setState(Resetting)
	return DecisionReset
}

// Trigger performs a complete pull to exactly the threshold and releases it,
// for hosts that offer a non-pointer way to refresh. It follows the same
// transitions and guards as a real gesture.
func (c *Controller) Trigger() bool {
	if c.state != Idle || !c.Press() {
		return false
	}
	c.tracker.Set(c.cfg.Threshold)
	c.setState(Dragging)
	return c.Release() == DecisionCommit
}

// Step advances the running animation by one frame.
func (c *Controller) Step() Transition {
	if !c.Animating() {
		return TransitionNone
	}

	pos, vel := c.spring.Update(c.tracker.Offset(), c.velocity, c.target)
	c.tracker.Set(pos)
	c.velocity = vel
	c.frames++

	settled := math.Abs(c.tracker.Offset()-c.target) < settleDistance && math.Abs(c.velocity) < settleVelocity
	if !settled && c.frames < c.maxFrames {
		return TransitionNone
	}

	c.tracker.Set(c.target)
	c.velocity = 0

	if c.state == Committing {
		c.beginRefresh()
		return TransitionStartRefresh
	}

	c.setState(Idle)
	return TransitionIdle
}

// Job returns the in-flight refresh. ok is false when nothing is in flight.
func (c *Controller) Job() (job Job, ok bool) {
	if !c.loading {
		return Job{}, false
	}
	if c.refresher != nil {
		return Job{ID: c.inflight, op: c.refresher}, true
	}
	return Job{
		ID:      c.inflight,
		Default: true,
		op:      reloadThenHold{reloader: c.reloader, hold: c.cfg.MinHold},
	}, true
}

// Settle reports the outcome of refresh id. Outcomes for anything other than
// the in-flight refresh are ignored and Settle returns false. Success and
// failure both move the controller on to Resetting.
func (c *Controller) Settle(id uint64, err error) bool {
	if c.state != Refreshing || id == 0 || id != c.inflight {
		c.logger.Debug("ignoring stale refresh outcome", "refresh_id", id, "inflight", c.inflight)
		return false
	}

	elapsed := c.now().Sub(c.started)
	c.loading = false
	c.inflight = 0

	if err != nil {
		var re *RefreshError
		if !errors.As(err, &re) {
			re = &RefreshError{ID: id, Err: err}
		}
		c.stats.Failures++
		c.stats.LastError = re
		c.logger.Error("refresh failed", "refresh_id", id, "duration", elapsed, "error", re)
		c.emitter.Emit(&events.RefreshFailedEvent{
			BaseEvent:  c.event(events.EventRefreshFailed),
			RefreshID:  id,
			DurationMs: elapsed.Milliseconds(),
			Error:      re.Error(),
		})
	} else {
		c.stats.Refreshes++
		c.stats.LastError = nil
		c.stats.LastRefresh = c.now()
		c.logger.Info("refresh complete", "refresh_id", id, "duration", elapsed)
		c.emitter.Emit(&events.RefreshEndEvent{
			BaseEvent:  c.event(events.EventRefreshEnd),
			RefreshID:  id,
			DurationMs: elapsed.Milliseconds(),
		})
	}

	c.animateTo(0)
	c.setState(Resetting)
	return true
}

func (c *Controller) beginRefresh() {
	c.nextID++
	c.inflight = c.nextID
	c.loading = true
	c.started = c.now()
	c.setState(Refreshing)

	c.logger.Info("refresh started", "refresh_id", c.inflight, "default", c.refresher == nil)
	c.emitter.Emit(&events.RefreshStartEvent{
		BaseEvent: c.event(events.EventRefreshStart),
		RefreshID: c.inflight,
		Default:   c.refresher == nil,
	})
}

func (c *Controller) animateTo(target float64) {
	c.target = target
	c.velocity = 0
	c.frames = 0
}

func (c *Controller) setState(to State) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	c.logger.Debug("pull state changed", "from", from.String(), "to", to.String(), "offset", c.tracker.Offset())
	c.emitter.Emit(&events.StateChangedEvent{
		BaseEvent: c.event(events.EventStateChanged),
		From:      from.String(),
		To:        to.String(),
		Offset:    c.tracker.Offset(),
	})
}

func (c *Controller) event(t events.EventType) events.BaseEvent {
	return events.BaseEvent{EventType: t, Time: c.now(), Src: events.SourceController}
}
