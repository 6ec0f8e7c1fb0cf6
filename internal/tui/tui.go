// Package tui provides the pull-to-refresh terminal view using bubbletea.
package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/pullr/internal/content"
	"github.com/npratt/pullr/internal/events"
	"github.com/npratt/pullr/internal/pull"
)

// defaultUnitsPerRow is the pointer travel one terminal row stands for.
const defaultUnitsPerRow = 100

// TUI shows a document and refreshes it when the user pulls it down.
type TUI struct {
	doc         *content.Document
	gesture     pull.Config
	unitsPerRow float64
	refresher   pull.Refresher
	logger      *slog.Logger
	emitter     events.Emitter
	title       string
	out         io.Writer
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a TUI for doc with the given gesture parameters.
func New(doc *content.Document, gesture pull.Config, opts ...Option) *TUI {
	t := &TUI{
		doc:         doc,
		gesture:     gesture,
		unitsPerRow: defaultUnitsPerRow,
		logger:      slog.Default(),
		emitter:     events.Discard,
		title:       doc.Name(),
		out:         os.Stdout,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithRefresher sets the operation a committed pull runs. Without one the
// document is reloaded and the indicator held for the minimum hold.
func WithRefresher(r pull.Refresher) Option {
	return func(t *TUI) {
		t.refresher = r
	}
}

// WithPullable turns the gesture on or off.
func WithPullable(enabled bool) Option {
	return func(t *TUI) {
		t.gesture.Enabled = enabled
	}
}

// WithUnitsPerRow sets how much pointer travel one row of mouse motion is.
func WithUnitsPerRow(units float64) Option {
	return func(t *TUI) {
		if units > 0 {
			t.unitsPerRow = units
		}
	}
}

// WithLogger sets the logger passed to the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(t *TUI) {
		t.logger = logger
	}
}

// WithEmitter sets where pull lifecycle events are published.
func WithEmitter(e events.Emitter) Option {
	return func(t *TUI) {
		t.emitter = e
	}
}

// WithTitle overrides the header title (the document name by default).
func WithTitle(title string) Option {
	return func(t *TUI) {
		t.title = title
	}
}

// WithOutput sets where the document is printed when there is no terminal.
func WithOutput(w io.Writer) Option {
	return func(t *TUI) {
		t.out = w
	}
}

// controller builds the state machine for one run.
func (t *TUI) controller() *pull.Controller {
	opts := []pull.Option{
		pull.WithReloader(t.doc),
		pull.WithLogger(t.logger),
		pull.WithEmitter(t.emitter),
	}
	if t.refresher != nil {
		opts = append(opts, pull.WithRefresher(t.refresher))
	}
	return pull.New(t.gesture, opts...)
}

// Run starts the TUI and blocks until it exits or ctx is canceled. When
// the output or stdin is not a terminal the document is printed once instead.
func (t *TUI) Run(ctx context.Context) error {
	if !isTerminal(t.out) {
		return t.runSimple(t.out)
	}

	m := newModel(ctx, t.doc, t.controller(), t.unitsPerRow, t.title)

	p := tea.NewProgram(m,
		tea.WithOutput(t.out),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
