package tui

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/pullr/internal/content"
	"github.com/npratt/pullr/internal/pull"
)

// model is the bubbletea model for the TUI.
type model struct {
	ctx   context.Context
	doc   *content.Document
	ctrl  *pull.Controller
	title string

	// unitsPerRow converts mouse rows to pointer travel.
	unitsPerRow float64

	viewport viewport.Model
	spinner  spinner.Model

	// Gesture tracking
	pressed bool
	lastY   int

	// framing is true while a frame tick is scheduled.
	framing bool

	// Last outcome shown in the footer
	refreshedAt time.Time
	lastErr     error

	width  int
	height int
}

// frameMsg advances the pull animation by one frame.
type frameMsg time.Time

// refreshDoneMsg carries the outcome of a refresh job back to the UI loop.
type refreshDoneMsg struct {
	id  uint64
	err error
}

// newModel creates a new model showing doc, driven by ctrl.
func newModel(ctx context.Context, doc *content.Document, ctrl *pull.Controller, unitsPerRow float64, title string) model {
	if ctx == nil {
		ctx = context.Background()
	}
	if unitsPerRow <= 0 {
		unitsPerRow = defaultUnitsPerRow
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(0, 0)
	vp.SetContent(doc.Text())

	return model{
		ctx:         ctx,
		doc:         doc,
		ctrl:        ctrl,
		title:       title,
		unitsPerRow: unitsPerRow,
		viewport:    vp,
		spinner:     sp,
		refreshedAt: doc.LoadedAt(),
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// rowOffset is the offset one row of downward motion adds while pulling.
func (m model) rowOffset() float64 {
	return m.unitsPerRow * m.ctrl.Config().Damping
}

// pushRows is how many rows the content is pushed down by the pull.
func (m model) pushRows() int {
	offset := min(m.ctrl.Offset(), m.ctrl.MaxPull())
	step := m.rowOffset()
	if offset <= 0 || step <= 0 {
		return 0
	}
	rows := int(math.Ceil(offset / step))
	if limit := m.bodyHeight() / 2; rows > limit {
		rows = limit
	}
	return rows
}
