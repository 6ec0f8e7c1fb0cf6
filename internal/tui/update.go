package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/pullr/internal/pull"
)

// doFrame schedules the next animation frame.
func doFrame(fps int) tea.Cmd {
	if fps <= 0 {
		fps = pull.DefaultConfig().FPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// runRefresh runs job off the UI loop and reports its outcome.
func runRefresh(ctx context.Context, job pull.Job) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{id: job.ID, err: job.Run(ctx)}
	}
}

// Update implements tea.Model. It handles all message types and updates the model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case frameMsg:
		return m.handleFrame()

	case refreshDoneMsg:
		return m.handleRefreshDone(msg)

	case spinner.TickMsg:
		if !m.ctrl.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

// handleKey processes keyboard input and returns the updated model and command.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		if !m.ctrl.Trigger() {
			return m, nil
		}
		cmd := m.animate()
		return m, cmd

	case "home", "g":
		m.viewport.GotoTop()
		return m, nil

	case "end", "G":
		m.viewport.GotoBottom()
		return m, nil

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
}

// handleMouse turns a left-button drag into a pull gesture. Wheel events
// scroll the content.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pressed = m.ctrl.Press()
		m.lastY = msg.Y
		return m, nil

	case msg.Action == tea.MouseActionMotion && m.pressed:
		delta := msg.Y - m.lastY
		m.lastY = msg.Y
		if delta != 0 {
			m.ctrl.Drag(float64(delta) * m.unitsPerRow)
		}
		return m, nil

	case msg.Action == tea.MouseActionRelease && m.pressed:
		m.pressed = false
		if m.ctrl.Release() == pull.DecisionNone {
			return m, nil
		}
		cmd := m.animate()
		return m, cmd

	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleFrame steps the controller and starts the refresh once the snap
// settles.
func (m model) handleFrame() (tea.Model, tea.Cmd) {
	m.framing = false

	switch m.ctrl.Step() {
	case pull.TransitionStartRefresh:
		job, ok := m.ctrl.Job()
		if !ok {
			return m, nil
		}
		return m, tea.Batch(runRefresh(m.ctx, job), m.spinner.Tick)

	case pull.TransitionIdle:
		return m, nil
	}

	cmd := m.animate()
	return m, cmd
}

// handleRefreshDone settles the refresh and shows the reloaded content.
func (m model) handleRefreshDone(msg refreshDoneMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.Settle(msg.id, msg.err) {
		return m, nil
	}

	m.viewport.SetContent(m.doc.Text())

	stats := m.ctrl.Stats()
	m.lastErr = stats.LastError
	if msg.err == nil {
		m.refreshedAt = stats.LastRefresh
	}

	cmd := m.animate()
	return m, cmd
}

// animate schedules a frame if the controller is animating and none is
// pending.
func (m *model) animate() tea.Cmd {
	if m.framing || !m.ctrl.Animating() {
		return nil
	}
	m.framing = true
	return doFrame(m.ctrl.FPS())
}

// resize fits the viewport between the header and footer.
func (m *model) resize() {
	m.viewport.Width = safeWidth(m.width)
	m.viewport.Height = safeWidth(m.bodyHeight())
}
