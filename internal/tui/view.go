package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/npratt/pullr/internal/events"
	"github.com/npratt/pullr/internal/pull"
)

const (
	minWidth  = 30
	minHeight = 8

	// chromeRows is the header, footer and their dividers.
	chromeRows = 4
)

// arrows is the indicator glyph for each 45 degree step, turning clockwise
// from pointing down.
var arrows = []string{"↓", "↙", "←", "↖", "↑", "↗", "→", "↘"}

// View implements tea.Model. This renders the full TUI display.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	push := m.pushRows()

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderDivider())
	if push > 0 {
		sections = append(sections, m.renderIndicator(push))
	}
	sections = append(sections, m.renderContent(m.bodyHeight()-push))
	sections = append(sections, m.renderDivider())
	sections = append(sections, m.renderFooter())

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, strings.Join(sections, "\n"))
}

func (m model) bodyHeight() int {
	return max(0, m.height-chromeRows)
}

func (m model) renderTooSmall() string {
	return fmt.Sprintf("Terminal too small (%dx%d). Need %dx%d minimum.",
		m.width, m.height, minWidth, minHeight)
}

func (m model) renderHeader() string {
	state := m.renderState()
	title := styles.Title.Render(events.Truncate(m.title, safeWidth(m.width-lipgloss.Width(state)-1)))
	gap := safeWidth(m.width - lipgloss.Width(title) - lipgloss.Width(state))
	return title + strings.Repeat(" ", gap) + state
}

func (m model) renderState() string {
	if !m.ctrl.Enabled() && m.ctrl.State() == pull.Idle {
		return styles.StatusDisabled.Render("pull off")
	}

	switch m.ctrl.State() {
	case pull.Dragging:
		return styles.StatusPulling.Render("pulling")
	case pull.Committing, pull.Refreshing:
		return styles.StatusRefreshing.Render("refreshing")
	case pull.Resetting:
		return styles.StatusIdle.Render("settling")
	default:
		return styles.StatusIdle.Render("ready")
	}
}

func (m model) renderDivider() string {
	return styles.Divider.Render(strings.Repeat("─", safeWidth(m.width)))
}

// renderIndicator fills the rows the pull pushed the content down by, with
// the indicator on the last row.
func (m model) renderIndicator(rows int) string {
	v := m.ctrl.Visuals()

	var mark string
	switch {
	case v.Spinning:
		mark = m.spinner.View() + " " + styles.Hint.Render("refreshing")
	case m.ctrl.State() == pull.Dragging && m.ctrl.Offset() >= m.ctrl.Threshold():
		mark = indicatorStyle(v.Opacity).Render(glyph(v.Rotation)) + " " + styles.Hint.Render("release to refresh")
	default:
		mark = indicatorStyle(v.Opacity).Render(glyph(v.Rotation))
	}

	lines := make([]string, rows)
	lines[rows-1] = lipgloss.PlaceHorizontal(safeWidth(m.width), lipgloss.Center, mark)
	return strings.Join(lines, "\n")
}

func (m model) renderContent(height int) string {
	vp := m.viewport
	vp.Height = safeWidth(height)
	return vp.View()
}

func (m model) renderFooter() string {
	help := "drag down/r: refresh  ↑/↓: scroll  q: quit"
	if !m.ctrl.Enabled() {
		help = "↑/↓: scroll  q: quit"
	}
	left := styles.Footer.Render(help)

	var right string
	switch {
	case m.lastErr != nil:
		right = styles.Error.Render("last refresh failed: " + events.Truncate(m.lastErr.Error(), 40))
	case !m.refreshedAt.IsZero():
		right = styles.Footer.Render("updated " + m.refreshedAt.Format("15:04:05"))
	}

	if right == "" {
		return left
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		// The outcome matters more than the key help.
		return right
	}
	return left + strings.Repeat(" ", gap) + right
}

// glyph picks the arrow for a rotation in degrees.
func glyph(rotation float64) string {
	deg := math.Mod(rotation, 360)
	if deg < 0 {
		deg += 360
	}
	return arrows[int(deg/45)%len(arrows)]
}

// indicatorStyle maps opacity onto the 256-color grayscale ramp (232-255).
func indicatorStyle(opacity float64) lipgloss.Style {
	opacity = math.Max(0, math.Min(1, opacity))
	level := 232 + int(math.Round(opacity*23))
	return styles.Indicator.Foreground(lipgloss.Color(strconv.Itoa(level)))
}

func safeWidth(w int) int {
	if w < 1 {
		return 1
	}
	return w
}
