package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/pullr/internal/content"
	"github.com/npratt/pullr/internal/pull"
	"github.com/npratt/pullr/internal/testutil"
)

// testRowUnits is one mouse row; with the stock damping that is an offset
// of 10, so 8 rows reach the stock threshold of 80.
const testRowUnits = 100

func testGesture() pull.Config {
	cfg := pull.DefaultConfig()
	cfg.MinHold = 0
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestDoc writes text to a temp file and loads it.
func newTestDoc(t *testing.T, text string) (*content.Document, string) {
	t.Helper()
	path := testutil.WriteFile(t, t.TempDir(), "view.txt", text)
	doc := content.NewDocument(content.NewFileSource(path))
	if err := doc.Reload(context.Background()); err != nil {
		t.Fatalf("initial load: %v", err)
	}
	return doc, path
}

// newTestModel builds a sized model over doc.
func newTestModel(t *testing.T, doc *content.Document, cfg pull.Config, opts ...pull.Option) model {
	t.Helper()
	opts = append([]pull.Option{pull.WithReloader(doc), pull.WithLogger(discardLogger())}, opts...)
	ctrl := pull.New(cfg, opts...)
	m := newModel(context.Background(), doc, ctrl, testRowUnits, "view.txt")
	return send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// send runs one message through Update, dropping the command.
func send(m model, msg tea.Msg) model {
	next, _ := m.Update(msg)
	return next.(model)
}

// sendCmd runs one message through Update and returns the command.
func sendCmd(m model, msg tea.Msg) (model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func press(y int) tea.MouseMsg {
	return tea.MouseMsg{X: 10, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(y int) tea.MouseMsg {
	return tea.MouseMsg{X: 10, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(y int) tea.MouseMsg {
	return tea.MouseMsg{X: 10, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

// drag presses at row 2, moves down one row at a time and holds there.
func drag(m model, rows int) model {
	m = send(m, press(2))
	for i := 1; i <= rows; i++ {
		m = send(m, motion(2+i))
	}
	return m
}

// frames delivers animation frames until the controller reaches want.
func frames(t *testing.T, m model, want pull.State) model {
	t.Helper()
	for i := 0; i < 1000 && m.ctrl.State() != want; i++ {
		m = send(m, frameMsg(time.Now()))
	}
	if m.ctrl.State() != want {
		t.Fatalf("state = %v after frames, want %v", m.ctrl.State(), want)
	}
	return m
}

// finishJob runs the in-flight job synchronously and delivers its outcome.
func finishJob(t *testing.T, m model) model {
	t.Helper()
	job, ok := m.ctrl.Job()
	if !ok {
		t.Fatal("no job in flight")
	}
	return send(m, refreshDoneMsg{id: job.ID, err: job.Run(context.Background())})
}

func lines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("line\n")
	}
	return b.String()
}
