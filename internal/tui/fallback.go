package tui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// isTerminal returns true if both w and stdin are TTYs.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// runSimple prints the document once for non-interactive environments.
// There is no pointer to pull with, so no refresh happens.
func (t *TUI) runSimple(w io.Writer) error {
	text := t.doc.Text()
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
