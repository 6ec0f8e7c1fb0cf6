package content

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Document holds the current text of the view. Reload runs on a refresh
// goroutine while the UI reads Text, hence the lock.
type Document struct {
	source Source
	now    func() time.Time

	mu       sync.RWMutex
	text     string
	loadedAt time.Time
	loads    int
	err      error
}

// NewDocument creates an empty document backed by source.
func NewDocument(source Source) *Document {
	return &Document{source: source, now: time.Now}
}

// Reload fetches the source again. On failure the previous text is kept and
// the error returned. Document implements pull.Reloader.
func (d *Document) Reload(ctx context.Context) error {
	text, err := d.source.Load(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.err = err
	if err != nil {
		return err
	}
	d.text = normalize(text)
	d.loadedAt = d.now()
	d.loads++
	return nil
}

// Text returns the most recently loaded text.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// LoadedAt returns when the text was last loaded successfully.
func (d *Document) LoadedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadedAt
}

// Loads returns how many successful loads have happened.
func (d *Document) Loads() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loads
}

// Err returns the error from the last Reload, if it failed.
func (d *Document) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

// Name describes where the text comes from.
func (d *Document) Name() string {
	return d.source.Name()
}

// normalize converts CRLF and expands tabs so the viewport measures lines
// correctly.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\t", "    ")
	return strings.TrimRight(s, "\n")
}
