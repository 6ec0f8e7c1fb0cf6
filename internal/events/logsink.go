package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sink consumes events from the router.
type Sink interface {
	Start(ctx context.Context, events <-chan Event) error
	Stop() error
}

// LogSink writes events to a JSON lines file. It is the durable end of the
// diagnostic channel: refresh failures land here even though the user only
// sees the indicator disappear.
type LogSink struct {
	path    string
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
	done    chan struct{}
	written int
}

// NewLogSink creates a new LogSink that writes to the specified path.
func NewLogSink(path string) *LogSink {
	return &LogSink{
		path: path,
		done: make(chan struct{}),
	}
}

// Start opens the log file and begins processing events.
// It runs until the context is canceled or the events channel is closed.
func (s *LogSink) Start(ctx context.Context, events <-chan Event) error {
	if err := s.openFile(); err != nil {
		return err
	}

	go s.run(ctx, events)
	return nil
}

func (s *LogSink) openFile() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create event log directory: %w", err)
	}

	if err := s.rotateExistingLog(); err != nil {
		return err
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}

	s.mu.Lock()
	s.file = file
	s.encoder = json.NewEncoder(file)
	s.mu.Unlock()

	return nil
}

// rotateExistingLog renames a non-empty log from a previous run so each run
// starts with a fresh file.
func (s *LogSink) rotateExistingLog() error {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat event log: %w", err)
	}

	if info.Size() == 0 {
		return nil
	}

	bakPath := fmt.Sprintf("%s.%s.bak", s.path, time.Now().Format("2006-01-02T15-04-05"))
	if err := os.Rename(s.path, bakPath); err != nil {
		return fmt.Errorf("rotate event log: %w", err)
	}

	return nil
}

func (s *LogSink) run(ctx context.Context, events <-chan Event) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.write(event)
		}
	}
}

func (s *LogSink) write(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return
	}

	if err := s.encoder.Encode(event); err != nil {
		// stderr belongs to the TUI, so this is the only place left to say it
		fmt.Fprintf(os.Stderr, "event log: failed to write event: %v\n", err)
		return
	}
	s.written++
}

// Stop waits for the run goroutine to exit and closes the log file.
func (s *LogSink) Stop() error {
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		s.encoder = nil
		return err
	}
	return nil
}

// Written returns the number of events successfully encoded.
func (s *LogSink) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Path returns the log file path.
func (s *LogSink) Path() string {
	return s.path
}
