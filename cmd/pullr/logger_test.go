package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/npratt/pullr/internal/config"
	"github.com/npratt/pullr/internal/events"
)

func testRotation() config.LogRotationConfig {
	return config.Default().LogRotation
}

func TestSetupTUILogger_WritesToFile(t *testing.T) {
	tmpDir := t.TempDir()

	result, err := SetupTUILogger(tmpDir, slog.LevelInfo, testRotation())
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	defer func() { _ = result.Close() }()

	expectedPath := filepath.Join(tmpDir, "pullr-debug.log")
	if result.FilePath != expectedPath {
		t.Errorf("FilePath = %q, want %q", result.FilePath, expectedPath)
	}

	result.Logger.Info("test message", "key", "value")

	content, err := os.ReadFile(result.FilePath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(content), "test message") {
		t.Errorf("log file should contain 'test message', got: %s", content)
	}
	if !strings.Contains(string(content), `"key":"value"`) {
		t.Errorf("log file should contain key=value, got: %s", content)
	}
}

func TestSetupTUILogger_DoesNotWriteToStderr(t *testing.T) {
	// stderr output would corrupt the TUI display.
	tmpDir := t.TempDir()

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	result, err := SetupTUILogger(tmpDir, slog.LevelInfo, testRotation())
	if err != nil {
		os.Stderr = oldStderr
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	defer func() { _ = result.Close() }()

	result.Logger.Info("this should not appear on stderr")

	_ = w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	if buf.Len() > 0 {
		t.Errorf("TUI logger wrote to stderr: %s", buf.String())
	}
}

func TestSetupTUILoggerWithWriter_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer

	logger := SetupTUILoggerWithWriter(&buf, slog.LevelInfo)
	logger.Info("test message", "foo", "bar")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("output should contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, `"foo":"bar"`) {
		t.Errorf("output should contain foo=bar, got: %s", output)
	}
}

func TestSetupTUILogger_AppendsToExistingFile(t *testing.T) {
	tmpDir := t.TempDir()

	logPath := filepath.Join(tmpDir, "pullr-debug.log")
	if err := os.WriteFile(logPath, []byte("existing content\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	result, err := SetupTUILogger(tmpDir, slog.LevelInfo, testRotation())
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	result.Logger.Info("new message")
	_ = result.Close()

	content, _ := os.ReadFile(logPath)
	if !strings.Contains(string(content), "existing content") {
		t.Error("should preserve existing content")
	}
	if !strings.Contains(string(content), "new message") {
		t.Error("should append new message")
	}
}

func TestSetupTUILogger_RespectsLogLevel(t *testing.T) {
	tmpDir := t.TempDir()

	level := &slog.LevelVar{}
	level.Set(slog.LevelWarn)

	result, err := SetupTUILogger(tmpDir, level, testRotation())
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	defer func() { _ = result.Close() }()

	result.Logger.Info("info message")
	result.Logger.Warn("warn message")

	content, _ := os.ReadFile(result.FilePath)
	contentStr := string(content)

	if strings.Contains(contentStr, "info message") {
		t.Error("INFO message should be filtered out at WARN level")
	}
	if !strings.Contains(contentStr, "warn message") {
		t.Error("WARN message should appear")
	}
}

func TestLogEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupTUILoggerWithWriter(&buf, slog.LevelDebug)

	ch := make(chan events.Event, 2)
	ch <- &events.RefreshStartEvent{
		BaseEvent: events.NewControllerEvent(events.EventRefreshStart),
		RefreshID: 3,
	}
	ch <- &events.RefreshEndEvent{
		BaseEvent:  events.NewControllerEvent(events.EventRefreshEnd),
		RefreshID:  3,
		DurationMs: 1200,
	}
	close(ch)

	done := make(chan struct{})
	go logEvents(logger, ch, done)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("logEvents should return when the channel closes")
	}

	out := buf.String()
	for _, want := range []string{"refresh.start", "refresh #3 started", "refresh #3 done in 1.2s"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log missing %q: %s", want, out)
		}
	}
}

func TestLogEvents_DoneAfterDrain(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupTUILoggerWithWriter(&buf, slog.LevelDebug)

	const n = 50
	ch := make(chan events.Event, n)
	for i := 1; i <= n; i++ {
		ch <- &events.RefreshStartEvent{
			BaseEvent: events.NewControllerEvent(events.EventRefreshStart),
			RefreshID: uint64(i),
		}
	}
	close(ch)

	done := make(chan struct{})
	go logEvents(logger, ch, done)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done should close once the channel is drained")
	}

	if got := strings.Count(buf.String(), `"msg":"pull event"`); got != n {
		t.Errorf("logged %d events before done, want %d", got, n)
	}
}
