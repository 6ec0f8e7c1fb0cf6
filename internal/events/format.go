package events

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const truncateIndicator = "..."

// Format converts an event to a human-readable string for display.
// Returns empty string for nil or unknown event types.
func Format(event Event) string {
	if event == nil {
		return ""
	}

	switch e := event.(type) {
	case *StateChangedEvent:
		return fmt.Sprintf("state: %s -> %s (offset %.1f)", e.From, e.To, e.Offset)
	case *PullIgnoredEvent:
		return fmt.Sprintf("pull ignored: %s", e.Reason)
	case *RefreshStartEvent:
		if e.Default {
			return fmt.Sprintf("refresh #%d started (reload)", e.RefreshID)
		}
		return fmt.Sprintf("refresh #%d started", e.RefreshID)
	case *RefreshEndEvent:
		return fmt.Sprintf("refresh #%d done in %s", e.RefreshID, formatMs(e.DurationMs))
	case *RefreshFailedEvent:
		return fmt.Sprintf("refresh #%d failed after %s: %s",
			e.RefreshID, formatMs(e.DurationMs), Truncate(e.Error, 120))
	default:
		return ""
	}
}

func formatMs(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

// Truncate shortens text to maxLen, adding indicator if truncated.
func Truncate(s string, maxLen int) string {
	s = SafeString(s)
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= len(truncateIndicator) {
		return truncateIndicator
	}
	return s[:maxLen-len(truncateIndicator)] + truncateIndicator
}

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// SafeString flattens a string to one display line: escape sequences and
// control characters are dropped and runs of spaces collapsed.
func SafeString(s string) string {
	s = StripANSI(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r == ' ' || !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}
