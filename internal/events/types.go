// Package events defines the diagnostic events emitted by the pull-to-refresh
// controller and the channel-based router that fans them out to sinks.
package events

import "time"

// EventType identifies the category and nature of an event.
type EventType string

const (
	// Gesture state machine events
	EventStateChanged EventType = "pull.state_changed"
	EventPullIgnored  EventType = "pull.ignored"

	// Refresh operation events
	EventRefreshStart  EventType = "refresh.start"
	EventRefreshEnd    EventType = "refresh.end"
	EventRefreshFailed EventType = "refresh.failed"
)

// Source constants identify the origin of events.
const (
	SourceController = "controller"
	SourceView       = "view"
)

// Event is the base interface for all events in the system.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Source() string
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
	Src       string    `json:"source"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// Source returns the origin of the event.
func (e BaseEvent) Source() string {
	return e.Src
}

// StateChangedEvent is emitted on every gesture state transition.
type StateChangedEvent struct {
	BaseEvent
	From   string  `json:"from"`
	To     string  `json:"to"`
	Offset float64 `json:"offset"`
}

// PullIgnoredEvent is emitted when a gesture starts while input is disabled,
// either because pulling is turned off or a refresh is in flight.
type PullIgnoredEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}

// RefreshStartEvent is emitted when a committed pull invokes its operation.
type RefreshStartEvent struct {
	BaseEvent
	RefreshID uint64 `json:"refresh_id"`
	Default   bool   `json:"default"`
}

// RefreshEndEvent is emitted when a refresh operation settles successfully.
type RefreshEndEvent struct {
	BaseEvent
	RefreshID  uint64 `json:"refresh_id"`
	DurationMs int64  `json:"duration_ms"`
}

// RefreshFailedEvent is emitted when a refresh operation fails or panics.
type RefreshFailedEvent struct {
	BaseEvent
	RefreshID  uint64 `json:"refresh_id"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error"`
}

// NewEvent creates a BaseEvent with the current timestamp.
func NewEvent(eventType EventType, source string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Src:       source,
	}
}

// NewControllerEvent creates a BaseEvent with the controller as the source.
func NewControllerEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceController)
}

// Emitter publishes events. *Router satisfies it.
type Emitter interface {
	Emit(event Event)
}

// Discard is an Emitter that drops every event.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Emit(Event) {}
