// Package event defines the activity events written to the journal.
package event

import (
	"fmt"
	"time"

	"github.com/nodech/sway-matiane/internal/json"
)

// Kind discriminates the event union on the wire ("type" field).
type Kind string

const (
	KindFocused Kind = "focused"
	// KindAlive is the interval liveness check.
	KindAlive Kind = "alive"
	// KindLock: screen is now locked or asleep.
	KindLock Kind = "lock"
	// KindUnlock: screen is now unlocked or awake.
	KindUnlock Kind = "unlock"
	// KindIdle: went to idle state.
	KindIdle Kind = "idle"
	// KindActive: back to active state.
	KindActive Kind = "active"
)

// Focused carries the identity of a newly focused window.
type Focused struct {
	Title string `json:"title"`
	ID    string `json:"id"`
	PID   int32  `json:"pid"`
}

// Event is the externally tagged union of activity events. Data is only
// present for KindFocused.
type Event struct {
	Type Kind     `json:"type"`
	Data *Focused `json:"data,omitempty"`
}

// NewFocused builds a focused event.
func NewFocused(title, id string, pid int32) Event {
	return Event{Type: KindFocused, Data: &Focused{Title: title, ID: id, PID: pid}}
}

// New builds a data-less event of the given kind.
func New(kind Kind) Event {
	return Event{Type: kind}
}

// UnmarshalJSON decodes an event and rejects unknown discriminators.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	switch decoded.Type {
	case KindFocused:
		if decoded.Data == nil {
			return fmt.Errorf("focused event without data")
		}
	case KindAlive, KindLock, KindUnlock, KindIdle, KindActive:
	default:
		return fmt.Errorf("unknown event type %q", decoded.Type)
	}

	*e = Event(decoded)
	return nil
}

// Timestamp is a UTC point in time stored at whole-second precision.
type Timestamp struct {
	time.Time
}

const timestampLayout = "2006-01-02T15:04:05Z"

// Now returns the current time as a journal timestamp.
func Now() Timestamp {
	return At(time.Now())
}

// At converts t to a journal timestamp, truncating to seconds in UTC.
func At(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Second)}
}

// MarshalJSON encodes the timestamp as an ISO-8601 UTC string with a Z
// suffix and seconds precision.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(timestampLayout) + `"`), nil
}

// UnmarshalJSON decodes the journal timestamp format.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("bad timestamp %q: %w", raw, err)
	}
	t.Time = parsed.UTC()
	return nil
}

// TimedEvent is one journal record: an event paired with its timestamp.
type TimedEvent struct {
	Timestamp Timestamp `json:"timestamp"`
	Event     Event     `json:"event"`
}

// Timed stamps the event with the given time.
func Timed(t time.Time, e Event) *TimedEvent {
	return &TimedEvent{Timestamp: At(t), Event: e}
}
