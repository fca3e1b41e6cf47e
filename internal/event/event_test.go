package event

import (
	"strings"
	"testing"
	"time"

	"github.com/nodech/sway-matiane/internal/json"
)

func utc(year int, month time.Month, day, hour, minute, sec int) time.Time {
	return time.Date(year, month, day, hour, minute, sec, 0, time.UTC)
}

func TestTimedEventMarshal(t *testing.T) {
	cases := []struct {
		event    *TimedEvent
		expected string
	}{
		{
			event:    Timed(utc(2025, 12, 31, 23, 59, 59), New(KindAlive)),
			expected: `{"timestamp":"2025-12-31T23:59:59Z","event":{"type":"alive"}}`,
		},
		{
			event:    Timed(utc(2025, 1, 1, 0, 0, 2), New(KindLock)),
			expected: `{"timestamp":"2025-01-01T00:00:02Z","event":{"type":"lock"}}`,
		},
		{
			event:    Timed(utc(2025, 1, 1, 0, 0, 3), New(KindUnlock)),
			expected: `{"timestamp":"2025-01-01T00:00:03Z","event":{"type":"unlock"}}`,
		},
		{
			event:    Timed(utc(2025, 1, 1, 0, 0, 4), New(KindIdle)),
			expected: `{"timestamp":"2025-01-01T00:00:04Z","event":{"type":"idle"}}`,
		},
		{
			event:    Timed(utc(2025, 1, 1, 0, 0, 5), New(KindActive)),
			expected: `{"timestamp":"2025-01-01T00:00:05Z","event":{"type":"active"}}`,
		},
		{
			event: Timed(utc(2025, 1, 1, 0, 0, 5),
				NewFocused("This-is-title", "Program", 111)),
			expected: `{"timestamp":"2025-01-01T00:00:05Z","event":` +
				`{"type":"focused","data":{"title":"This-is-title","id":"Program","pid":111}}}`,
		},
	}

	for _, test := range cases {
		encoded, err := json.Marshal(test.event)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(encoded) != test.expected {
			t.Fatalf("expected %s, got %s", test.expected, encoded)
		}
	}
}

func TestTimestampTruncation(t *testing.T) {
	stamped := At(time.Date(2025, 6, 1, 12, 30, 45, 999_999_999, time.UTC))

	encoded, err := json.Marshal(stamped)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `"2025-06-01T12:30:45Z"` {
		t.Fatalf("expected seconds precision, got %s", encoded)
	}
}

func TestTimestampNonUTC(t *testing.T) {
	zone := time.FixedZone("UTC+4", 4*60*60)
	stamped := At(time.Date(2025, 6, 1, 12, 30, 45, 0, zone))

	encoded, err := json.Marshal(stamped)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `"2025-06-01T08:30:45Z"` {
		t.Fatalf("expected UTC conversion, got %s", encoded)
	}
}

func TestTimedEventRoundTrip(t *testing.T) {
	lines := []string{
		`{"timestamp":"2025-12-31T23:59:59Z","event":{"type":"alive"}}`,
		`{"timestamp":"2025-01-01T00:00:05Z","event":` +
			`{"type":"focused","data":{"title":"t","id":"i","pid":1}}}`,
	}

	for _, line := range lines {
		var decoded TimedEvent
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("unmarshal %s: %v", line, err)
		}

		encoded, err := json.Marshal(&decoded)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(encoded) != line {
			t.Fatalf("round trip mismatch: %s != %s", encoded, line)
		}
	}
}

func TestEventUnmarshalUnknownKind(t *testing.T) {
	var decoded Event
	err := json.Unmarshal([]byte(`{"type":"sleepwalk"}`), &decoded)
	if err == nil || !strings.Contains(err.Error(), "unknown event type") {
		t.Fatalf("expected unknown event type error, got %v", err)
	}
}

func TestEventUnmarshalFocusedWithoutData(t *testing.T) {
	var decoded Event
	err := json.Unmarshal([]byte(`{"type":"focused"}`), &decoded)
	if err == nil || !strings.Contains(err.Error(), "without data") {
		t.Fatalf("expected missing data error, got %v", err)
	}
}
