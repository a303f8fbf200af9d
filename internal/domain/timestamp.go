package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is an instant that travels on the wire as a TimestampLayout string.
// Values are truncated to milliseconds so that a timestamp echoed back by a
// client compares equal to the one it was rendered from.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Millisecond)}
}

// maxUnix is 9999-12-31T23:59:59Z, the last second TimestampLayout can render.
const maxUnix = 253402300799

// ValidUnix reports whether sec is a positive unix time that renders as a
// parseable TimestampLayout string.
func ValidUnix(sec int64) bool {
	return sec > 0 && sec <= maxUnix
}

func TimestampFromUnix(sec int64) Timestamp {
	return NewTimestamp(time.Unix(sec, 0))
}

// ParseTimestamp accepts any RFC 3339 timestamp regardless of precision or offset.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("ParseTimestamp: %w", err)
	}
	return NewTimestamp(t), nil
}

func (t Timestamp) String() string {
	return t.Time.UTC().Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("Timestamp.UnmarshalJSON: expected string, got %s", b)
	}
	parsed, err := ParseTimestamp(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
