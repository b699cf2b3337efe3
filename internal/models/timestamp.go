package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a datetime as the blog server writes it. The server emits
// naive ISO-8601 values and HTTP dates as well as RFC 3339, so decoding
// tries each layout and keeps the original text for display.
type Timestamp struct {
	time.Time
	Raw string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
	"2006-01-02",
}

// ParseTimestamp parses s with the layouts the blog server is known to use.
// Text that matches no layout is kept in Raw with a zero Time.
func ParseTimestamp(s string) Timestamp {
	ts := Timestamp{Raw: s}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			break
		}
	}
	return ts
}

// UnmarshalJSON accepts a JSON string or null.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}
	*t = ParseTimestamp(s)
	return nil
}

// MarshalJSON writes the original text when known, so a decoded value
// re-encodes unchanged.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Raw == "" && t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// String returns the original text, or RFC 3339 for values built in Go.
func (t Timestamp) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.Format(time.RFC3339)
}

// IsZero reports whether the timestamp carries neither text nor time.
func (t Timestamp) IsZero() bool {
	return t.Raw == "" && t.Time.IsZero()
}
