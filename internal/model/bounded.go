package model

import (
	"encoding/json"
	"unicode/utf8"
)

// BoundedString is a string with a fixed byte capacity.
// Values longer than the capacity are cut at the last UTF-8 rune boundary
// that fits, and the truncation is recorded so callers can report it.
type BoundedString struct {
	value     string
	capacity  int
	truncated bool
}

// NewBoundedString returns a BoundedString holding v, truncated to capacity bytes.
// A non-positive capacity yields an empty value.
func NewBoundedString(capacity int, v string) BoundedString {
	if capacity < 0 {
		capacity = 0
	}
	cut := TruncateBytes(v, capacity)
	return BoundedString{
		value:     cut,
		capacity:  capacity,
		truncated: len(cut) != len(v),
	}
}

// String returns the stored value.
func (b BoundedString) String() string {
	return b.value
}

// Cap returns the capacity in bytes.
func (b BoundedString) Cap() int {
	return b.capacity
}

// Truncated reports whether the original value exceeded the capacity.
func (b BoundedString) Truncated() bool {
	return b.truncated
}

// IsEmpty reports whether no bytes are stored.
func (b BoundedString) IsEmpty() bool {
	return b.value == ""
}

// MarshalJSON encodes the stored value as a JSON string.
func (b BoundedString) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.value)
}

// TruncateBytes cuts s to at most n bytes without splitting a multi-byte rune.
func TruncateBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
