package domain

import (
	"strconv"
	"time"
)

// ChangeMarker is the ordered "last modified" value reported by a source.
// The zero value is UnknownMarker and orders below every known marker.
type ChangeMarker struct {
	value int64
	known bool
}

// UnknownMarker means "never fetched" or "no signal".
var UnknownMarker = ChangeMarker{}

// NewMarker returns a known marker with the given ordinal value.
func NewMarker(v int64) ChangeMarker {
	return ChangeMarker{value: v, known: true}
}

// MarkerFromTime returns a known marker for t, or UnknownMarker when t is zero.
func MarkerFromTime(t time.Time) ChangeMarker {
	if t.IsZero() {
		return UnknownMarker
	}
	return NewMarker(t.UnixNano())
}

// IsKnown reports whether the marker carries a value.
func (m ChangeMarker) IsKnown() bool {
	return m.known
}

// Value returns the ordinal value. It is meaningless for UnknownMarker.
func (m ChangeMarker) Value() int64 {
	return m.value
}

// After reports whether m is strictly newer than other.
// An unknown marker is never after anything.
func (m ChangeMarker) After(other ChangeMarker) bool {
	if !m.known {
		return false
	}
	if !other.known {
		return true
	}
	return m.value > other.value
}

// Max returns the newer of m and other.
func (m ChangeMarker) Max(other ChangeMarker) ChangeMarker {
	if other.After(m) {
		return other
	}
	return m
}

func (m ChangeMarker) String() string {
	if !m.known {
		return "unknown"
	}
	return strconv.FormatInt(m.value, 10)
}

// MarshalText renders the marker for JSON and logs.
func (m ChangeMarker) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a marker rendered by MarshalText.
func (m *ChangeMarker) UnmarshalText(b []byte) error {
	s := string(b)
	if s == "" || s == "unknown" {
		*m = UnknownMarker
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*m = NewMarker(v)
	return nil
}
