package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Legacy rows carry timestamps in two serializations: ISO-8601 with a 'Z'
// suffix and plain "YYYY-MM-DD HH:MM:SS". FlexTime scans both so callers never
// deal with raw strings; values that parse as neither are marked invalid and
// skipped by lifecycle classification instead of failing the whole read.
var flexLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FlexTime is a timestamp normalized at the persistence boundary.
type FlexTime struct {
	Time  time.Time
	Valid bool
}

// NewFlexTime wraps a time.Time as a valid FlexTime.
func NewFlexTime(t time.Time) FlexTime {
	return FlexTime{Time: t, Valid: true}
}

// Scan implements sql.Scanner.
func (t *FlexTime) Scan(value interface{}) error {
	t.Time, t.Valid = time.Time{}, false
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		t.Time, t.Valid = v, true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("flextime: unsupported scan type %T", value)
	}
}

func (t *FlexTime) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range flexLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time, t.Valid = parsed, true
			return nil
		}
	}
	// Unparseable legacy value: left invalid, not an error.
	return nil
}

// Value implements driver.Valuer.
func (t FlexTime) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time, nil
}

// MarshalJSON renders the timestamp in RFC3339 or null when invalid.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Time.Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON accepts the same layouts tolerated by Scan.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" || raw == "" {
		t.Time, t.Valid = time.Time{}, false
		return nil
	}
	for _, layout := range flexLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time, t.Valid = parsed, true
			return nil
		}
	}
	return fmt.Errorf("flextime: cannot parse %q", raw)
}
