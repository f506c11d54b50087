package rowstore

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Row is a single record keyed by column name.
type Row map[string]any

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// String returns the column as text. Missing or NULL columns yield "".
func (r Row) String(col string) string {
	s, _ := r.OptString(col)
	return s
}

// OptString returns the column as text and whether it was present and non-NULL.
func (r Row) OptString(col string) (string, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	default:
		return fmt.Sprint(t), true
	}
}

// Int returns the column as an int. Floats are accepted only when they hold
// a whole number.
func (r Row) Int(col string) (int, error) {
	v, ok := r[col]
	if !ok || v == nil {
		return 0, fmt.Errorf("column %s: missing", col)
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int32:
		return int(t), nil
	case int64:
		return int(t), nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("column %s: %v is not a whole number", col, t)
		}
		return int(t), nil
	case string:
		return strconv.Atoi(t)
	case []byte:
		return strconv.Atoi(string(t))
	default:
		return 0, fmt.Errorf("column %s: unexpected type %T", col, v)
	}
}

// Time returns the column as a time. A missing or NULL column yields the
// zero time, which callers treat as "no timestamp".
func (r Row) Time(col string) (time.Time, error) {
	v, ok := r[col]
	if !ok || v == nil {
		return time.Time{}, nil
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case string:
		return parseTime(t)
	case []byte:
		return parseTime(string(t))
	default:
		return time.Time{}, fmt.Errorf("column %s: unexpected type %T", col, v)
	}
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
