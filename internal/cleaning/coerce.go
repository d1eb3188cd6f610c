// Package cleaning rebuilds the staging layer from raw tables: type
// coercion, deduplication, row filtering, and missing-value fills.
package cleaning

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order when parsing timestamp strings.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// toFloat coerces a value to float64. Unparseable or missing values report
// ok=false, which callers turn into either a default or a NULL.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toTime coerces a value to time.Time. Strings are tried against the known
// layouts; anything else unparseable reports ok=false.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// toString renders a value for a text column; nil becomes "".
func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// coerceTime rewrites a record field in place: parseable values become
// time.Time, everything else becomes nil so it lands as SQL NULL.
func coerceTime(rec map[string]any, field string) {
	if ts, ok := toTime(rec[field]); ok {
		rec[field] = ts
	} else {
		rec[field] = nil
	}
}

// coerceFloatDefault rewrites a numeric field in place, substituting def for
// missing or unparseable values.
func coerceFloatDefault(rec map[string]any, field string, def float64) {
	if f, ok := toFloat(rec[field]); ok {
		rec[field] = f
	} else {
		rec[field] = def
	}
}
