package record

import (
	"strconv"
	"strings"
	"time"
)

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
const epochMillisThreshold = 10_000_000_000

// Extract reads the canonical fields from a parsed JSON value. Values that
// are not objects, and keys whose values are not strings, yield nothing.
func Extract(value any) Record {
	obj, _ := value.(map[string]any)
	var rec Record
	if obj == nil {
		return rec
	}

	if raw, ok := pickString(obj, KeyTime); ok {
		if ts, ok := ParseTimestamp(raw); ok {
			rec.Time = ts
		}
	}
	if level, ok := pickString(obj, KeyLevel); ok {
		rec.Level = level
	} else {
		rec.Level, _ = pickString(obj, KeyLogLevel)
	}
	rec.Correlation, _ = pickString(obj, KeyCorrelationID)
	rec.Name, _ = pickString(obj, KeyName)
	rec.Message, _ = pickString(obj, KeyMessage)
	rec.Service, _ = pickString(obj, KeyService)
	rec.Namespace, _ = pickString(obj, KeyNamespace)
	rec.TraceID, _ = pickString(obj, KeyTraceID)
	rec.RequestID, _ = pickString(obj, KeyRequestID)
	return rec
}

func pickString(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	return s, ok
}

// ParseTimestamp accepts RFC 3339 (with or without the trailing Z) and epoch
// seconds or milliseconds. Results are in UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts.UTC(), true
	}
	if !strings.HasSuffix(raw, "Z") {
		if ts, err := time.Parse(time.RFC3339Nano, raw+"Z"); err == nil {
			return ts.UTC(), true
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	if n > epochMillisThreshold {
		return time.UnixMilli(n).UTC(), true
	}
	return time.Unix(n, 0).UTC(), true
}

// FormatTimestamp renders t in UTC as RFC 3339 with a "+00:00" offset. The
// fraction is omitted when zero and otherwise printed as 3, 6 or 9 digits,
// whichever is the shortest exact form.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	layout := "2006-01-02T15:04:05"
	switch ns := t.Nanosecond(); {
	case ns == 0:
	case ns%1_000_000 == 0:
		layout += ".000"
	case ns%1_000 == 0:
		layout += ".000000"
	default:
		layout += ".000000000"
	}
	return t.Format(layout + "-07:00")
}
