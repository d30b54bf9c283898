// Package record turns sanitized log lines into structured log records.
//
// A record is one logical entry. Producers write either one JSON object per
// line or pretty-printed objects spread across several lines, so Parse grows a
// block line by line until it forms a complete JSON value. Blocks that never
// parse become a synthetic {"msg": <text>} record covering the rest of the
// file.
package record

import "time"

// Canonical keys read from producer JSON.
const (
	KeyLevel         = "level"
	KeyLogLevel      = "LogLevel"
	KeyTime          = "time"
	KeyMessage       = "msg"
	KeyCorrelationID = "correlationId"
	KeyRequestID     = "requestId"
	KeyTraceID       = "traceId"
	KeyName          = "name"
	KeyNamespace     = "namespace"
	KeyService       = "service"
)

// Record is one parsed log entry. Empty strings mean the field was absent.
type Record struct {
	LineStart int
	LineEnd   int

	Time        time.Time
	Level       string
	Correlation string
	Name        string
	Message     string
	Service     string
	Namespace   string
	TraceID     string
	RequestID   string

	// Flat maps dotted JSON paths to stringified leaf values.
	Flat map[string]string
	// Raw is the trimmed source text of the block.
	Raw string
}

// HasTime reports whether a timestamp was extracted.
func (r Record) HasTime() bool {
	return !r.Time.IsZero()
}
