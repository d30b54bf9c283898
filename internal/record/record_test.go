package record

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParse_SingleLineRecords(t *testing.T) {
	lines := []string{
		`{"time":"2024-05-01T10:00:00Z","level":"info","msg":"started","service":"api"}`,
		"",
		"----------",
		`{"LogLevel":"ERROR","msg":"boom","correlationId":"c-1","traceId":"t-1","requestId":"r-1","namespace":"billing","name":"worker"}`,
	}

	got := Parse(lines)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d records, want 2", len(got))
	}

	first := got[0]
	if first.LineStart != 0 || first.LineEnd != 0 {
		t.Fatalf("first span = [%d,%d], want [0,0]", first.LineStart, first.LineEnd)
	}
	if first.Level != "info" || first.Message != "started" || first.Service != "api" {
		t.Fatalf("first record fields = %+v", first)
	}
	if !first.HasTime() || !first.Time.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("first time = %v", first.Time)
	}

	second := got[1]
	if second.LineStart != 3 || second.LineEnd != 3 {
		t.Fatalf("second span = [%d,%d], want [3,3]", second.LineStart, second.LineEnd)
	}
	if second.Level != "ERROR" {
		t.Fatalf("Level = %q, want LogLevel fallback ERROR", second.Level)
	}
	if second.Correlation != "c-1" || second.TraceID != "t-1" || second.RequestID != "r-1" ||
		second.Namespace != "billing" || second.Name != "worker" {
		t.Fatalf("second record fields = %+v", second)
	}
	if second.HasTime() {
		t.Fatalf("second record should have no time, got %v", second.Time)
	}
}

func TestParse_MultiLineObject(t *testing.T) {
	lines := []string{
		`{"msg":"a"}`,
		"",
		"-----",
		`{"msg":"b"}`,
		"{",
		`  "level": "info",`,
		`  "msg": "multi",`,
		`  "nested": {"k": [1, 2]},`,
		`  "ok": true`,
		"}",
		`{"msg":"after"}`,
	}

	got := Parse(lines)
	if len(got) != 4 {
		t.Fatalf("Parse returned %d records, want 4", len(got))
	}
	multi := got[2]
	if multi.LineStart != 4 || multi.LineEnd != 9 {
		t.Fatalf("multi span = [%d,%d], want [4,9]", multi.LineStart, multi.LineEnd)
	}
	if multi.Message != "multi" || multi.Level != "info" {
		t.Fatalf("multi fields = %+v", multi)
	}
	want := map[string]string{
		"level":       "info",
		"msg":         "multi",
		"nested.k[0]": "1",
		"nested.k[1]": "2",
		"ok":          "true",
	}
	if !reflect.DeepEqual(multi.Flat, want) {
		t.Fatalf("Flat = %v, want %v", multi.Flat, want)
	}
	if !strings.HasPrefix(multi.Raw, "{") || !strings.HasSuffix(multi.Raw, "}") {
		t.Fatalf("Raw = %q, want the trimmed block", multi.Raw)
	}
	if got[3].LineStart != 10 || got[3].Message != "after" {
		t.Fatalf("record after block = %+v", got[3])
	}
}

func TestParse_FallbackConsumesRemainder(t *testing.T) {
	lines := []string{
		`{"msg":"json"}`,
		"plain text line",
		"  another one  ",
	}

	got := Parse(lines)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d records, want 2", len(got))
	}
	rest := got[1]
	if rest.LineStart != 1 || rest.LineEnd != 2 {
		t.Fatalf("fallback span = [%d,%d], want [1,2]", rest.LineStart, rest.LineEnd)
	}
	wantRaw := "plain text line\n  another one"
	if rest.Raw != wantRaw || rest.Message != wantRaw {
		t.Fatalf("fallback Raw = %q Message = %q, want %q", rest.Raw, rest.Message, wantRaw)
	}
	if !reflect.DeepEqual(rest.Flat, map[string]string{"msg": wantRaw}) {
		t.Fatalf("fallback Flat = %v", rest.Flat)
	}
}

func TestParse_UnclosedObjectFallsBack(t *testing.T) {
	lines := []string{"[INFO] server started", `{"msg":"later"}`}
	got := Parse(lines)
	if len(got) != 1 {
		t.Fatalf("Parse returned %d records, want 1", len(got))
	}
	if got[0].LineStart != 0 || got[0].LineEnd != 1 {
		t.Fatalf("span = [%d,%d], want [0,1]", got[0].LineStart, got[0].LineEnd)
	}
}

func TestParse_SpansStayInBoundsAndDisjoint(t *testing.T) {
	inputs := [][]string{
		nil,
		{""},
		{"---", "", "---"},
		{"{", `"a": 1`, "}", "x", "{"},
		{`"quoted"`, "42", "true", "null", "-7", "nope"},
		{`{"s":"brace } inside"}`, `{"s":"esc \" quote {"}`},
		{"{", `  "a": "unterminated`, "}"},
	}

	for _, lines := range inputs {
		prevEnd := -1
		for _, rec := range Parse(lines) {
			if rec.LineStart > rec.LineEnd || rec.LineEnd >= len(lines) {
				t.Fatalf("span [%d,%d] out of bounds for %d lines: %q", rec.LineStart, rec.LineEnd, len(lines), lines)
			}
			if rec.LineStart <= prevEnd {
				t.Fatalf("span [%d,%d] overlaps previous end %d: %q", rec.LineStart, rec.LineEnd, prevEnd, lines)
			}
			prevEnd = rec.LineEnd
		}
	}
}

func TestParse_BracesInsideStrings(t *testing.T) {
	lines := []string{`{"s":"brace } inside"}`, `{"s":"esc \" quote {"}`}
	got := Parse(lines)
	if len(got) != 2 {
		t.Fatalf("Parse returned %d records, want 2", len(got))
	}
	if got[0].Flat["s"] != "brace } inside" || got[1].Flat["s"] != `esc " quote {` {
		t.Fatalf("records = %+v", got)
	}
}

func TestFlatten(t *testing.T) {
	value, ok := parseJSON(`{"a":{"b":1},"c":[true,null],"d":{},"e":[],"f":1.50,"g":"text"}`)
	if !ok {
		t.Fatal("parseJSON failed")
	}
	got := Flatten(value)
	want := map[string]string{
		"a.b":  "1",
		"c[0]": "true",
		"c[1]": "null",
		"f":    "1.50",
		"g":    "text",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Flatten = %v, want %v", got, want)
	}
}

func TestFlatten_NonObject(t *testing.T) {
	value, _ := parseJSON(`[1,2]`)
	if got := Flatten(value); len(got) != 0 {
		t.Fatalf("Flatten(array) = %v, want empty", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{"rfc3339 zulu", "2024-01-01T00:00:00Z", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"missing zone", "2024-01-01T00:00:00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"offset", "2024-01-01T02:00:00+02:00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"fractional", "2024-01-01T00:00:00.250Z", time.Date(2024, 1, 1, 0, 0, 0, 250_000_000, time.UTC), true},
		{"epoch seconds", "1700000000", time.Unix(1700000000, 0).UTC(), true},
		{"epoch millis", "1700000000000", time.UnixMilli(1700000000000).UTC(), true},
		{"garbage", "yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseTimestamp(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"whole seconds", base, "2024-01-01T00:00:00+00:00"},
		{"millis", base.Add(250 * time.Millisecond), "2024-01-01T00:00:00.250+00:00"},
		{"micros", base.Add(1500 * time.Microsecond), "2024-01-01T00:00:00.001500+00:00"},
		{"nanos", base.Add(7), "2024-01-01T00:00:00.000000007+00:00"},
		{"converted to utc", time.Date(2024, 1, 1, 2, 0, 0, 0, time.FixedZone("", 2*3600)), "2024-01-01T00:00:00+00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.t); got != tt.want {
				t.Fatalf("FormatTimestamp = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_IgnoresNonStringValues(t *testing.T) {
	value, _ := parseJSON(`{"level":30,"LogLevel":"warn","msg":{"nested":true},"time":1700000000}`)
	rec := Extract(value)
	if rec.Level != "warn" {
		t.Fatalf("Level = %q, want warn", rec.Level)
	}
	if rec.Message != "" {
		t.Fatalf("Message = %q, want empty", rec.Message)
	}
	if rec.HasTime() {
		t.Fatalf("numeric time should be ignored, got %v", rec.Time)
	}
}

func TestPrettyJSON(t *testing.T) {
	pretty, lines := PrettyJSON(`{"a":1,"b":[2]}`)
	want := "{\n  \"a\": 1,\n  \"b\": [\n    2\n  ]\n}"
	if pretty != want || lines != 6 {
		t.Fatalf("PrettyJSON = %q (%d lines), want %q (6 lines)", pretty, lines, want)
	}

	raw, n := PrettyJSON("not json")
	if raw != "not json" || n != 1 {
		t.Fatalf("PrettyJSON(non-json) = %q (%d), want passthrough", raw, n)
	}
}
