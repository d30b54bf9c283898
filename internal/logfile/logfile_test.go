package logfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestScanLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []LineHeader
	}{
		{name: "empty", input: "", want: []LineHeader{}},
		{name: "only newlines", input: "\n\n\n", want: []LineHeader{}},
		{name: "single line no newline", input: "abc", want: []LineHeader{{0, 3}}},
		{name: "single line with newline", input: "abc\n", want: []LineHeader{{0, 3}}},
		{name: "gap between lines", input: "ab\n\ncd\n", want: []LineHeader{{0, 2}, {4, 2}}},
		{name: "leading newline", input: "\nxy", want: []LineHeader{{1, 2}}},
		{name: "crlf kept in header", input: "a\r\nb\r\n", want: []LineHeader{{0, 2}, {3, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScanLines([]byte(tt.input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ScanLines(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "hello", want: "hello"},
		{name: "csi color", input: "\x1b[31mERROR\x1b[0m", want: "ERROR"},
		{name: "osc stops at first final byte", input: "\x1b]0;title\x07rest", want: "itle\arest"},
		{name: "trailing carriage return", input: "line\r", want: "line"},
		{name: "unterminated escape consumes rest", input: "ok\x1b[123", want: "ok"},
		{name: "bare escape dropped", input: "a\x1bZb", want: "aZb"},
		{name: "invalid utf8 replaced", input: "a\xffb", want: "a�b"},
		{name: "escape then carriage return", input: "\x1b[1mbold\x1b[22m\r", want: "bold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := []byte(tt.input)
			got := Sanitize(buf, LineHeader{Offset: 0, Length: uint32(len(buf))})
			if got != tt.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeLinesMatchesHeaders(t *testing.T) {
	buf := []byte("\x1b[32mINFO\x1b[0m one\r\n\n{\"msg\":\"two\"}\nthree")
	headers := ScanLines(buf)
	got := SanitizeLines(buf, headers)
	want := []string{"INFO one", `{"msg":"two"}`, "three"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SanitizeLines = %q, want %q", got, want)
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.ansi")
	if err := os.WriteFile(path, []byte("\x1b[31mfirst\x1b[0m\nsecond\r\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := []string{"first", "second"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Read = %q, want %q", got, want)
	}
}

func TestRead_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Read = %q, want no lines", got)
	}
}

func TestRead_MissingFileFails(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.log"))
	if err == nil {
		t.Fatal("Read returned nil error, want open error")
	}
}

func TestMap_DirectoryFails(t *testing.T) {
	if _, err := Map(t.TempDir()); err == nil {
		t.Fatal("Map returned nil error for a directory")
	}
}
