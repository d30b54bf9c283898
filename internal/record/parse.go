package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Parse groups lines into records. Every returned record satisfies
// LineStart <= LineEnd < len(lines), and spans never overlap.
func Parse(lines []string) []Record {
	var records []Record
	for idx := 0; idx < len(lines); {
		if skippable(lines[idx]) {
			idx++
			continue
		}
		value, raw, end := readBlock(lines, idx)
		rec := Extract(value)
		rec.LineStart = idx
		rec.LineEnd = end
		rec.Raw = raw
		rec.Flat = Flatten(value)
		records = append(records, rec)
		idx = end + 1
	}
	return records
}

func skippable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.Trim(trimmed, "-") == ""
}

// readBlock returns the parsed value, the trimmed raw text and the inclusive
// end line of the block starting at start.
//
// Only container starts can span lines: a JSON scalar can never contain a raw
// newline, and once the top-level container closes without parsing no longer
// block can parse either. Both cases skip straight to the fallback, which
// produces the same record as trying every extension.
func readBlock(lines []string, start int) (any, string, int) {
	first := strings.TrimSpace(lines[start])
	switch first[0] {
	case '{', '[':
		var shape jsonShape
		var block strings.Builder
		for end := start; end < len(lines); end++ {
			if end > start {
				block.WriteByte('\n')
				shape.feed("\n")
			}
			block.WriteString(lines[end])
			if !shape.feed(lines[end]) {
				continue
			}
			trimmed := strings.TrimSpace(block.String())
			if value, ok := parseJSON(trimmed); ok {
				return value, trimmed, end
			}
			break
		}
	case '"', '-', 't', 'f', 'n', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if value, ok := parseJSON(first); ok {
			return value, first, start
		}
	}
	return fallback(lines, start)
}

func fallback(lines []string, start int) (any, string, int) {
	raw := strings.TrimSpace(strings.Join(lines[start:], "\n"))
	return map[string]any{KeyMessage: raw}, raw, len(lines) - 1
}

func parseJSON(text string) (any, bool) {
	if !json.Valid([]byte(text)) {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return value, true
}

// jsonShape tracks bracket depth outside of strings across appended text.
type jsonShape struct {
	depth   int
	inStr   bool
	escaped bool
	closed  bool
}

// feed consumes text and reports whether the top-level container has closed.
func (s *jsonShape) feed(text string) bool {
	for i := 0; i < len(text) && !s.closed; i++ {
		c := text[i]
		if s.inStr {
			switch {
			case s.escaped:
				s.escaped = false
			case c == '\\':
				s.escaped = true
			case c == '"':
				s.inStr = false
			}
			continue
		}
		switch c {
		case '"':
			s.inStr = true
		case '{', '[':
			s.depth++
		case '}', ']':
			s.depth--
			if s.depth <= 0 {
				s.closed = true
			}
		}
	}
	return s.closed
}

// PrettyJSON indents raw when it is valid JSON and returns it unchanged
// otherwise, along with the resulting line count.
func PrettyJSON(raw string) (string, int) {
	text := raw
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(raw), "", "  "); err == nil {
		text = out.String()
	}
	return text, strings.Count(text, "\n") + 1
}
