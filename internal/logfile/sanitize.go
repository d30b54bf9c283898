package logfile

import (
	"bytes"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
)

const escape = 0x1B

// Sanitize returns the displayable text of the line at h.
func Sanitize(buf []byte, h LineHeader) string {
	clean := StripANSI(buf[h.Offset:h.End()])
	if n := len(clean); n > 0 && clean[n-1] == '\r' {
		clean = clean[:n-1]
	}
	return decodeLossy(clean)
}

// SanitizeLines sanitizes every header in order.
func SanitizeLines(buf []byte, headers []LineHeader) []string {
	lines := make([]string, len(headers))
	for i, h := range headers {
		lines[i] = Sanitize(buf, h)
	}
	return lines
}

// StripANSI removes CSI and OSC escape sequences from b. The input is
// returned as-is when it contains no escape byte.
func StripANSI(b []byte) []byte {
	if bytes.IndexByte(b, escape) < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		if b[i] != escape {
			out = append(out, b[i])
			i++
			continue
		}
		i++
		if i < len(b) && (b[i] == '[' || b[i] == ']') {
			i++
			for i < len(b) && (b[i] < 0x40 || b[i] > 0x7E) {
				i++
			}
			if i < len(b) {
				i++
			}
		}
	}
	return out
}

func decodeLossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := xunicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte(string(utf8.RuneError))))
	}
	return string(decoded)
}
