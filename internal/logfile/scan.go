package logfile

// LineHeader locates one line inside a mapped buffer.
type LineHeader struct {
	Offset uint64
	Length uint32
}

// End returns the offset one past the last byte of the line.
func (h LineHeader) End() uint64 {
	return h.Offset + uint64(h.Length)
}

// ScanLines walks buf once and returns a header for every non-empty line.
func ScanLines(buf []byte) []LineHeader {
	headers := make([]LineHeader, 0, 1024)
	start := 0
	for idx, b := range buf {
		if b != '\n' {
			continue
		}
		if idx > start {
			headers = append(headers, LineHeader{Offset: uint64(start), Length: uint32(idx - start)})
		}
		start = idx + 1
	}
	if start < len(buf) {
		headers = append(headers, LineHeader{Offset: uint64(start), Length: uint32(len(buf) - start)})
	}
	return headers
}
