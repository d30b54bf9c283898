package logfile

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
)

// Mapping is a read-only view of a file's bytes.
type Mapping struct {
	path  string
	data  []byte
	unmap func([]byte) error
}

// Map opens path and maps its current contents read-only.
func Map(path string) (*Mapping, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("map log %s: is a directory", path)
	}
	size := info.Size()
	if size == 0 {
		return &Mapping{path: path}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("map log %s: file too large (%d bytes)", path, size)
	}

	data, unmap, err := mapFile(file, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap log: %w", err)
	}
	return &Mapping{path: path, data: data, unmap: unmap}, nil
}

// Path returns the mapped file's path.
func (m *Mapping) Path() string {
	return m.path
}

// Bytes returns the mapped contents. The slice is invalid after Close.
func (m *Mapping) Bytes() []byte {
	if m == nil {
		return nil
	}
	return m.data
}

// Close releases the mapping.
func (m *Mapping) Close() error {
	if m == nil || m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	if m.unmap == nil {
		return nil
	}
	if err := m.unmap(data); err != nil {
		return fmt.Errorf("unmap log: %w", err)
	}
	return nil
}

var errFault = errors.New("fault while reading mapped file")

// Read maps path, scans it, and returns its sanitized lines.
func Read(path string) (lines []string, err error) {
	m, err := Map(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = fmt.Errorf("read log %s: %w: %v", path, errFault, r)
		}
	}()

	buf := m.Bytes()
	return SanitizeLines(buf, ScanLines(buf)), nil
}
