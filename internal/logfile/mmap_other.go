//go:build !unix

package logfile

import (
	"io"
	"os"
)

func mapFile(file *os.File, size int) ([]byte, func([]byte) error, error) {
	data := make([]byte, size)
	n, err := io.ReadFull(file, data)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, nil, err
	}
	return data[:n], nil, nil
}
