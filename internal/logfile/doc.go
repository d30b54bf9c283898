// Package logfile provides zero-copy line access to log files on disk.
//
// # Overview
//
// Log files produced by the smooai loggers are append-only, frequently large,
// and often styled with terminal escape sequences. This package maps a file
// read-only into memory, records where each line lives, and only turns bytes
// into text when a line is sanitized.
//
// # Core Functionality
//
//  1. Map: Memory-map a file read-only (falls back to a plain read on
//     platforms without mmap)
//  2. ScanLines: One forward pass producing LineHeader records
//  3. Sanitize/SanitizeLines: Strip ANSI escapes and trailing carriage
//     returns, decoding invalid UTF-8 lossily
//  4. Read: All of the above for one path, returning the sanitized lines
//
// Example usage:
//
//	lines, err := logfile.Read("/repo/.smooai-logs/output.ansi")
//	if err != nil {
//		slog.Warn("read failed", "err", err)
//	}
//
// # Line Boundaries
//
// ScanLines only stores (offset, length) pairs. Empty stretches such as
// "\n\n" produce no header at all, so line indexes count non-empty lines.
// Trailing bytes without a final newline still form a line.
//
// # Escape Handling
//
// On ESC followed by '[' or ']', bytes are skipped up to and including the
// first byte in 0x40..0x7E. An escape with no terminator swallows the rest of
// the line. A bare ESC is dropped and the following byte is kept.
//
// # Error Handling
//
// Map and Read return wrapped errors for open, stat and mmap failures. A page
// fault while reading a mapped file (for example when the file is truncated
// underneath the mapping) is recovered and reported as an error rather than
// crashing the process.
package logfile
