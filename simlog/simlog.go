// Package simlog is the ambient logging sink every other package writes
// diagnostics through, grounded on the teacher's game/logging.go: a
// package-level Logf backed by an injectable io.Writer, defaulting to
// stdout. No structured logging library is introduced here, matching the
// teacher, which never reaches for one despite logging extensively.
package simlog

import (
	"fmt"
	"io"
)

// writer is the current log destination. A nil writer means stdout.
var writer io.Writer

// SetLogWriter redirects Logf's output. Passing nil restores stdout.
func SetLogWriter(w io.Writer) {
	writer = w
}

// Logf writes a formatted, newline-terminated log line.
func Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if writer != nil {
		fmt.Fprintln(writer, msg)
		return
	}
	fmt.Println(msg)
}
