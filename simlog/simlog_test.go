package simlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogfWritesToInjectedWriter(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(&buf)
	defer SetLogWriter(nil)

	Logf("tick %d particles=%d", 3, 42)

	if got := buf.String(); !strings.Contains(got, "tick 3 particles=42") {
		t.Errorf("Logf output = %q, want it to contain the formatted message", got)
	}
}

func TestSetLogWriterNilRestoresDefault(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(&buf)
	SetLogWriter(nil)

	Logf("hello")

	if buf.Len() != 0 {
		t.Errorf("writer still pointed at buf after SetLogWriter(nil): %q", buf.String())
	}
}
