package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestLinesUsed(t *testing.T) {
	tests := []struct {
		length, width, want int
	}{
		{0, 80, 1},
		{80, 80, 1},
		{81, 80, 2},
		{100, 0, 2},
	}
	for _, tt := range tests {
		if got := LinesUsed(tt.length, tt.width); got != tt.want {
			t.Errorf("LinesUsed(%d, %d) = %d, want %d", tt.length, tt.width, got, tt.want)
		}
	}
}

func TestClearPreviousLines(t *testing.T) {
	var buf bytes.Buffer
	ClearPreviousLines(&buf, 10)

	out := buf.String()
	if got := strings.Count(out, "\x1b[2K"); got != 2 {
		t.Errorf("cleared %d lines, want 2", got)
	}
	if got := strings.Count(out, "\x1b[1A"); got != 1 {
		t.Errorf("moved up %d lines, want 1", got)
	}
}

func TestIsInteractiveNil(t *testing.T) {
	if IsInteractive(nil) {
		t.Error("nil file reported as terminal")
	}
}
