// Package terminal provides TTY detection and line clearing for interactive commands.
package terminal

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Width returns the stdout terminal width, or 80 when it is unknown.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// LinesUsed returns how many terminal rows textLength characters occupy at the given width.
func LinesUsed(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	n := int(math.Ceil(float64(textLength) / float64(width)))
	if n < 1 {
		n = 1
	}
	return n
}

// ClearPreviousLines erases a prompt and the answer typed after it, so secrets such as
// a database password do not stay on screen. textLength is prompt plus input length.
func ClearPreviousLines(w io.Writer, textLength int) {
	// The cursor sits on the new line created by Enter.
	linesToClear := LinesUsed(textLength, Width()) + 1

	for i := 0; i < linesToClear; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}
