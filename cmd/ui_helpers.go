package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"sqlblock/cli/internal/terminal"

	"atomicgo.dev/cursor"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startSpinner shows an inline spinner on stderr while a block runs.
// It does nothing unless stderr is a terminal. The returned function stops the
// spinner and clears its line; it must be called before any result is printed.
func startSpinner(text string) func() {
	if !terminal.IsInteractive(os.Stderr) {
		return func() {}
	}
	hide := terminal.IsInteractive(os.Stdout)
	if hide {
		cursor.Hide()
	}
	stop := startInlineSpinner(os.Stderr, text, spinnerFrames, 100*time.Millisecond)
	return func() {
		stop()
		if hide {
			cursor.Show()
		}
	}
}

// startInlineSpinner draws frames followed by text on one line of w until stopped.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	var once sync.Once
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
			select {
			case <-stopCh:
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	return func() {
		once.Do(func() {
			close(stopCh)
			wg.Wait()
		})
	}
}
