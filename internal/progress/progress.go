// Package progress provides CLI feedback for long-running media work.
// Output goes to stderr to keep stdout clean for piping, and TTY
// detection ensures nothing is emitted into scripted or redirected runs.
package progress

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Spinner provides visual feedback for indeterminate operations, such as
// waiting on an ffmpeg re-composition whose duration is unknown.
type Spinner struct {
	w       io.Writer
	label   string
	frame   int
	isTTY   bool
	frames  []string
	running bool
}

// NewSpinner creates a spinner that writes to stderr.
func NewSpinner(label string) *Spinner {
	return &Spinner{
		w:      os.Stderr,
		label:  label,
		isTTY:  term.IsTerminal(int(os.Stderr.Fd())),
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start displays the spinner.
func (s *Spinner) Start() {
	if !s.isTTY {
		return
	}
	s.running = true
	fmt.Fprintf(s.w, "%s %s...", s.frames[0], s.label)
}

// Tick advances the spinner animation by one frame.
func (s *Spinner) Tick() {
	if !s.isTTY || !s.running {
		return
	}
	s.frame = (s.frame + 1) % len(s.frames)
	fmt.Fprintf(s.w, "\r%s %s...", s.frames[s.frame], s.label)
}

// Stop clears the spinner line.
func (s *Spinner) Stop() {
	if !s.isTTY || !s.running {
		return
	}
	s.running = false
	fmt.Fprintf(s.w, "\r%s\r", "                                        ")
}
