package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// StatusLine displays a live right-aligned "<label> (X.Xs)" timer while a
// long running step executes. Updates at 30Hz on a terminal and does
// nothing when output is piped or redirected.
type StatusLine struct {
	output io.Writer
	isTTY  bool
	width  int
	ticker *time.Ticker
	start  time.Time
	done   chan struct{}

	mu      sync.Mutex
	label   string
	stopped bool
}

// NewStatusLine creates a status line using DefaultTTYDetector
func NewStatusLine(output io.Writer, label string) *StatusLine {
	return NewStatusLineWithDetector(output, label, DefaultTTYDetector)
}

// NewStatusLineWithDetector creates a status line using the given TTY detector
func NewStatusLineWithDetector(output io.Writer, label string, detector TTYDetector) *StatusLine {
	isTTY := detector.IsTTY(output)
	width := 120
	if isTTY {
		if w, _, err := detector.GetSize(output); err == nil && w > 0 {
			width = w
		}
	}

	s := &StatusLine{
		output: output,
		isTTY:  isTTY,
		width:  width,
		start:  time.Now(),
		done:   make(chan struct{}),
		label:  label,
	}

	if isTTY {
		s.ticker = time.NewTicker(33 * time.Millisecond)
		go s.updateLoop()
	}

	return s
}

func (s *StatusLine) updateLoop() {
	for {
		select {
		case <-s.ticker.C:
			s.update()
		case <-s.done:
			return
		}
	}
}

func (s *StatusLine) update() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	_, _ = io.WriteString(s.output, s.render())
}

// render positions the status at the right edge with the cursor hidden,
// then returns the cursor to the start of the line.
func (s *StatusLine) render() string {
	status := fmt.Sprintf("%s (%.1fs)", s.label, time.Since(s.start).Seconds())
	column := min(s.width, 120)
	return fmt.Sprintf("\x1B[?25l\x1B[%dG\x1B[%dD%s\r\x1B[?25h", column, len(status), status)
}

// SetLabel changes the text shown before the timer
func (s *StatusLine) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}

// Stop stops the updater and clears the status line.
// Safe to call multiple times
func (s *StatusLine) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
	}

	if s.isTTY {
		_, _ = io.WriteString(s.output, "\x1B[K")
	}
}

// Elapsed returns the elapsed time since start
func (s *StatusLine) Elapsed() time.Duration {
	return time.Since(s.start)
}

// IsTTY returns true if output is a terminal
func (s *StatusLine) IsTTY() bool {
	return s.isTTY
}
