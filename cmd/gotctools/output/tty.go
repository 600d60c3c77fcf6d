package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// TTYDetector reports whether a writer is an interactive terminal. Colors and
// the live status line are only used on a terminal; tests replace it.
type TTYDetector interface {
	IsTTY(w io.Writer) bool

	// GetSize returns the terminal width and height in cells.
	GetSize(w io.Writer) (width, height int, err error)
}

// RealTTYDetector checks file descriptors with golang.org/x/term. Writers
// that are not *os.File are never terminals.
type RealTTYDetector struct{}

// IsTTY implements TTYDetector.
func (RealTTYDetector) IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// GetSize implements TTYDetector.
func (RealTTYDetector) GetSize(w io.Writer) (int, int, error) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, 0, os.ErrInvalid
	}
	return term.GetSize(int(f.Fd()))
}

// DefaultTTYDetector is used by the console and NewStatusLine.
var DefaultTTYDetector TTYDetector = RealTTYDetector{}
