// internal/tui/terminal.go
//
// Terminal width detection and text truncation.

package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	DefaultWidth = 80
	minWidth     = 20
)

// Width returns the column count of w when it is a terminal.
// Anything else, or a failed query, gives DefaultWidth.
func Width(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < minWidth {
		return DefaultWidth
	}
	return width
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
