package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// fallbackWidth is assumed when stdout is not a terminal or its size
// cannot be read.
const fallbackWidth = 120

// DisplayContext captures the terminal geometry table rendering adapts to.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext probes stdout for its width.
func NewDisplayContext() *DisplayContext {
	fd := os.Stdout.Fd()
	ctx := &DisplayContext{TermWidth: fallbackWidth, IsTTY: term.IsTerminal(fd)}
	if ctx.IsTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			ctx.TermWidth = w
		}
	}
	return ctx
}

// NewDisplayContextWithWidth pins the width, bypassing detection.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width, IsTTY: true}
}
