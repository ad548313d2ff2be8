package passsync

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Progress reports how many secrets have been processed. On a terminal the
// counter is redrawn in place; otherwise one line is written per secret.
type Progress struct {
	w           io.Writer
	interactive bool
	logger      *zap.Logger
}

// NewProgress creates a counter writing to w.
func NewProgress(w io.Writer, logger *zap.Logger) *Progress {
	return &Progress{w: w, interactive: IsTerminal(w), logger: logger}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Step records that done of total secrets are processed.
func (p *Progress) Step(done, total int) {
	if p == nil {
		return
	}
	if p.interactive {
		fmt.Fprintf(p.w, "\r[%d/%d] Local passwords processed", done, total)
	} else {
		fmt.Fprintf(p.w, "[%d/%d] Local passwords processed\n", done, total)
	}
	p.logger.Debug("Local passwords processed", zap.Int("done", done), zap.Int("total", total))
}

// Finish ends the counter line.
func (p *Progress) Finish(total int) {
	if p == nil || !p.interactive {
		return
	}
	fmt.Fprintf(p.w, "\r[%d/%d] Local passwords processed\n", total, total)
}
