// Package progress reports per-frame worker progress on the terminal.
package progress

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/user/vidanim/pkg/ports"
)

// Bar is a terminal progress bar.
type Bar struct {
	bar *progressbar.ProgressBar
}

var _ ports.Progress = (*Bar)(nil)

// NewBar creates a bar labeled description writing to w. A total of 0 or
// less shows a spinner until SetTotal is called.
func NewBar(w io.Writer, description string, total int64) *Bar {
	if total <= 0 {
		total = -1
	}
	return &Bar{bar: progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)}
}

func (b *Bar) SetTotal(total int64) {
	if total > 0 {
		b.bar.ChangeMax64(total)
	}
}

func (b *Bar) Increment() {
	_ = b.bar.Add(1)
}

func (b *Bar) Finish() {
	_ = b.bar.Finish()
}

// Noop discards progress.
type Noop struct{}

var _ ports.Progress = Noop{}

func (Noop) SetTotal(int64) {}
func (Noop) Increment()     {}
func (Noop) Finish()        {}

// ForTerminal returns a Bar on stderr when stderr is a terminal and enabled
// is set, and Noop otherwise.
func ForTerminal(enabled bool, description string, total int64) ports.Progress {
	fd := os.Stderr.Fd()
	if !enabled || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		return Noop{}
	}
	return NewBar(os.Stderr, description, total)
}
