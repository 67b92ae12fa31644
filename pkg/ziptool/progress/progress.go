// Package progress renders the inline percentage bar shown while an archive
// is being written.
package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Bar is a 0-100 percentage bar drawn in place on the terminal. It renders
// on stderr so piped stdout stays clean.
type Bar struct {
	bar *progressbar.ProgressBar
}

// New returns a bar labeled with description, writing to stderr.
func New(description string) *Bar {
	return NewWriter(os.Stderr, description)
}

// NewWriter returns a bar writing to w.
func NewWriter(w io.Writer, description string) *Bar {
	return &Bar{bar: progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)}
}

// SetPercent moves the bar to the given percentage, clamped to 0-100. Its
// signature matches the archive builder's progress callback.
func (b *Bar) SetPercent(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	_ = b.bar.Set(percent)
}

// Finish fills the bar and finalizes the line. Safe to call after a failed
// run; the bar simply completes its display.
func (b *Bar) Finish() {
	_ = b.bar.Finish()
}
