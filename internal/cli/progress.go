package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/schollz/progressbar/v3"
)

const progressSteps = 100

// StageProgress draws one progress bar per pipeline stage. A new bar starts
// whenever the reported stage label changes.
type StageProgress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	label  string
	mu     sync.Mutex
}

// NewStageProgress creates a stage progress display on w.
func NewStageProgress(w io.Writer) *StageProgress {
	return &StageProgress{writer: w}
}

// Report moves the bar for label to fraction, clamped to [0, 1].
func (p *StageProgress) Report(label string, fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil || label != p.label {
		p.finishLocked()
		p.label = label
		p.bar = p.newBar(label)
	}

	fraction = min(max(fraction, 0), 1)
	if err := p.bar.Set(int(fraction * progressSteps)); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish completes the current bar, if any.
func (p *StageProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishLocked()
}

func (p *StageProgress) finishLocked() {
	if p.bar == nil {
		return
	}
	if !p.bar.IsFinished() {
		if err := p.bar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}
	p.bar = nil
}

func (p *StageProgress) newBar(label string) *progressbar.ProgressBar {
	return progressbar.NewOptions(progressSteps,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]%s[reset]", label)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
