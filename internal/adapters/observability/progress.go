package observability

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/ghalamif/ViewPulse/internal/ports"
)

// ProgressBar reports assembled rows on a terminal progress bar.
type ProgressBar struct {
	w           io.Writer
	description string

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func NewProgressBar(w io.Writer, description string) *ProgressBar {
	return &ProgressBar{w: w, description: description}
}

func (p *ProgressBar) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(p.description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(0),
	)
}

func (p *ProgressBar) Advance() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
		_, _ = io.WriteString(p.w, "\n")
	}
}

var _ ports.Progress = (*ProgressBar)(nil)
