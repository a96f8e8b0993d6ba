package cli

import (
	"fmt"
	"os"

	"github.com/gosuri/uiprogress"

	"github.com/ppiankov/morphcorp/internal/model"
)

// progress is a per-stage bar on stderr. A nil progress is a no-op.
type progress struct {
	ui  *uiprogress.Progress
	bar *uiprogress.Bar
}

func newProgress(enabled bool, stage model.Stage, total int) *progress {
	if !enabled || total <= 0 {
		return nil
	}

	ui := uiprogress.New()
	ui.SetOut(os.Stderr)

	bar := ui.AddBar(total)
	bar.AppendCompleted()
	bar.PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("%-9s %d/%d", stage, b.Current(), total)
	})

	ui.Start()
	return &progress{ui: ui, bar: bar}
}

// Incr advances the bar by one finished document.
func (p *progress) Incr(int, error) {
	if p == nil {
		return
	}
	p.bar.Incr()
}

// Stop renders the final state and stops refreshing.
func (p *progress) Stop() {
	if p == nil {
		return
	}
	p.ui.Stop()
}
