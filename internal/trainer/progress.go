package trainer

import (
	"fmt"
	"math"
	"os"
	"sync/atomic"

	"github.com/gosuri/uiprogress"
	"github.com/gosuri/uiprogress/util/strutil"
	"github.com/mattn/go-isatty"
)

// roundBar draws a boosting progress bar on stderr. A nil *roundBar is a
// no-op.
type roundBar struct {
	p    *uiprogress.Progress
	bar  *uiprogress.Bar
	loss atomic.Uint64 // float64 bits, read by the render loop
}

// newRoundBar returns nil unless enabled and stderr is a terminal.
func newRoundBar(enabled bool, rounds int) *roundBar {
	if !enabled || rounds <= 0 {
		return nil
	}
	if fd := os.Stderr.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil
	}

	rb := &roundBar{p: uiprogress.New()}
	rb.p.Out = os.Stderr
	rb.bar = rb.p.AddBar(rounds).AppendCompleted()
	rb.bar.Width = 40
	rb.bar.PrependFunc(func(b *uiprogress.Bar) string {
		return strutil.Resize(fmt.Sprintf("round %d/%d logloss %.4f", b.Current(), rounds, math.Float64frombits(rb.loss.Load())), 36)
	})
	rb.p.Start()
	return rb
}

func (rb *roundBar) round(_ int, loss float64) {
	if rb == nil {
		return
	}
	rb.loss.Store(math.Float64bits(loss))
	rb.bar.Incr()
}

func (rb *roundBar) stop() {
	if rb == nil {
		return
	}
	rb.p.Stop()
}
