package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/brogergvhs/tocpdf/internal/util"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ChapterBar is a single mpb bar counting processed chapters. Skipped
// chapters advance the bar and are reported next to the counter.
type ChapterBar struct {
	p   *mpb.Progress
	bar *mpb.Bar

	total   atomic.Int64
	written atomic.Int64
	skipped atomic.Int64
	bytes   atomic.Int64

	start    time.Time
	elapsed  atomic.Int64
	finished atomic.Bool
}

func NewChapterBar(out io.Writer, label string) *ChapterBar {
	b := &ChapterBar{
		p: mpb.New(
			mpb.WithWidth(52),
			mpb.WithOutput(out),
			mpb.WithRefreshRate(120*time.Millisecond),
		),
		start: time.Now(),
	}

	b.bar = b.p.New(
		0,
		mpb.BarStyle().Rbound("]"),
		mpb.PrependDecorators(decor.Name(label+"  ")),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.Any(b.counter, decor.WCSyncWidth),
			decor.Any(func(decor.Statistics) string {
				return " | " + util.HumanBytes(b.bytes.Load())
			}),
			decor.Any(b.clock),
		),
	)

	return b
}

func (b *ChapterBar) counter(decor.Statistics) string {
	s := fmt.Sprintf(" | %d/%d chapters", b.written.Load(), b.total.Load())
	if n := b.skipped.Load(); n > 0 {
		s += fmt.Sprintf(" (%d skipped)", n)
	}

	return s
}

func (b *ChapterBar) clock(decor.Statistics) string {
	if b.finished.Load() {
		return fmt.Sprintf(" | %ds", b.elapsed.Load())
	}

	return fmt.Sprintf(" | %ds", int(time.Since(b.start).Seconds()))
}

func (b *ChapterBar) Start(total int) {
	if b.finished.Load() {
		return
	}

	b.total.Store(int64(total))
	b.bar.SetTotal(int64(total), false)
}

// Written records one fragment; totalBytes is the size of all fragments
// written so far.
func (b *ChapterBar) Written(totalBytes int64) {
	if b.finished.Load() {
		return
	}

	b.written.Add(1)
	b.bytes.Store(totalBytes)
	b.bar.Increment()
}

func (b *ChapterBar) Skipped() {
	if b.finished.Load() {
		return
	}

	b.skipped.Add(1)
	b.bar.Increment()
}

// Finish completes the bar even after an abort, so Wait can return.
func (b *ChapterBar) Finish() {
	if b.finished.Swap(true) {
		return
	}

	b.elapsed.Store(int64(time.Since(b.start).Seconds()))
	b.bar.SetTotal(-1, true)
}

func (b *ChapterBar) Wait() {
	b.Finish()
	b.p.Wait()
}

// Counts reports written and skipped chapters.
func (b *ChapterBar) Counts() (written, skipped int64) {
	return b.written.Load(), b.skipped.Load()
}
