package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/brogergvhs/tocpdf/internal/chapters"
	"github.com/brogergvhs/tocpdf/internal/fragments"
)

type collectState struct {
	mu      sync.Mutex
	skipped []chapters.Chapter
}

// collect writes a fragment for every selected chapter. Without SkipBroken
// the first failing chapter stops the collection.
func (d *Driver) collect(ctx context.Context, selected []chapters.Chapter, ws *fragments.Workspace, res *Result) error {
	d.progress.Start(len(selected))
	defer d.progress.Finish()

	st := &collectState{}
	defer func() {
		sort.Slice(st.skipped, func(i, j int) bool { return st.skipped[i].Index < st.skipped[j].Index })
		res.Skipped = st.skipped
	}()

	workers := max(1, d.opts.Workers)
	if workers > len(selected) {
		workers = len(selected)
	}

	if workers == 1 {
		for _, ch := range selected {
			if err := d.process(ctx, ch, ws, st); err != nil {
				return err
			}
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		errOnce  sync.Once
		firstErr error
	)

	jobs := make(chan chapters.Chapter)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for ch := range jobs {
			if err := d.process(ctx, ch, ws, st); err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}
	}

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go worker()
	}

feed:
	for _, ch := range selected {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- ch:
		}
	}

	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	return ctx.Err()
}

func (d *Driver) process(ctx context.Context, ch chapters.Chapter, ws *fragments.Workspace, st *collectState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := d.chapter(ctx, ch)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.opts.SkipBroken {
			return fmt.Errorf("chapter %d: %w", ch.Index+1, err)
		}

		d.log.Warnf("Skipping chapter %d: %v\n", ch.Index+1, err)

		st.mu.Lock()
		st.skipped = append(st.skipped, ch)
		d.progress.Skipped()
		st.mu.Unlock()

		return nil
	}

	if _, err := ws.Write(ch, data); err != nil {
		return err
	}

	st.mu.Lock()
	d.progress.Written(ws.Bytes())
	st.mu.Unlock()

	return nil
}
