// Package pipeline drives one export: fetch the menu, turn every chapter
// into a fragment file, render the fragments in menu order and remove them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/brogergvhs/tocpdf/internal/chapters"
	"github.com/brogergvhs/tocpdf/internal/fetch"
	"github.com/brogergvhs/tocpdf/internal/fragments"
	"github.com/brogergvhs/tocpdf/internal/providers"
	"github.com/brogergvhs/tocpdf/internal/render"
	"github.com/brogergvhs/tocpdf/internal/source"
)

var (
	ErrNoChapters  = errors.New("no chapters selected")
	ErrNoFragments = errors.New("no chapter could be transformed")
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Response, error)
}

type Logger interface {
	Debugf(string, ...any)
	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
}

// Progress receives one event per processed chapter.
type Progress interface {
	Start(total int)
	Written(totalBytes int64)
	Skipped()
	Finish()
}

type Options struct {
	WorkDir   string
	OutputDir string
	// Workers above 1 fetch chapters concurrently; output order is
	// unaffected.
	Workers       int
	Range         string
	List          string
	KeepFragments bool
	SkipBroken    bool
	DryRun        bool
	Render        render.Options
}

type Result struct {
	Selected  []chapters.Chapter
	Written   int
	Skipped   []chapters.Chapter
	Bytes     int64
	Output    string
	RenderErr error
	Elapsed   time.Duration
}

type Driver struct {
	src      source.Descriptor
	site     providers.Site
	fetcher  Fetcher
	renderer render.Renderer
	log      Logger
	progress Progress
	opts     Options
}

func New(
	src source.Descriptor,
	site providers.Site,
	f Fetcher,
	r render.Renderer,
	log Logger,
	opts Options,
) *Driver {
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	return &Driver{
		src:      src,
		site:     site,
		fetcher:  f,
		renderer: r,
		log:      log,
		progress: nopProgress{},
		opts:     opts,
	}
}

func (d *Driver) WithProgress(p Progress) *Driver {
	if p != nil {
		d.progress = p
	}

	return d
}

// Run performs the export. Fragment files are removed before Run returns on
// every path. A renderer failure is logged and reported in Result.RenderErr
// rather than returned.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{Output: chapters.OutputPDFPath(d.opts.OutputDir, d.src.Name)}

	defer func() {
		res.Elapsed = time.Since(start)
		d.log.Infof("Total time: %.2fs\n", res.Elapsed.Seconds())
	}()

	selected, err := d.menu(ctx)
	if err != nil {
		return res, err
	}
	res.Selected = selected

	if d.opts.DryRun {
		d.log.Infof("Dry-run: %d chapters selected\n", len(selected))
		for _, ch := range selected {
			d.log.Infof("%3d) %s\n", ch.Index+1, ch.URL)
		}
		return res, nil
	}

	ws, err := fragments.NewWorkspace(d.opts.WorkDir, d.opts.KeepFragments)
	if err != nil {
		return res, err
	}
	defer func() {
		if cerr := ws.Cleanup(); cerr != nil {
			d.log.Errorf("Removing fragments: %v\n", cerr)
		}
	}()

	collectErr := d.collect(ctx, selected, ws, res)
	res.Written = ws.Len()
	res.Bytes = ws.Bytes()
	if collectErr != nil {
		return res, collectErr
	}

	files := ws.Paths()
	if len(files) == 0 {
		return res, ErrNoFragments
	}

	if err := os.MkdirAll(d.opts.OutputDir, 0755); err != nil {
		return res, fmt.Errorf("cannot create output folder: %w", err)
	}

	d.log.Infof("Generating %s from %d chapters\n", res.Output, len(files))
	if err := d.renderer.Render(ctx, files, res.Output, d.opts.Render); err != nil {
		d.log.Errorf("Error during conversion: %v\n", err)
		res.RenderErr = err
	}

	return res, nil
}

func (d *Driver) menu(ctx context.Context) ([]chapters.Chapter, error) {
	d.log.Infof("Fetching %s\n", d.src.EntryURL)

	entry, err := d.fetcher.Fetch(ctx, d.src.EntryURL)
	if err != nil {
		return nil, err
	}

	urls, err := d.site.ParseMenu(entry)
	if err != nil {
		return nil, err
	}

	all := chapters.FromURLs(urls)
	selected := chapters.Filter(all, d.opts.Range, d.opts.List)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w (menu lists %d)", ErrNoChapters, len(all))
	}

	d.log.Infof("Found %d chapters, exporting %d\n", len(all), len(selected))

	return selected, nil
}

func (d *Driver) chapter(ctx context.Context, ch chapters.Chapter) ([]byte, error) {
	d.log.Debugf("Fetching chapter %d: %s\n", ch.Index+1, ch.URL)

	resp, err := d.fetcher.Fetch(ctx, ch.URL)
	if err != nil {
		return nil, err
	}

	return d.site.ParseBody(resp)
}

type nopProgress struct{}

func (nopProgress) Start(int)     {}
func (nopProgress) Written(int64) {}
func (nopProgress) Skipped()      {}
func (nopProgress) Finish()       {}
