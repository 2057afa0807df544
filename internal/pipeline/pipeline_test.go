package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/tocpdf/internal/fetch"
	"github.com/brogergvhs/tocpdf/internal/providers/liaoxuefeng"
	"github.com/brogergvhs/tocpdf/internal/render"
	"github.com/brogergvhs/tocpdf/internal/source"
	"github.com/brogergvhs/tocpdf/internal/ui"
)

func menuHTML(n int) string {
	var b strings.Builder
	b.WriteString(`<html><body><ul class="uk-nav-side"><li><a href="/">home</a></li></ul><ul class="uk-nav-side">`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<li><a href="/wiki/c%d">chapter %d</a></li>`, i, i)
	}
	b.WriteString(`</ul></body></html>`)

	return b.String()
}

func chapterHTML(title string) string {
	return `<html><head><link rel="icon" href="/favicon.ico"><link rel="stylesheet" href="/a.css">` +
		`<link rel="stylesheet" href="/b.css"><link rel="stylesheet" href="/c.css"></head><body>` +
		`<h4>` + title + `</h4><div class="x-wiki-content"><p>` + title + ` body</p>` +
		`<img src="/img/` + title + `.png"><video src="/v.mp4"></video></div></body></html>`
}

type stubSite struct {
	srv    *httptest.Server
	broken map[string]bool
}

func newStubSite(t *testing.T, chapters int) *stubSite {
	t.Helper()

	s := &stubSite{broken: map[string]bool{}}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/wiki/toc":
			_, _ = io.WriteString(w, menuHTML(chapters))
		case strings.HasPrefix(r.URL.Path, "/wiki/c"):
			if s.broken[r.URL.Path] {
				http.NotFound(w, r)
				return
			}
			_, _ = io.WriteString(w, chapterHTML(strings.TrimPrefix(r.URL.Path, "/wiki/")))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.srv.Close)

	return s
}

type fakeRenderer struct {
	mu       sync.Mutex
	calls    int
	files    []string
	contents [][]byte
	output   string
	err      error
}

func (f *fakeRenderer) Render(_ context.Context, files []string, output string, _ render.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.files = append([]string(nil), files...)
	f.output = output
	f.contents = nil
	for _, p := range files {
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		f.contents = append(f.contents, b)
	}

	if f.err != nil {
		return f.err
	}

	return os.WriteFile(output, []byte("%PDF-1.4"), 0o644)
}

type harness struct {
	site     *stubSite
	workDir  string
	outDir   string
	renderer *fakeRenderer
	log      *strings.Builder
}

func newHarness(t *testing.T, chapters int) *harness {
	t.Helper()

	return &harness{
		site:     newStubSite(t, chapters),
		workDir:  t.TempDir(),
		outDir:   t.TempDir(),
		renderer: &fakeRenderer{},
		log:      &strings.Builder{},
	}
}

func (h *harness) driver(t *testing.T, opts Options) *Driver {
	t.Helper()

	src, err := source.New("lxf-git", h.site.srv.URL+"/wiki/toc")
	require.NoError(t, err)

	log := ui.NewLoggerTo(h.log, true)
	opts.WorkDir = h.workDir
	opts.OutputDir = h.outDir
	opts.Render = render.DefaultOptions()

	return New(src, liaoxuefeng.New(src, log), fetch.New(h.site.srv.Client()), h.renderer, log, opts)
}

func htmlFiles(t *testing.T, dir string) []string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	require.NoError(t, err)

	return matches
}

func TestRun_RendersInMenuOrderAndCleansUp(t *testing.T) {
	h := newHarness(t, 2)

	res, err := h.driver(t, Options{}).Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.RenderErr)

	require.Equal(t, 1, h.renderer.calls)
	require.Equal(t, []string{
		filepath.Join(h.workDir, "0.html"),
		filepath.Join(h.workDir, "1.html"),
	}, h.renderer.files)
	require.Contains(t, string(h.renderer.contents[0]), "<h1>c0</h1>")
	require.Contains(t, string(h.renderer.contents[1]), "<h1>c1</h1>")
	require.Contains(t, string(h.renderer.contents[1]), `src="`+h.site.srv.URL+`/img/c1.png"`)
	require.NotContains(t, string(h.renderer.contents[0]), "<video")

	require.Equal(t, filepath.Join(h.outDir, "lxf-git.pdf"), res.Output)
	require.FileExists(t, res.Output)
	require.Empty(t, htmlFiles(t, h.workDir))
	require.Equal(t, 2, res.Written)
	require.Positive(t, res.Bytes)
	require.Contains(t, h.log.String(), "Total time:")
}

func TestRun_RenderFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, 2)
	h.renderer.err = errors.New("wkhtmltopdf exploded")

	res, err := h.driver(t, Options{}).Run(context.Background())
	require.NoError(t, err)
	require.EqualError(t, res.RenderErr, "wkhtmltopdf exploded")
	require.Empty(t, htmlFiles(t, h.workDir))
	require.Contains(t, h.log.String(), "Error during conversion: wkhtmltopdf exploded")
}

func TestRun_BrokenChapterAbortsAndCleansUp(t *testing.T) {
	h := newHarness(t, 3)
	h.site.broken["/wiki/c1"] = true

	_, err := h.driver(t, Options{}).Run(context.Background())
	require.Error(t, err)

	var se *fetch.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 0, h.renderer.calls)
	require.Empty(t, htmlFiles(t, h.workDir))
}

func TestRun_SkipBrokenContinues(t *testing.T) {
	h := newHarness(t, 3)
	h.site.broken["/wiki/c1"] = true

	res, err := h.driver(t, Options{SkipBroken: true}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Skipped, 1)
	require.Equal(t, 1, res.Skipped[0].Index)
	require.Equal(t, []string{
		filepath.Join(h.workDir, "0.html"),
		filepath.Join(h.workDir, "2.html"),
	}, h.renderer.files)
	require.Empty(t, htmlFiles(t, h.workDir))
}

func TestRun_AllChaptersBroken(t *testing.T) {
	h := newHarness(t, 1)
	h.site.broken["/wiki/c0"] = true

	_, err := h.driver(t, Options{SkipBroken: true}).Run(context.Background())
	require.ErrorIs(t, err, ErrNoFragments)
	require.Equal(t, 0, h.renderer.calls)
}

func TestRun_WorkersPreserveOrder(t *testing.T) {
	h := newHarness(t, 7)

	res, err := h.driver(t, Options{Workers: 3}).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, res.Written)

	require.Len(t, h.renderer.files, 7)
	for i, p := range h.renderer.files {
		require.Equal(t, filepath.Join(h.workDir, fmt.Sprintf("%d.html", i)), p)
		require.Contains(t, string(h.renderer.contents[i]), fmt.Sprintf("<h1>c%d</h1>", i))
	}
	require.Empty(t, htmlFiles(t, h.workDir))
}

func TestRun_WorkersAbortOnBrokenChapter(t *testing.T) {
	h := newHarness(t, 6)
	h.site.broken["/wiki/c4"] = true

	_, err := h.driver(t, Options{Workers: 3}).Run(context.Background())
	require.Error(t, err)
	require.Equal(t, 0, h.renderer.calls)
	require.Empty(t, htmlFiles(t, h.workDir))
}

func TestRun_IsIdempotent(t *testing.T) {
	h := newHarness(t, 3)

	_, err := h.driver(t, Options{}).Run(context.Background())
	require.NoError(t, err)
	first := h.renderer.contents

	_, err = h.driver(t, Options{}).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, h.renderer.contents)
}

func TestRun_RangeKeepsMenuIndex(t *testing.T) {
	h := newHarness(t, 4)

	res, err := h.driver(t, Options{Range: "2-3"}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Selected, 2)
	require.Equal(t, []string{
		filepath.Join(h.workDir, "1.html"),
		filepath.Join(h.workDir, "2.html"),
	}, h.renderer.files)
}

func TestRun_RepeatedListPositionsExportOnce(t *testing.T) {
	h := newHarness(t, 3)

	res, err := h.driver(t, Options{List: "1,1,2", Workers: 2}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Selected, 2)
	require.Equal(t, 2, res.Written)
	require.Equal(t, []string{
		filepath.Join(h.workDir, "0.html"),
		filepath.Join(h.workDir, "1.html"),
	}, h.renderer.files)
}

func TestRun_EmptySelection(t *testing.T) {
	h := newHarness(t, 2)

	_, err := h.driver(t, Options{List: "9"}).Run(context.Background())
	require.ErrorIs(t, err, ErrNoChapters)
}

func TestRun_DryRunTouchesNothing(t *testing.T) {
	h := newHarness(t, 2)

	res, err := h.driver(t, Options{DryRun: true}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Selected, 2)
	require.Equal(t, 0, h.renderer.calls)
	require.Empty(t, htmlFiles(t, h.workDir))
	require.NoFileExists(t, res.Output)
	require.Contains(t, h.log.String(), "/wiki/c1")
}

func TestRun_KeepFragments(t *testing.T) {
	h := newHarness(t, 2)

	_, err := h.driver(t, Options{KeepFragments: true}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, htmlFiles(t, h.workDir), 2)
}

func TestRun_MissingMenuIsFatal(t *testing.T) {
	h := newHarness(t, 0)

	src, err := source.New("x", h.site.srv.URL+"/nowhere")
	require.NoError(t, err)

	log := ui.NewLoggerTo(io.Discard, false)
	d := New(src, liaoxuefeng.New(src, log), fetch.New(h.site.srv.Client()), h.renderer, log, Options{WorkDir: h.workDir})

	_, err = d.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, 0, h.renderer.calls)
}

type cancelOnThirdFetch struct {
	inner  Fetcher
	cancel context.CancelFunc
	calls  int
}

func (c *cancelOnThirdFetch) Fetch(ctx context.Context, url string) (*fetch.Response, error) {
	c.calls++
	if c.calls == 3 {
		c.cancel()
	}

	return c.inner.Fetch(ctx, url)
}

func TestRun_CancellationCleansUp(t *testing.T) {
	h := newHarness(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := h.driver(t, Options{SkipBroken: true})
	d.fetcher = &cancelOnThirdFetch{inner: d.fetcher, cancel: cancel}

	_, err := d.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, h.renderer.calls)
	require.Empty(t, htmlFiles(t, h.workDir))
}

type recordingProgress struct {
	mu                      sync.Mutex
	total, written, skipped int
	bytes                   int64
	finished                bool
}

func (p *recordingProgress) Start(n int) { p.total = n }

func (p *recordingProgress) Written(b int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written++
	p.bytes = b
}

func (p *recordingProgress) Skipped() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skipped++
}

func (p *recordingProgress) Finish() { p.finished = true }

func TestRun_ReportsProgress(t *testing.T) {
	h := newHarness(t, 3)
	p := &recordingProgress{}

	_, err := h.driver(t, Options{}).WithProgress(p).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, p.total)
	require.Equal(t, 3, p.written)
	require.Equal(t, 0, p.skipped)
	require.Positive(t, p.bytes)
	require.True(t, p.finished)
}

func TestRun_ReportsSkippedChapters(t *testing.T) {
	h := newHarness(t, 3)
	h.site.broken["/wiki/c1"] = true
	p := &recordingProgress{}

	_, err := h.driver(t, Options{SkipBroken: true}).WithProgress(p).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, p.written)
	require.Equal(t, 1, p.skipped)
	require.True(t, p.finished)
}
