package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const defaultChromeTimeout = 2 * time.Minute

const pageBreak = "\n<div style=\"page-break-before: always\"></div>\n"

// ChromeRenderer prints the fragments with a headless Chrome driven by
// go-rod. Chrome prints a single page, so the fragments are merged into one
// document first with a page break between chapters.
type ChromeRenderer struct {
	Bin     string
	Timeout time.Duration
	log     Logger
}

func NewChrome(bin string, log Logger) *ChromeRenderer {
	return &ChromeRenderer{Bin: bin, Timeout: defaultChromeTimeout, log: log}
}

func (r *ChromeRenderer) Render(ctx context.Context, files []string, output string, opts Options) error {
	if len(files) == 0 {
		return ErrNoInput
	}

	req, err := printOptions(opts)
	if err != nil {
		return err
	}
	if opts.OutlineDepth > 0 {
		r.debugf("chrome renderer ignores outline depth %d\n", opts.OutlineDepth)
	}

	merged, err := mergeFragments(files)
	if err != nil {
		return err
	}

	book, err := os.CreateTemp(filepath.Dir(files[0]), "tocpdf-book-*.html")
	if err != nil {
		return fmt.Errorf("creating merged document: %w", err)
	}
	bookPath := book.Name()
	defer func() { _ = os.Remove(bookPath) }()

	if _, err := book.WriteString(merged); err != nil {
		_ = book.Close()
		return fmt.Errorf("writing merged document: %w", err)
	}
	if err := book.Close(); err != nil {
		return fmt.Errorf("closing merged document: %w", err)
	}

	data, err := r.print(ctx, bookPath, opts.CustomHeaders, req)
	if err != nil {
		return err
	}

	return os.WriteFile(output, data, 0644)
}

func (r *ChromeRenderer) print(ctx context.Context, path string, headers []Header, req *proto.PagePrintToPDF) ([]byte, error) {
	l := launcher.New().Context(ctx)
	if r.Bin != "" {
		l = l.Bin(r.Bin)
	}
	if os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching chrome: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to chrome: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if len(headers) > 0 {
		restore, err := page.SetExtraHeaders(headerDict(headers))
		if err != nil {
			return nil, fmt.Errorf("setting request headers: %w", err)
		}
		defer restore()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	r.debugf("chrome: loading %s\n", abs)
	if err := page.Navigate("file://" + filepath.ToSlash(abs)); err != nil {
		return nil, fmt.Errorf("loading merged document: %w", err)
	}
	if err := page.Timeout(r.Timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for page load: %w", err)
	}

	stream, err := page.PDF(req)
	if err != nil {
		return nil, fmt.Errorf("printing PDF: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading PDF stream: %w", err)
	}

	return data, nil
}

func (r *ChromeRenderer) debugf(format string, args ...any) {
	if r.log != nil {
		r.log.Debugf(format, args...)
	}
}

func printOptions(opts Options) (*proto.PagePrintToPDF, error) {
	w, h, err := paperInches(opts.PageSize)
	if err != nil {
		return nil, err
	}

	margins := make([]float64, 4)
	for i, m := range []string{opts.MarginTop, opts.MarginRight, opts.MarginBottom, opts.MarginLeft} {
		if m == "" {
			continue
		}
		if margins[i], err = inches(m); err != nil {
			return nil, err
		}
	}

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(w),
		PaperHeight:     floatPtr(h),
		MarginTop:       floatPtr(margins[0]),
		MarginRight:     floatPtr(margins[1]),
		MarginBottom:    floatPtr(margins[2]),
		MarginLeft:      floatPtr(margins[3]),
		PrintBackground: true,
	}, nil
}

func headerDict(headers []Header) []string {
	out := make([]string, 0, len(headers)*2)
	for _, h := range headers {
		out = append(out, h.Name, h.Value)
	}

	return out
}

// mergeFragments keeps the head of the first fragment and concatenates
// every body in order.
func mergeFragments(files []string) (string, error) {
	var head string
	bodies := make([]string, 0, len(files))

	for i, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("reading fragment: %w", err)
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
		if err != nil {
			return "", fmt.Errorf("parsing fragment %s: %w", f, err)
		}

		if i == 0 {
			if head, err = doc.Find("head").Html(); err != nil {
				return "", err
			}
		}

		body, err := doc.Find("body").Html()
		if err != nil {
			return "", err
		}
		bodies = append(bodies, strings.TrimSpace(body))
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(strings.TrimSpace(head))
	b.WriteString("\n</head>\n<body>\n")
	b.WriteString(strings.Join(bodies, pageBreak))
	b.WriteString("\n</body>\n</html>\n")

	return b.String(), nil
}

func floatPtr(v float64) *float64 {
	return &v
}
