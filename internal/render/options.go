package render

import (
	"fmt"
	"strconv"
	"strings"
)

type Header struct {
	Name  string
	Value string
}

// Options is the fixed page setup passed to every renderer.
type Options struct {
	PageSize     string
	MarginTop    string
	MarginRight  string
	MarginBottom string
	MarginLeft   string
	Encoding     string
	// CustomHeaders are sent by the renderer on its own page loads
	// (stylesheets, images), not by the fetcher.
	CustomHeaders []Header
	OutlineDepth  int
	Quiet         bool
}

func DefaultOptions() Options {
	return Options{
		PageSize:     "Letter",
		MarginTop:    "0.75in",
		MarginRight:  "0.75in",
		MarginBottom: "0.75in",
		MarginLeft:   "0.75in",
		Encoding:     "UTF-8",
		CustomHeaders: []Header{
			{Name: "Accept-Encoding", Value: "gzip,deflate,sdch"},
			{Name: "User-Agent", Value: "Mozilla/5.0 (Windows NT 6.3; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/56.0.2924.87 7Star/2.0.56.2 Safari/537.36"},
			{Name: "Accept", Value: "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"},
		},
		OutlineDepth: 10,
		Quiet:        true,
	}
}

// Args renders the options as wkhtmltopdf global flags.
func (o Options) Args() []string {
	var args []string

	add := func(flag, v string) {
		if v != "" {
			args = append(args, flag, v)
		}
	}

	add("--page-size", o.PageSize)
	add("--margin-top", o.MarginTop)
	add("--margin-right", o.MarginRight)
	add("--margin-bottom", o.MarginBottom)
	add("--margin-left", o.MarginLeft)
	add("--encoding", o.Encoding)

	for _, h := range o.CustomHeaders {
		args = append(args, "--custom-header", h.Name, h.Value)
	}

	if o.OutlineDepth > 0 {
		args = append(args, "--outline-depth", strconv.Itoa(o.OutlineDepth))
	}
	if o.Quiet {
		args = append(args, "--quiet")
	}

	return args
}

// paper sizes in inches
var paperSizes = map[string][2]float64{
	"letter": {8.5, 11},
	"legal":  {8.5, 14},
	"a4":     {8.27, 11.69},
	"a3":     {11.69, 16.54},
	"a5":     {5.83, 8.27},
}

func paperInches(size string) (w, h float64, err error) {
	s, ok := paperSizes[strings.ToLower(strings.TrimSpace(size))]
	if !ok {
		return 0, 0, fmt.Errorf("unsupported page size %q", size)
	}

	return s[0], s[1], nil
}

// inches converts a CSS-like length ("0.75in", "20mm", "2cm") to inches.
func inches(v string) (float64, error) {
	v = strings.TrimSpace(strings.ToLower(v))

	units := []struct {
		suffix string
		factor float64
	}{
		{"in", 1},
		{"mm", 1 / 25.4},
		{"cm", 1 / 2.54},
	}

	for _, u := range units {
		if num, ok := strings.CutSuffix(v, u.suffix); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid length %q: %w", v, err)
			}
			return f * u.factor, nil
		}
	}

	return 0, fmt.Errorf("invalid length %q: missing unit", v)
}
