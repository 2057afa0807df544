package chapters

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Chapter is one menu entry. Index is its zero-based position in the full
// menu and fixes its place in the rendered document.
type Chapter struct {
	Index int
	URL   string
}

func FromURLs(urls []string) []Chapter {
	out := make([]Chapter, len(urls))
	for i, u := range urls {
		out[i] = Chapter{Index: i, URL: u}
	}

	return out
}

func (c Chapter) FragmentName() string {
	return strconv.Itoa(c.Index) + ".html"
}

func (c Chapter) FragmentPath(dir string) string {
	return filepath.Join(dir, c.FragmentName())
}

var reUnderscore = regexp.MustCompile(`_+`)

func sanitize(s string) string {
	repl := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		" ", "_",
		":", "_",
	)
	s = repl.Replace(strings.TrimSpace(s))

	clean := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			clean = append(clean, r)
		}
	}
	s = reUnderscore.ReplaceAllString(string(clean), "_")

	return strings.Trim(s, "_.")
}

// OutputPDF returns the document file name for a source name.
func OutputPDF(name string) string {
	base := sanitize(name)
	if base == "" {
		base = "output"
	}

	return base + ".pdf"
}

func OutputPDFPath(dir, name string) string {
	return filepath.Join(dir, OutputPDF(name))
}
