// Package render merges ordered HTML fragments into one PDF through an
// external engine: the wkhtmltopdf binary or a headless Chrome.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRenderer = errors.New("unknown renderer")
	ErrNoInput         = errors.New("no input files to render")
)

const (
	Wkhtmltopdf = "wkhtmltopdf"
	Chrome      = "chrome"
)

type Renderer interface {
	Render(ctx context.Context, files []string, output string, opts Options) error
}

type Logger interface {
	Debugf(string, ...any)
}

// New returns the renderer for name. bin overrides the executable path.
func New(name, bin string, log Logger) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Wkhtmltopdf:
		return NewWkhtmltopdf(bin), nil
	case Chrome:
		return NewChrome(bin, log), nil
	default:
		return nil, fmt.Errorf("%w: %q (use %s or %s)", ErrUnknownRenderer, name, Wkhtmltopdf, Chrome)
	}
}
