package providers

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/brogergvhs/tocpdf/internal/fetch"
	"github.com/brogergvhs/tocpdf/internal/source"
)

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrTransform       = errors.New("chapter transform failed")
)

// Site turns one tutorial site's pages into chapter URLs and fragments.
type Site interface {
	// ParseMenu returns the absolute chapter URLs in document order.
	ParseMenu(resp *fetch.Response) ([]string, error)
	// ParseBody returns one chapter as a standalone UTF-8 HTML document.
	ParseBody(resp *fetch.Response) ([]byte, error)
}

type Logger interface {
	Debugf(string, ...any)
	Infof(string, ...any)
}

type Factory func(src source.Descriptor, log Logger) Site

var registry = map[string]Factory{}

// Register makes a site adapter available under name. It is meant to be
// called from init functions.
func Register(name string, f Factory) {
	registry[strings.ToLower(name)] = f
}

func New(name string, src source.Descriptor, log Logger) (Site, error) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProvider, name, strings.Join(Names(), ", "))
	}

	return f(src, log), nil
}

func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
