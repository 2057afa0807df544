package liaoxuefeng

import (
	"errors"

	"github.com/brogergvhs/tocpdf/internal/providers"
	"github.com/brogergvhs/tocpdf/internal/source"
)

const Name = "liaoxuefeng"

const (
	menuClass    = ".uk-nav-side"
	menuIndex    = 1
	contentClass = ".x-wiki-content"
)

var (
	ErrMenuNotFound        = errors.New("chapter menu not found")
	ErrContentNotFound     = errors.New("chapter content not found")
	ErrTitleNotFound       = errors.New("chapter title not found")
	ErrStylesheetsNotFound = errors.New("stylesheet links not found")
)

type Site struct {
	src source.Descriptor
	log providers.Logger
}

func New(src source.Descriptor, log providers.Logger) *Site {
	if log == nil {
		log = nopLogger{}
	}

	return &Site{src: src, log: log}
}

func init() {
	providers.Register(Name, func(src source.Descriptor, log providers.Logger) providers.Site {
		return New(src, log)
	})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
