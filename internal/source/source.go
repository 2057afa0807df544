// Package source describes one crawl job: the output name and the
// table-of-contents URL it starts from.
package source

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidEntryURL = errors.New("entry URL must be absolute")

type Descriptor struct {
	Name     string
	EntryURL string
	Origin   string
}

func New(name, entryURL string) (Descriptor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Descriptor{}, errors.New("source name cannot be empty")
	}

	u, err := url.Parse(strings.TrimSpace(entryURL))
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrInvalidEntryURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidEntryURL, entryURL)
	}

	return Descriptor{
		Name:     name,
		EntryURL: u.String(),
		Origin:   u.Scheme + "://" + u.Host,
	}, nil
}

// Resolve makes href absolute against the origin. Hrefs that already carry
// a scheme are returned unchanged.
func (d Descriptor) Resolve(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "http") {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return d.join(href)
	}
	if ref.IsAbs() {
		return href
	}

	base, err := url.Parse(d.Origin + "/")
	if err != nil {
		return d.join(href)
	}

	return base.ResolveReference(ref).String()
}

// join is the fallback for hrefs net/url rejects.
func (d Descriptor) join(href string) string {
	return d.Origin + "/" + strings.TrimPrefix(href, "/")
}
