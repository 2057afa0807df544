package providers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/tocpdf/internal/fetch"
	"github.com/brogergvhs/tocpdf/internal/source"
)

type stubSite struct{ src source.Descriptor }

func (s stubSite) ParseMenu(*fetch.Response) ([]string, error) { return []string{s.src.Origin}, nil }
func (s stubSite) ParseBody(*fetch.Response) ([]byte, error)   { return nil, nil }

func TestNew_UsesRegisteredFactory(t *testing.T) {
	Register("Stub", func(src source.Descriptor, _ Logger) Site { return stubSite{src: src} })

	src, err := source.New("x", "http://example.com/toc")
	require.NoError(t, err)

	site, err := New("stub", src, nil)
	require.NoError(t, err)

	urls, err := site.ParseMenu(nil)
	require.NoError(t, err)
	require.Equal(t, []string{"http://example.com"}, urls)
	require.Contains(t, Names(), "stub")
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("nope", source.Descriptor{}, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownProvider))
}
