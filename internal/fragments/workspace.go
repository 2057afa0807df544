// Package fragments owns the numbered HTML files handed to the renderer.
// Every file written through a Workspace is removed by Cleanup, which the
// pipeline defers so it runs on every exit path.
package fragments

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/brogergvhs/tocpdf/internal/chapters"
	"github.com/brogergvhs/tocpdf/internal/util"
)

type Workspace struct {
	dir  string
	keep bool

	mu    sync.Mutex
	files map[int]string
	bytes int64
}

func NewWorkspace(dir string, keep bool) (*Workspace, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating work dir: %w", err)
	}

	return &Workspace{
		dir:   dir,
		keep:  keep,
		files: make(map[int]string),
	}, nil
}

func (w *Workspace) Dir() string { return w.dir }

// Write stores one chapter's fragment as {index}.html.
func (w *Workspace) Write(ch chapters.Chapter, data []byte) (string, error) {
	if data == nil {
		return "", fmt.Errorf("fragment %d: no content", ch.Index)
	}

	path := ch.FragmentPath(w.dir)

	// registered before writing so a partial file is still cleaned up
	w.mu.Lock()
	w.files[ch.Index] = path
	w.mu.Unlock()

	if err := writeFile(path, data); err != nil {
		return "", fmt.Errorf("fragment %d: %w", ch.Index, err)
	}

	w.mu.Lock()
	w.bytes += int64(len(data))
	w.mu.Unlock()

	return path, nil
}

func writeFile(path string, data []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = f.Write(data)
	return err
}

// Paths returns the written fragments ordered by chapter index.
func (w *Workspace) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := make([]int, 0, len(w.files))
	for i := range w.files {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	out := make([]string, len(idx))
	for n, i := range idx {
		out[n] = w.files[i]
	}

	return out
}

func (w *Workspace) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.files)
}

func (w *Workspace) Bytes() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.bytes
}

// Cleanup removes every fragment unless the workspace keeps them.
func (w *Workspace) Cleanup() error {
	if w.keep {
		return nil
	}

	paths := w.Paths()

	w.mu.Lock()
	w.files = make(map[int]string)
	w.mu.Unlock()

	return errors.Join(util.RemoveFiles(paths)...)
}
