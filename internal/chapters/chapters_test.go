package chapters

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func sample() []Chapter {
	return FromURLs([]string{"u0", "u1", "u2", "u3", "u4"})
}

func TestFromURLs_AssignsPositions(t *testing.T) {
	all := sample()
	require.Len(t, all, 5)
	for i, c := range all {
		require.Equal(t, i, c.Index)
	}
	require.Equal(t, "3.html", all[3].FragmentName())
	require.Equal(t, filepath.Join("tmp", "0.html"), all[0].FragmentPath("tmp"))
}

func TestFilter(t *testing.T) {
	all := sample()

	tests := []struct {
		name  string
		rng   string
		list  string
		want  []int
		empty bool
	}{
		{name: "no selection", want: []int{0, 1, 2, 3, 4}},
		{name: "range", rng: "2-4", want: []int{1, 2, 3}},
		{name: "range with spaces", rng: " 1 - 2 ", want: []int{0, 1}},
		{name: "range out of bounds", rng: "4-9", empty: true},
		{name: "reversed range", rng: "3-1", empty: true},
		{name: "malformed range", rng: "3", empty: true},
		{name: "list", list: "5, 1,x,,9", want: []int{4, 0}},
		{name: "list with repeats", list: "1,1,2,1", want: []int{0, 1}},
		{name: "range wins over list", rng: "1-1", list: "3", want: []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(all, tt.rng, tt.list)
			if tt.empty {
				require.Empty(t, got)
				return
			}

			idx := make([]int, len(got))
			for i, c := range got {
				idx[i] = c.Index
			}
			require.Equal(t, tt.want, idx)
		})
	}
}

func TestOutputPDF(t *testing.T) {
	require.Equal(t, "lxf-git.pdf", OutputPDF("lxf-git"))
	require.Equal(t, "Python_3_教程.pdf", OutputPDF("Python 3 教程"))
	require.Equal(t, "a_b.pdf", OutputPDF("a/b"))
	require.Equal(t, "output.pdf", OutputPDF("//"))
	require.Equal(t, filepath.Join("out", "x.pdf"), OutputPDFPath("out", "x"))
}
