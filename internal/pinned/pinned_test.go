package pinned

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rowlist/internal/section"
	"github.com/arloliu/rowlist/types"
)

func buildIndex(t *testing.T) *section.Index {
	t.Helper()

	// A placeholder at 0, B covers rows 0..2 (with two leading rows), C placeholder at 5
	idx, err := section.Build(
		section.Meta{Titles: []string{"B"}, Counts: []int{3}, Rows: 5, Leading: 2},
		section.Options{Alphabet: []string{"A", "B", "C"}},
	)
	require.NoError(t, err)

	return idx
}

func TestCompute(t *testing.T) {
	idx := buildIndex(t)

	t.Run("last row of a section is pushed up", func(t *testing.T) {
		s := Compute(idx, 4, nil)
		require.Equal(t, types.PushedUp, s.Visibility)
		require.Equal(t, "B", s.Label)
		require.Equal(t, types.MaxAlpha, s.Alpha)
		require.Equal(t, 0, s.Offset)
	})

	t.Run("middle of a section is visible", func(t *testing.T) {
		s := Compute(idx, 3, nil)
		require.Equal(t, types.Visible, s.Visibility)
		require.Equal(t, "B", s.Label)
		require.Equal(t, 1, s.Section)
		require.Equal(t, types.MaxAlpha, s.Alpha)
	})

	t.Run("outside indexed rows is gone", func(t *testing.T) {
		require.Equal(t, types.Gone, Compute(idx, 5, nil).Visibility)
		require.Equal(t, types.Gone, Compute(idx, -1, nil).Visibility)
	})

	t.Run("blank index is gone", func(t *testing.T) {
		s := Compute(section.Blank(3), 0, nil)
		require.Equal(t, types.Gone, s.Visibility)
		require.Equal(t, -1, s.Section)
	})

	t.Run("nil index is gone", func(t *testing.T) {
		require.Equal(t, types.Gone, Compute(nil, 0, nil).Visibility)
	})
}

func TestCompute_Fade(t *testing.T) {
	idx := buildIndex(t)

	cases := []struct {
		name   string
		geom   types.HeaderGeometry
		alpha  int
		offset int
	}{
		{"row fully below header", types.HeaderGeometry{HeaderHeight: 40, TopRowBottom: 60}, 255, 0},
		{"half pushed", types.HeaderGeometry{HeaderHeight: 40, TopRowBottom: 20}, 127, -20},
		{"fully pushed", types.HeaderGeometry{HeaderHeight: 40, TopRowBottom: 0}, 0, -40},
		{"clamped below zero", types.HeaderGeometry{HeaderHeight: 40, TopRowBottom: -5}, 0, -45},
		{"no header height", types.HeaderGeometry{TopRowBottom: 10}, 255, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Compute(idx, 4, &tc.geom)
			require.Equal(t, types.PushedUp, s.Visibility)
			require.Equal(t, tc.alpha, s.Alpha)
			require.Equal(t, tc.offset, s.Offset)
		})
	}

	t.Run("visible rows ignore geometry", func(t *testing.T) {
		s := Compute(idx, 2, &types.HeaderGeometry{HeaderHeight: 40, TopRowBottom: 1})
		require.Equal(t, types.Visible, s.Visibility)
		require.Equal(t, types.MaxAlpha, s.Alpha)
	})
}
