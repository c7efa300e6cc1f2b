package hash

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rowlist/types"
)

func TestFingerprint(t *testing.T) {
	rows := []types.Row{
		{ID: 1, DisplayName: "Ann", SectionKey: "A"},
		{ID: 2, DisplayName: "Bob", SectionKey: "B", Starred: true},
	}
	base := Fingerprint(rows, []string{"A", "B"}, []int{1, 1})

	t.Run("stable for equal content", func(t *testing.T) {
		again := Fingerprint([]types.Row{rows[0], rows[1]}, []string{"A", "B"}, []int{1, 1})
		require.Equal(t, base, again)
	})

	t.Run("payload is ignored", func(t *testing.T) {
		withPayload := []types.Row{rows[0], rows[1]}
		withPayload[0].Payload = types.ContactData{PhotoURI: "content://1"}
		require.Equal(t, base, Fingerprint(withPayload, []string{"A", "B"}, []int{1, 1}))
	})

	t.Run("changes with identity and order", func(t *testing.T) {
		swapped := []types.Row{rows[1], rows[0]}
		require.NotEqual(t, base, Fingerprint(swapped, []string{"A", "B"}, []int{1, 1}))

		starred := []types.Row{rows[0], rows[1]}
		starred[1].Starred = false
		require.NotEqual(t, base, Fingerprint(starred, []string{"A", "B"}, []int{1, 1}))
	})

	t.Run("changes with sections", func(t *testing.T) {
		require.NotEqual(t, base, Fingerprint(rows, []string{"A"}, []int{2}))
		require.NotEqual(t, base, Fingerprint(rows, nil, nil))
	})

	t.Run("string boundaries are unambiguous", func(t *testing.T) {
		a := Fingerprint([]types.Row{{ID: 1, SectionKey: "AB", DisplayName: "C"}}, nil, nil)
		b := Fingerprint([]types.Row{{ID: 1, SectionKey: "A", DisplayName: "BC"}}, nil, nil)
		require.NotEqual(t, a, b)
	})
}

func TestSnapshot(t *testing.T) {
	require.Zero(t, Snapshot(nil))

	s := types.NewSnapshot([]types.Row{{ID: 3}}).WithSections([]string{"C"}, []int{1})
	require.Equal(t, Fingerprint(s.Rows(), []string{"C"}, []int{1}), Snapshot(s))
	require.Equal(t, uint64(7), Snapshot(s.WithFingerprint(7)))
}
