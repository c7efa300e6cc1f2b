package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	rowlisttest "github.com/arloliu/rowlist/testing"
	"github.com/arloliu/rowlist/types"
)

func TestStatic(t *testing.T) {
	ctx := t.Context()

	empty := NewStatic(nil)
	snap, err := empty.LoadRows(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Equal(t, 0, snap.Len())

	first := Build(rowlisttest.Contacts(1, "Alice"), BuildOptions{})
	src := NewStatic(first)
	snap, err = src.LoadRows(ctx)
	require.NoError(t, err)
	require.Same(t, first, snap)

	second := Build(rowlisttest.Contacts(1, "Alice", "Bob"), BuildOptions{})
	src.Update(second)
	snap, err = src.LoadRows(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())
}

func TestFunc(t *testing.T) {
	boom := errors.New("boom")
	src := Func(func(context.Context) (*types.Snapshot, error) {
		return nil, boom
	})

	_, err := src.LoadRows(t.Context())
	require.ErrorIs(t, err, boom)
}

func starredOnly(r types.Row) bool { return r.Starred }

func TestFiltered(t *testing.T) {
	rows := rowlisttest.Contacts(1, "Carl", "Anna", "Bob")
	rows[0].Starred = true
	rows[1].Starred = true

	src := NewFiltered(NewStatic(Build(rows, BuildOptions{})), starredOnly, BuildOptions{})

	snap, err := src.LoadRows(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"Anna", "Carl"}, names(snap))

	titles, counts := snap.Sections()
	require.Equal(t, []string{"A", "C"}, titles)
	require.Equal(t, []int{1, 1}, counts)

	t.Run("propagates errors", func(t *testing.T) {
		boom := errors.New("boom")
		failing := NewFiltered(Func(func(context.Context) (*types.Snapshot, error) {
			return nil, boom
		}), starredOnly, BuildOptions{})

		_, err := failing.LoadRows(t.Context())
		require.ErrorIs(t, err, boom)
	})

	t.Run("not watchable", func(t *testing.T) {
		err := src.Watch(t.Context(), func(*types.Snapshot) {})
		require.ErrorIs(t, err, ErrNotWatchable)
		require.ErrorIs(t, err, types.ErrWatcherFailed)
	})
}

// pushSource delivers every snapshot sent on its channel.
type pushSource struct {
	Static
	updates chan *types.Snapshot
}

func newPushSource() *pushSource {
	return &pushSource{updates: make(chan *types.Snapshot)}
}

func (p *pushSource) Watch(ctx context.Context, deliver func(*types.Snapshot)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-p.updates:
			deliver(snap)
		}
	}
}

func TestFiltered_Watch(t *testing.T) {
	push := newPushSource()
	src := NewFiltered(push, starredOnly, BuildOptions{})

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	got := make(chan *types.Snapshot, 1)
	done := make(chan error, 1)
	go func() {
		done <- src.Watch(ctx, func(snap *types.Snapshot) { got <- snap })
	}()

	rows := rowlisttest.Contacts(1, "Anna", "Bob")
	rows[1].Starred = true
	push.updates <- Build(rows, BuildOptions{})

	select {
	case snap := <-got:
		require.Equal(t, []string{"Bob"}, names(snap))
	case <-time.After(5 * time.Second):
		t.Fatal("no filtered delivery")
	}

	cancel()
	require.NoError(t, <-done)
}
