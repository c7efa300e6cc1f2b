package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	rowlisttest "github.com/arloliu/rowlist/testing"
	"github.com/arloliu/rowlist/types"
)

const contactsYAML = `contacts:
  - id: 1
    name: Bob
    kind: phone
    value: "+1 555 0100"
    label: mobile
  - id: 2
    name: Alice
    starred: true
  - id: 3
`

func TestFile_LoadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contactsYAML), 0o600))

	logger := &rowlisttest.RecordingLogger{}
	src := NewFile(path, WithSourceLogger(logger))
	require.Equal(t, path, src.Path())

	snap, err := src.LoadRows(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"Alice", "Bob"}, names(snap))
	require.Equal(t, types.PhoneData{Number: "+1 555 0100", Label: "mobile"}, snap.At(1).Payload)
	require.Len(t, logger.Messages(), 1, "record without a name is skipped")

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFile(filepath.Join(t.TempDir(), "absent.yaml")).LoadRows(t.Context())
		require.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("contacts: [\n"), 0o600))
		_, err := NewFile(bad).LoadRows(t.Context())
		require.Error(t, err)
	})
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	records := []Record{
		{ID: 1, Name: "Alice", Starred: true},
		{ID: 2, Name: "Bob", Kind: types.KindEmail, Value: "bob@example.com"},
	}

	require.NoError(t, WriteFile(path, records))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, records, got)

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestFile_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	require.NoError(t, WriteFile(path, []Record{{ID: 1, Name: "Alice"}}))

	src := NewFile(path, WithDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(t.Context())
	got := make(chan *types.Snapshot, 64)
	done := make(chan error, 1)
	go func() {
		done <- src.Watch(ctx, func(snap *types.Snapshot) { got <- snap })
	}()

	// the watcher starts asynchronously; rewrite until a change is seen
	updated := []Record{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}
	require.Eventually(t, func() bool {
		if err := WriteFile(path, updated); err != nil {
			return false
		}
		select {
		case snap := <-got:
			return snap.Len() == 2
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestFile_WatchMissingDir(t *testing.T) {
	src := NewFile(filepath.Join(t.TempDir(), "absent", "contacts.yaml"))

	err := src.Watch(t.Context(), func(*types.Snapshot) {})
	require.ErrorIs(t, err, types.ErrWatcherFailed)
}
