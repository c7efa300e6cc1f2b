package kvutil

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	rowlisttest "github.com/arloliu/rowlist/testing"
)

func TestEnsureBucket(t *testing.T) {
	_, nc := rowlisttest.StartEmbeddedNATS(t)

	ctx := t.Context()
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	t.Run("creates on first try", func(t *testing.T) {
		kv, err := EnsureBucket(ctx, js, jetstream.KeyValueConfig{Bucket: "contacts-1", History: 1}, 3)
		require.NoError(t, err)
		require.Equal(t, "contacts-1", kv.Bucket())
	})

	t.Run("opens an existing bucket", func(t *testing.T) {
		cfg := jetstream.KeyValueConfig{Bucket: "contacts-2", History: 1}

		_, err := js.CreateKeyValue(ctx, cfg)
		require.NoError(t, err)

		kv, err := EnsureBucket(ctx, js, cfg, 3)
		require.NoError(t, err)
		require.NotNil(t, kv)
	})

	t.Run("concurrent setup", func(t *testing.T) {
		cfg := jetstream.KeyValueConfig{Bucket: "contacts-3", History: 1}
		const workers = 10

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		kvs := make([]jetstream.KeyValue, workers)

		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()

				kv, err := EnsureBucket(ctx, js, cfg, 5)
				if err != nil {
					errs <- err
					return
				}
				kvs[i] = kv
			}()
		}

		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
		for i, kv := range kvs {
			require.NotNil(t, kv, "worker %d", i)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		shortCtx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		time.Sleep(time.Millisecond)

		_, err := EnsureBucket(shortCtx, js, jetstream.KeyValueConfig{Bucket: "contacts-4"}, 3)
		require.Error(t, err)
		require.Contains(t, err.Error(), "context")
	})
}

func TestJSON(t *testing.T) {
	_, nc := rowlisttest.StartEmbeddedNATS(t)
	kv := rowlisttest.CreateJetStreamKV(t, nc, "json")
	ctx := t.Context()

	type entry struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	rev, err := PutJSON(ctx, kv, "contact.1", entry{ID: 1, Name: "Alice"})
	require.NoError(t, err)
	require.Positive(t, rev)

	var got entry
	require.NoError(t, GetJSON(ctx, kv, "contact.1", &got))
	require.Equal(t, entry{ID: 1, Name: "Alice"}, got)

	err = GetJSON(ctx, kv, "contact.2", &got)
	require.ErrorIs(t, err, jetstream.ErrKeyNotFound)

	_, err = kv.Put(ctx, "contact.3", []byte("{"))
	require.NoError(t, err)
	require.Error(t, GetJSON(ctx, kv, "contact.3", &got))
}

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout", nats.ErrTimeout, true},
		{"wrapped closed", errors.Join(errors.New("load"), nats.ErrConnectionClosed), true},
		{"refused", errors.New("dial tcp: connection refused"), true},
		{"data error", jetstream.ErrKeyNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsConnectivityError(tt.err))
		})
	}
}
