package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/rowlist/internal/kvutil"
	"github.com/arloliu/rowlist/types"
)

// KeyPrefix prefixes the key of every contact record in a KV bucket.
const KeyPrefix = "contact."

// Key returns the KV key of the record with the given id.
func Key(id int64) string {
	return KeyPrefix + strconv.FormatInt(id, 10)
}

// KV is a row source over a NATS JetStream key-value bucket holding one JSON
// Record per key.
//
// Records that fail to decode are skipped with a warning. Watch reloads the
// whole bucket after changes settle and restarts the watcher with jittered
// backoff when its stream ends.
type KV struct {
	kv   jetstream.KeyValue
	opts sourceOptions
}

var (
	_ types.RowSource = (*KV)(nil)
	_ Watcher         = (*KV)(nil)
)

// NewKV creates a source over an open bucket.
//
// Parameters:
//   - kv: JetStream KeyValue bucket
//   - opts: Build, watch and logging options
//
// Returns:
//   - *KV: KV source
func NewKV(kv jetstream.KeyValue, opts ...SourceOption) *KV {
	return &KV{kv: kv, opts: newSourceOptions(opts)}
}

// OpenKV creates or opens the bucket described by cfg and returns a source
// over it.
//
// Parameters:
//   - ctx: Context for bucket setup
//   - js: JetStream context
//   - cfg: Bucket configuration (History defaults to 1)
//   - retries: Setup attempts (kvutil.DefaultRetries when <= 0)
//   - opts: Build, watch and logging options
//
// Returns:
//   - *KV: KV source
//   - error: Bucket setup error
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	contacts, err := source.OpenKV(ctx, js, jetstream.KeyValueConfig{Bucket: "contacts"}, 3)
//	if err != nil {
//	    return err
//	}
//	loader, err := source.NewLoader(adapter, source.WithSource("contacts", contacts))
func OpenKV(
	ctx context.Context,
	js jetstream.JetStream,
	cfg jetstream.KeyValueConfig,
	retries int,
	opts ...SourceOption,
) (*KV, error) {
	if cfg.History == 0 {
		cfg.History = 1
	}
	if cfg.Description == "" {
		cfg.Description = "rowlist contact records"
	}

	kv, err := kvutil.EnsureBucket(ctx, js, cfg, retries)
	if err != nil {
		return nil, err
	}

	return NewKV(kv, opts...), nil
}

// Bucket returns the bucket name.
func (k *KV) Bucket() string {
	return k.kv.Bucket()
}

// LoadRows reads every record of the bucket.
//
// Returns:
//   - *types.Snapshot: Sorted snapshot of the valid records (empty for an empty bucket)
//   - error: Bucket read error
func (k *KV) LoadRows(ctx context.Context) (*types.Snapshot, error) {
	records, err := k.Records(ctx)
	if err != nil {
		return nil, err
	}

	rows, errs := Rows(records)
	for _, err := range errs {
		k.opts.logger.Warn("skipping invalid record", "bucket", k.kv.Bucket(), "error", err)
	}

	return Build(rows, k.opts.build), nil
}

// Records returns the decoded records of the bucket, in key order.
func (k *KV) Records(ctx context.Context) ([]Record, error) {
	keys, err := k.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) || types.IsNoKeysFoundError(err) {
			return []Record{}, nil
		}

		return nil, fmt.Errorf("failed to list contact keys: %w", err)
	}

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		if !strings.HasPrefix(key, KeyPrefix) {
			continue
		}

		entry, err := k.kv.Get(ctx, key)
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			// deleted since listing
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}

		rec, err := DecodeRecord(entry.Value())
		if err != nil {
			k.opts.logger.Warn("skipping undecodable record", "key", key, "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// Put stores rec under its key.
//
// Returns:
//   - uint64: Revision of the stored entry
//   - error: Validation error wrapping types.ErrInvalidRecord, or a store error
func (k *KV) Put(ctx context.Context, rec Record) (uint64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}

	return kvutil.PutJSON(ctx, k.kv, Key(rec.ID), rec)
}

// Delete removes the record with the given id.
func (k *KV) Delete(ctx context.Context, id int64) error {
	if err := k.kv.Delete(ctx, Key(id)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", Key(id), err)
	}

	return nil
}

// Watch delivers a full snapshot once the current bucket contents are known
// and again after every settled batch of changes, until ctx is done.
//
// Returns:
//   - error: nil after ctx is cancelled
func (k *KV) Watch(ctx context.Context, deliver func(*types.Snapshot)) error {
	return runWatch(ctx, "kv", k.opts, func(ctx context.Context) (bool, error) {
		return k.watchOnce(ctx, deliver)
	})
}

func (k *KV) watchOnce(ctx context.Context, deliver func(*types.Snapshot)) (bool, error) {
	w, err := k.kv.Watch(ctx, KeyPrefix+">", jetstream.MetaOnly())
	if err != nil {
		return false, fmt.Errorf("failed to watch %s: %w", k.kv.Bucket(), err)
	}
	defer func() { _ = w.Stop() }()

	deb := &debouncer{d: k.opts.debounce}
	defer deb.stop()

	ready := false
	reload := func() {
		snap, err := k.LoadRows(ctx)
		if err != nil {
			if ctx.Err() == nil {
				k.opts.logger.Warn("failed to reload bucket", "bucket", k.kv.Bucket(), "error", err)
			}

			return
		}
		deliver(snap)
	}

	for {
		select {
		case <-ctx.Done():
			return ready, nil
		case entry, ok := <-w.Updates():
			if !ok {
				return ready, errWatchClosed
			}
			// nil marks the end of the initial replay
			if entry == nil {
				ready = true
				reload()

				continue
			}
			if !ready {
				continue
			}
			if k.opts.debounce <= 0 {
				reload()
				continue
			}
			deb.touch()
		case <-deb.fire():
			deb.done()
			reload()
		}
	}
}
