// Package kvutil provides helpers for the NATS JetStream KeyValue buckets that
// back contact sources.
package kvutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/rowlist/internal/backoff"
)

// DefaultRetries is the number of bucket setup attempts when none is given.
const DefaultRetries = 3

// EnsureBucket creates or opens a KV bucket, retrying transient failures.
//
// Several processes may create the same bucket at once; losing that race
// opens the existing bucket instead.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - config: KV bucket configuration
//   - retries: Maximum number of attempts (DefaultRetries when <= 0)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket instance
//   - error: Last error after all attempts
//
// Example:
//
//	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
//	    Bucket:  "contacts",
//	    History: 1,
//	}, 3)
func EnsureBucket(
	ctx context.Context,
	js jetstream.JetStream,
	config jetstream.KeyValueConfig,
	retries int,
) (jetstream.KeyValue, error) {
	if retries <= 0 {
		retries = DefaultRetries
	}

	policy := backoff.Policy{Base: 10 * time.Millisecond, Multiplier: 2, Cap: time.Second}

	var (
		lastErr error
		delay   time.Duration
	)
	for attempt := range retries {
		kv, err := js.CreateKeyValue(ctx, config)
		if err == nil {
			return kv, nil
		}

		if errors.Is(err, jetstream.ErrBucketExists) {
			kv, err := js.KeyValue(ctx, config.Bucket)
			if err == nil {
				return kv, nil
			}
			lastErr = fmt.Errorf("bucket exists but failed to open: %w", err)
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled during KV bucket setup: %w", ctx.Err())
		}

		if attempt < retries-1 {
			delay = policy.Next(delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return nil, fmt.Errorf("failed to create/open KV bucket %s after %d attempts: %w",
		config.Bucket, retries, lastErr)
}

// PutJSON stores v as JSON under key.
//
// Returns:
//   - uint64: Revision of the new entry
//   - error: Encoding or store error
func PutJSON(ctx context.Context, kv jetstream.KeyValue, key string, v any) (uint64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", key, err)
	}

	rev, err := kv.Put(ctx, key, data)
	if err != nil {
		return 0, fmt.Errorf("failed to put %s: %w", key, err)
	}

	return rev, nil
}

// GetJSON decodes the entry under key into v.
//
// Returns:
//   - error: jetstream.ErrKeyNotFound (wrapped) for missing keys, or a decode error
func GetJSON(ctx context.Context, kv jetstream.KeyValue, key string, v any) error {
	entry, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(entry.Value(), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return nil
}

// IsConnectivityError reports whether err comes from a lost or unreachable
// NATS connection, as opposed to a data error.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "i/o timeout")
}
