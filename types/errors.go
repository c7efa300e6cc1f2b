package types

import (
	"errors"
	"strings"
)

// Sentinel errors for the rowlist library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Programming errors (stale positions, partition count violations) are raised
// as panics carrying a wrapped sentinel, so callers recovering from them can
// still classify the failure with errors.Is().

// Adapter errors - Public API errors raised by the list adapters.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrPositionOutOfRange is raised when a position lies outside [0, Count()).
	// It indicates a position computed against a stale snapshot.
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrPartitionMismatch is raised when a partition index or the number of
	// delivered partitions does not match the configured partition table.
	ErrPartitionMismatch = errors.New("partition table mismatch")

	// ErrUnknownPartition is returned when a partition name is not configured.
	ErrUnknownPartition = errors.New("unknown partition")

	// ErrUnknownKind is returned when a row kind cannot be decoded.
	ErrUnknownKind = errors.New("unknown row kind")

	// ErrNoChildren is returned when a merged adapter is created without children.
	ErrNoChildren = errors.New("merged adapter requires at least one child")
)

// Section index errors - Internal section indexer errors.
var (
	// ErrMalformedSections is returned when loader section metadata is inconsistent.
	ErrMalformedSections = errors.New("malformed section metadata")

	// ErrMissingSections is returned when a snapshot carries no usable section metadata.
	ErrMissingSections = errors.New("missing section metadata")
)

// Source errors - Row source and loader errors.
var (
	// ErrSourceRequired is returned when a nil row source is bound.
	ErrSourceRequired = errors.New("row source is required")

	// ErrLoadFailed is returned when a row source fails to load.
	ErrLoadFailed = errors.New("row load failed")

	// ErrWatcherFailed is returned when a source watcher fails permanently.
	ErrWatcherFailed = errors.New("watcher operation failed")

	// ErrInvalidRecord is returned when a stored contact record cannot be decoded.
	ErrInvalidRecord = errors.New("invalid contact record")

	// ErrNoKeysFound is returned when NATS KV returns no keys (expected condition).
	ErrNoKeysFound = errors.New("no keys found")
)

// IsNoKeysFoundError checks if an error indicates that no keys were found in NATS KV.
//
// This function handles NATS-specific "no keys found" errors which may come as:
//   - Direct error: "nats: no keys found"
//   - Wrapped error: "failed to list contact keys: nats: no keys found"
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if the error indicates no keys were found, false otherwise
func IsNoKeysFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoKeysFound) {
		return true
	}

	return strings.Contains(err.Error(), "no keys found")
}
