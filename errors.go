package rowlist

import "github.com/arloliu/rowlist/types"

// Re-export sentinel errors from the types package.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrPositionOutOfRange is raised (as a panic) when a position lies outside
	// [0, Count()), which indicates a position computed before a reload.
	ErrPositionOutOfRange = types.ErrPositionOutOfRange

	// ErrPartitionMismatch is raised (as a panic) when a partition index or the
	// number of delivered partitions does not match the partition table.
	ErrPartitionMismatch = types.ErrPartitionMismatch

	// ErrUnknownPartition is returned when a partition name is not configured.
	ErrUnknownPartition = types.ErrUnknownPartition

	// ErrNoChildren is returned when a merged adapter is created without children.
	ErrNoChildren = types.ErrNoChildren

	// ErrMalformedSections is reported when loader section metadata is inconsistent.
	ErrMalformedSections = types.ErrMalformedSections

	// ErrMissingSections is reported when a snapshot carries no section metadata.
	ErrMissingSections = types.ErrMissingSections

	// ErrUnknownKind is returned when a row or record carries an unknown kind.
	ErrUnknownKind = types.ErrUnknownKind

	// ErrSourceRequired is returned when a partition is bound without a source.
	ErrSourceRequired = types.ErrSourceRequired

	// ErrLoadFailed wraps the error of a failed partition load.
	ErrLoadFailed = types.ErrLoadFailed

	// ErrWatcherFailed wraps the error of a failed source watcher.
	ErrWatcherFailed = types.ErrWatcherFailed

	// ErrInvalidRecord is returned for a stored contact record that cannot become a row.
	ErrInvalidRecord = types.ErrInvalidRecord
)
