package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods may be called from loader and watcher goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	AdapterMetrics
	LoaderMetrics
	SelectionMetrics
}

// AdapterMetrics defines metrics for list state rebuilds.
type AdapterMetrics interface {
	// RecordRebuild records one state rebuild.
	//
	// Parameters:
	//   - reason: Change reason ("rows", "loading", "visibility", "replace")
	//   - duration: Time taken in seconds
	RecordRebuild(reason string, duration float64)

	// RecordRowCount sets the number of data rows held by a partition (gauge metric).
	RecordRowCount(partition string, rows int)

	// RecordSectionCount sets the number of sections in the index (gauge metric).
	RecordSectionCount(count int)

	// RecordIndexFallback records a fallback to the placeholder section index.
	//
	// Parameters:
	//   - reason: Fallback reason ("malformed", "missing")
	RecordIndexFallback(reason string)

	// RecordNotificationDropped records a change notification dropped for a slow subscriber.
	RecordNotificationDropped()
}

// LoaderMetrics defines metrics for row sources and loaders.
type LoaderMetrics interface {
	// RecordLoad records a partition load attempt.
	//
	// Parameters:
	//   - partition: Partition name
	//   - success: true if the load succeeded
	//   - duration: Time taken in seconds
	RecordLoad(partition string, success bool, duration float64)

	// RecordLoadSkipped records a delivery skipped because the content was unchanged.
	RecordLoadSkipped(partition string)

	// RecordWatcherRestart records a watcher restart.
	//
	// Parameters:
	//   - source: Source type ("kv", "file")
	RecordWatcherRestart(source string)
}

// SelectionMetrics defines metrics for the multi-select overlay.
type SelectionMetrics interface {
	// RecordSelectionSize sets the current number of selected rows (gauge metric).
	RecordSelectionSize(size int)
}
