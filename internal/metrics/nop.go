package metrics

import "github.com/arloliu/rowlist/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	adapter, err := rowlist.NewAdapter(&cfg, rowlist.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// AdapterMetrics implementation

// RecordRebuild discards the rebuild metric.
func (n *NopMetrics) RecordRebuild(_ /* reason */ string, _ /* duration */ float64) {}

// RecordRowCount discards the row count metric.
func (n *NopMetrics) RecordRowCount(_ /* partition */ string, _ /* rows */ int) {}

// RecordSectionCount discards the section count metric.
func (n *NopMetrics) RecordSectionCount(_ /* count */ int) {}

// RecordIndexFallback discards the index fallback metric.
func (n *NopMetrics) RecordIndexFallback(_ /* reason */ string) {}

// RecordNotificationDropped discards the dropped notification metric.
func (n *NopMetrics) RecordNotificationDropped() {}

// LoaderMetrics implementation

// RecordLoad discards the load metric.
func (n *NopMetrics) RecordLoad(_ /* partition */ string, _ /* success */ bool, _ /* duration */ float64) {
}

// RecordLoadSkipped discards the skipped load metric.
func (n *NopMetrics) RecordLoadSkipped(_ /* partition */ string) {}

// RecordWatcherRestart discards the watcher restart metric.
func (n *NopMetrics) RecordWatcherRestart(_ /* source */ string) {}

// SelectionMetrics implementation

// RecordSelectionSize discards the selection size metric.
func (n *NopMetrics) RecordSelectionSize(_ /* size */ int) {}
