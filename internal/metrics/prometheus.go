package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/rowlist/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing a
// collector never touches the registry.
type PrometheusCollector struct {
	*NopMetrics

	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	rebuilds         *prometheus.HistogramVec
	rowCount         *prometheus.GaugeVec
	sectionCount     prometheus.Gauge
	indexFallbacks   *prometheus.CounterVec
	droppedNotifies  prometheus.Counter
	loads            *prometheus.CounterVec
	loadLatency      *prometheus.HistogramVec
	loadSkipped      *prometheus.CounterVec
	watcherRestarts  *prometheus.CounterVec
	selectionCurrent prometheus.Gauge
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "rowlist" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "rowlist"
	}

	return &PrometheusCollector{NopMetrics: NewNop(), reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.rebuilds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "adapter",
			Name:      "rebuild_duration_seconds",
			Help:      "Duration of list state rebuilds in seconds by reason.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12), // 50µs .. ~100ms
		}, []string{"reason"})

		p.rowCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "adapter",
			Name:      "partition_rows",
			Help:      "Current number of data rows per partition.",
		}, []string{"partition"})

		p.sectionCount = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "adapter",
			Name:      "sections",
			Help:      "Current number of sections in the index.",
		})

		p.indexFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "adapter",
			Name:      "index_fallbacks_total",
			Help:      "Total fallbacks to the blank section index by reason (malformed,missing).",
		}, []string{"reason"})

		p.droppedNotifies = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "adapter",
			Name:      "notifications_dropped_total",
			Help:      "Total change notifications dropped for slow subscribers.",
		})

		p.loads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "loader",
			Name:      "loads_total",
			Help:      "Total partition loads by partition and result (success,failure).",
		}, []string{"partition", "result"})

		p.loadLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "loader",
			Name:      "load_duration_seconds",
			Help:      "Latency of partition loads in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		}, []string{"partition"})

		p.loadSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "loader",
			Name:      "loads_skipped_total",
			Help:      "Total deliveries skipped because the content fingerprint was unchanged.",
		}, []string{"partition"})

		p.watcherRestarts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "loader",
			Name:      "watcher_restarts_total",
			Help:      "Total source watcher restarts by source type.",
		}, []string{"source"})

		p.selectionCurrent = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "selection",
			Name:      "selected_rows",
			Help:      "Current number of selected rows.",
		})

		p.reg.MustRegister(
			p.rebuilds,
			p.rowCount,
			p.sectionCount,
			p.indexFallbacks,
			p.droppedNotifies,
			p.loads,
			p.loadLatency,
			p.loadSkipped,
			p.watcherRestarts,
			p.selectionCurrent,
		)
	})
}

// RecordRebuild observes a rebuild duration.
func (p *PrometheusCollector) RecordRebuild(reason string, duration float64) {
	p.ensureRegistered()
	p.rebuilds.WithLabelValues(reason).Observe(duration)
}

// RecordRowCount sets the row gauge of a partition.
func (p *PrometheusCollector) RecordRowCount(partition string, rows int) {
	p.ensureRegistered()
	p.rowCount.WithLabelValues(partition).Set(float64(rows))
}

// RecordSectionCount sets the section gauge.
func (p *PrometheusCollector) RecordSectionCount(count int) {
	p.ensureRegistered()
	p.sectionCount.Set(float64(count))
}

// RecordIndexFallback increments the index fallback counter.
func (p *PrometheusCollector) RecordIndexFallback(reason string) {
	p.ensureRegistered()
	p.indexFallbacks.WithLabelValues(reason).Inc()
}

// RecordNotificationDropped increments the dropped notification counter.
func (p *PrometheusCollector) RecordNotificationDropped() {
	p.ensureRegistered()
	p.droppedNotifies.Inc()
}

// RecordLoad records a load outcome and its latency.
func (p *PrometheusCollector) RecordLoad(partition string, success bool, duration float64) {
	p.ensureRegistered()
	result := "failure"
	if success {
		result = "success"
	}
	p.loads.WithLabelValues(partition, result).Inc()
	p.loadLatency.WithLabelValues(partition).Observe(duration)
}

// RecordLoadSkipped increments the skipped delivery counter.
func (p *PrometheusCollector) RecordLoadSkipped(partition string) {
	p.ensureRegistered()
	p.loadSkipped.WithLabelValues(partition).Inc()
}

// RecordWatcherRestart increments the watcher restart counter.
func (p *PrometheusCollector) RecordWatcherRestart(source string) {
	p.ensureRegistered()
	p.watcherRestarts.WithLabelValues(source).Inc()
}

// RecordSelectionSize sets the selection gauge.
func (p *PrometheusCollector) RecordSelectionSize(size int) {
	p.ensureRegistered()
	p.selectionCurrent.Set(float64(size))
}

// PartitionLabel returns the metric label used for a partition.
//
// Parameters:
//   - name: Configured partition name (may be empty)
//   - index: Partition index
//
// Returns:
//   - string: name, or "partition-<index>" when name is empty
func PartitionLabel(name string, index int) string {
	if name != "" {
		return name
	}

	return "partition-" + strconv.Itoa(index)
}
