package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Empty(t, families, "collectors register lazily")

	p.RecordRebuild("rows", 0.001)
	p.RecordRowCount("contacts", 12)
	p.RecordSectionCount(27)
	p.RecordIndexFallback("malformed")
	p.RecordIndexFallback("malformed")
	p.RecordNotificationDropped()
	p.RecordLoad("contacts", true, 0.01)
	p.RecordLoad("contacts", false, 0.02)
	p.RecordLoadSkipped("contacts")
	p.RecordWatcherRestart("kv")
	p.RecordSelectionSize(3)

	require.InDelta(t, 12, testutil.ToFloat64(p.rowCount.WithLabelValues("contacts")), 0)
	require.InDelta(t, 27, testutil.ToFloat64(p.sectionCount), 0)
	require.InDelta(t, 2, testutil.ToFloat64(p.indexFallbacks.WithLabelValues("malformed")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.droppedNotifies), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.loads.WithLabelValues("contacts", "success")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.loads.WithLabelValues("contacts", "failure")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.watcherRestarts.WithLabelValues("kv")), 0)
	require.InDelta(t, 3, testutil.ToFloat64(p.selectionCurrent), 0)

	families, err = reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestNewPrometheus_Defaults(t *testing.T) {
	p := NewPrometheus(nil, "")
	require.Equal(t, "rowlist", p.namespace)
	require.Equal(t, prometheus.DefaultRegisterer, p.reg)
}

func TestPartitionLabel(t *testing.T) {
	require.Equal(t, "starred", PartitionLabel("starred", 0))
	require.Equal(t, "partition-2", PartitionLabel("", 2))
}
