package rowlist

import (
	"github.com/arloliu/rowlist/alphabet"
	"github.com/arloliu/rowlist/binder"
	"github.com/arloliu/rowlist/selection"
)

// Option configures an Adapter with optional dependencies.
type Option func(*adapterOptions)

// adapterOptions holds optional Adapter configuration.
type adapterOptions struct {
	logger    Logger
	metrics   MetricsCollector
	alphabet  *alphabet.Alphabet
	binders   map[Kind]binder.Func
	selection *selection.Tracker
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewAdapter
//
// Example:
//
//	adapter, err := rowlist.NewAdapter(&cfg, rowlist.WithLogger(logging.NewSlog(slog.Default())))
func WithLogger(logger Logger) Option {
	return func(o *adapterOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewAdapter
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer, "contacts")
//	adapter, err := rowlist.NewAdapter(&cfg, rowlist.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *adapterOptions) {
		o.metrics = metrics
	}
}

// WithAlphabet overrides the canonical alphabet derived from Config.Locale.
//
// Parameters:
//   - a: Canonical alphabet used by the section index
//
// Returns:
//   - Option: Functional option for NewAdapter
func WithAlphabet(a *alphabet.Alphabet) Option {
	return func(o *adapterOptions) {
		o.alphabet = a
	}
}

// WithBinder replaces the binder of one row kind.
//
// Parameters:
//   - kind: Row kind to bind
//   - fn: Binder function
//
// Returns:
//   - Option: Functional option for NewAdapter
//
// Example:
//
//	adapter, err := rowlist.NewAdapter(&cfg, rowlist.WithBinder(rowlist.KindPhone, myPhoneBinder))
func WithBinder(kind Kind, fn binder.Func) Option {
	return func(o *adapterOptions) {
		if o.binders == nil {
			o.binders = make(map[Kind]binder.Func)
		}
		o.binders[kind] = fn
	}
}

// WithSelection shares a selection tracker with the adapter.
//
// Sharing one tracker between adapters keeps the selection when the host swaps
// list layouts.
//
// Parameters:
//   - tracker: Selection tracker
//
// Returns:
//   - Option: Functional option for NewAdapter
func WithSelection(tracker *selection.Tracker) Option {
	return func(o *adapterOptions) {
		o.selection = tracker
	}
}

// MergedOption configures a Merged adapter.
type MergedOption func(*mergedOptions)

type mergedOptions struct {
	static  bool
	staticK int
	title   string
	indexed int
	metrics MetricsCollector
}

// WithStaticRow inserts one synthetic row before child k.
//
// k may equal the number of children to place the row at the end.
//
// Parameters:
//   - k: Index of the child the row precedes
//   - title: Label of the static row
//
// Returns:
//   - MergedOption: Functional option for NewMerged
//
// Example:
//
//	merged, err := rowlist.NewMerged(children, rowlist.WithStaticRow(1, "Contacts to display"))
func WithStaticRow(k int, title string) MergedOption {
	return func(o *mergedOptions) {
		o.static = true
		o.staticK = k
		o.title = title
	}
}

// WithIndexedChild makes child k the owner of the merged section index.
//
// The child must implement SectionedAdapter.
//
// Parameters:
//   - k: Index of the indexed child
//
// Returns:
//   - MergedOption: Functional option for NewMerged
func WithIndexedChild(k int) MergedOption {
	return func(o *mergedOptions) {
		o.indexed = k
	}
}

// WithMergedMetrics sets the collector that counts notifications the merged
// list drops for slow subscribers.
//
// Parameters:
//   - m: Metrics collector (nil keeps the no-op collector)
//
// Returns:
//   - MergedOption: Functional option for NewMerged
func WithMergedMetrics(m MetricsCollector) MergedOption {
	return func(o *mergedOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}
