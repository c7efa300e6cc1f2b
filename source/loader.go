package source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/rowlist/internal/hash"
	"github.com/arloliu/rowlist/internal/hooks"
	"github.com/arloliu/rowlist/internal/logging"
	"github.com/arloliu/rowlist/internal/metrics"
	"github.com/arloliu/rowlist/types"
)

// ErrNotWatchable is returned when watching a source that cannot be watched.
var ErrNotWatchable = fmt.Errorf("source does not support watching: %w", types.ErrWatcherFailed)

// Sink receives the rows of bound partitions. *rowlist.Adapter implements it.
type Sink interface {
	// PartitionIndex resolves a partition name.
	PartitionIndex(name string) (int, error)

	// OnRowsChanged replaces the snapshot of a partition (nil clears it).
	OnRowsChanged(partition int, snap *types.Snapshot)

	// OnLoadingStateChanged sets the loading flag of a partition.
	OnLoadingStateChanged(partition int, loading bool)
}

// Watcher is implemented by sources that push updates.
type Watcher interface {
	// Watch calls deliver with a complete snapshot after every change until ctx
	// is done. It returns nil when ctx is cancelled.
	Watch(ctx context.Context, deliver func(*types.Snapshot)) error
}

// binding ties a source to one partition.
type binding struct {
	name      string
	partition int
	src       types.RowSource
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	sources       []binding
	concurrency   int
	timeout       time.Duration
	skipUnchanged bool
	hooks         *types.Hooks
	metrics       types.LoaderMetrics
	logger        types.Logger
}

// WithSource binds a source to the partition called name.
//
// Parameters:
//   - name: Partition name
//   - src: Row source
//
// Returns:
//   - LoaderOption: Functional option for NewLoader
func WithSource(name string, src types.RowSource) LoaderOption {
	return func(o *loaderOptions) {
		o.sources = append(o.sources, binding{name: name, src: src})
	}
}

// WithConcurrency limits how many partitions load at the same time (0 = no limit).
func WithConcurrency(n int) LoaderOption {
	return func(o *loaderOptions) {
		o.concurrency = n
	}
}

// WithTimeout bounds every single partition load (0 = no timeout).
func WithTimeout(d time.Duration) LoaderOption {
	return func(o *loaderOptions) {
		o.timeout = d
	}
}

// WithSkipUnchanged skips deliveries whose content fingerprint equals the
// previous delivery of the same partition.
func WithSkipUnchanged(skip bool) LoaderOption {
	return func(o *loaderOptions) {
		o.skipUnchanged = skip
	}
}

// WithHooks sets load lifecycle hooks.
//
// Example:
//
//	loader, err := source.NewLoader(adapter,
//	    source.WithSource("contacts", src),
//	    source.WithHooks(&types.Hooks{
//	        OnError: func(ctx context.Context, err error) error {
//	            log.Printf("load failed: %v", err)
//	            return nil
//	        },
//	    }),
//	)
func WithHooks(h *types.Hooks) LoaderOption {
	return func(o *loaderOptions) {
		o.hooks = h
	}
}

// WithMetrics sets the collector for load outcomes.
func WithMetrics(m types.LoaderMetrics) LoaderOption {
	return func(o *loaderOptions) {
		o.metrics = m
	}
}

// WithLogger sets a logger.
func WithLogger(l types.Logger) LoaderOption {
	return func(o *loaderOptions) {
		o.logger = l
	}
}

// Loader loads row sources into the partitions of a sink.
//
// Thread Safety:
//   - Load, Reload, Deliver and Watch may be called concurrently
//   - Deliveries to one partition are serialized
type Loader struct {
	sink     Sink
	bindings []binding

	concurrency   int
	timeout       time.Duration
	skipUnchanged bool

	hooks   types.Hooks
	metrics types.LoaderMetrics
	logger  types.Logger

	// locks serialize deliveries per partition; last holds delivered fingerprints.
	locks []sync.Mutex
	mu    sync.Mutex
	last  map[int]uint64
}

// NewLoader creates a loader for sink.
//
// Parameters:
//   - sink: Partition sink, usually a *rowlist.Adapter
//   - opts: Bound sources and loading options
//
// Returns:
//   - *Loader: Loader ready to Load
//   - error: ErrSourceRequired for nil sinks or sources, or an unknown partition error
func NewLoader(sink Sink, opts ...LoaderOption) (*Loader, error) {
	if sink == nil {
		return nil, fmt.Errorf("%w: nil sink", types.ErrSourceRequired)
	}

	options := &loaderOptions{}
	for _, opt := range opts {
		opt(options)
	}

	l := &Loader{
		sink:          sink,
		concurrency:   options.concurrency,
		timeout:       options.timeout,
		skipUnchanged: options.skipUnchanged,
		hooks:         hooks.Fill(options.hooks),
		metrics:       options.metrics,
		logger:        options.logger,
		locks:         make([]sync.Mutex, len(options.sources)),
		last:          make(map[int]uint64),
	}
	if l.metrics == nil {
		l.metrics = metrics.NewNop()
	}
	if l.logger == nil {
		l.logger = logging.NewNop()
	}

	for _, b := range options.sources {
		if b.src == nil {
			return nil, fmt.Errorf("%w: partition %q", types.ErrSourceRequired, b.name)
		}
		i, err := sink.PartitionIndex(b.name)
		if err != nil {
			return nil, fmt.Errorf("failed to bind source: %w", err)
		}
		if _, err := l.binding(b.name); err == nil {
			return nil, fmt.Errorf("%w: partition %q is bound twice", types.ErrInvalidConfig, b.name)
		}
		b.partition = i
		l.bindings = append(l.bindings, b)
	}

	return l, nil
}

// Load loads every bound partition concurrently.
//
// A failing partition is cleared and reported through Hooks.OnError; the
// other partitions still load.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: First load failure (wrapping types.ErrLoadFailed), or nil
func (l *Loader) Load(ctx context.Context) error {
	var g errgroup.Group
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}

	for i := range l.bindings {
		g.Go(func() error {
			return l.load(ctx, i)
		})
	}

	return g.Wait()
}

// Reload loads the partition called name again.
//
// Returns:
//   - error: Load failure, or an error wrapping types.ErrUnknownPartition
func (l *Loader) Reload(ctx context.Context, name string) error {
	i, err := l.binding(name)
	if err != nil {
		return err
	}

	return l.load(ctx, i)
}

// Deliver hands a snapshot of the partition called name to the sink, applying
// the same unchanged-content check as Load.
//
// Returns:
//   - error: Error wrapping types.ErrUnknownPartition for unbound names
func (l *Loader) Deliver(ctx context.Context, name string, snap *types.Snapshot) error {
	i, err := l.binding(name)
	if err != nil {
		return err
	}
	l.deliver(ctx, i, snap)

	return nil
}

// Watch watches every bound source that implements Watcher and delivers its
// updates until ctx is done. Sources that cannot be watched are skipped.
//
// Returns:
//   - error: First watcher failure, or nil after ctx is cancelled
func (l *Loader) Watch(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for i, b := range l.bindings {
		w, ok := b.src.(Watcher)
		if !ok {
			continue
		}
		g.Go(func() error {
			err := w.Watch(gctx, func(snap *types.Snapshot) {
				l.deliver(gctx, i, snap)
			})
			if errors.Is(err, ErrNotWatchable) {
				l.logger.Debug("source is not watchable", "partition", b.name)
				return nil
			}
			if err != nil {
				return fmt.Errorf("watch partition %q: %w", b.name, err)
			}

			return nil
		})
	}

	return g.Wait()
}

func (l *Loader) binding(name string) (int, error) {
	for i, b := range l.bindings {
		if b.name == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: no source bound to %q", types.ErrUnknownPartition, name)
}

func (l *Loader) load(ctx context.Context, i int) error {
	b := l.bindings[i]

	l.setLoading(ctx, b, true)

	lctx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		lctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	snap, err := b.src.LoadRows(lctx)
	l.metrics.RecordLoad(b.name, err == nil, time.Since(start).Seconds())

	if err != nil {
		err = fmt.Errorf("%w: partition %q: %w", types.ErrLoadFailed, b.name, err)
		l.logger.Error("failed to load partition", "partition", b.name, "error", err)

		l.locks[i].Lock()
		l.sink.OnRowsChanged(b.partition, nil)
		l.forget(b.partition)
		l.locks[i].Unlock()

		l.notifyLoading(ctx, b, false)
		if herr := l.hooks.OnError(ctx, err); herr != nil {
			l.logger.Warn("error hook failed", "partition", b.name, "error", herr)
		}

		return err
	}

	l.deliver(ctx, i, snap)

	return nil
}

// deliver publishes snap unless it equals the previous delivery.
func (l *Loader) deliver(ctx context.Context, i int, snap *types.Snapshot) {
	b := l.bindings[i]

	l.locks[i].Lock()
	fp := hash.Snapshot(snap)
	if l.skipUnchanged && snap != nil && l.unchanged(b.partition, fp) {
		l.sink.OnLoadingStateChanged(b.partition, false)
		l.locks[i].Unlock()

		l.metrics.RecordLoadSkipped(b.name)
		l.logger.Debug("partition unchanged, delivery skipped", "partition", b.name)
		l.notifyLoading(ctx, b, false)

		return
	}

	l.sink.OnRowsChanged(b.partition, snap)
	l.remember(b.partition, fp)
	l.locks[i].Unlock()

	l.logger.Debug("partition delivered", "partition", b.name, "rows", snap.Len())
	l.notifyLoading(ctx, b, false)
	if err := l.hooks.OnRowsLoaded(ctx, b.partition, snap.Len()); err != nil {
		l.logger.Warn("rows loaded hook failed", "partition", b.name, "error", err)
	}
}

func (l *Loader) setLoading(ctx context.Context, b binding, loading bool) {
	l.sink.OnLoadingStateChanged(b.partition, loading)
	l.notifyLoading(ctx, b, loading)
}

func (l *Loader) notifyLoading(ctx context.Context, b binding, loading bool) {
	if err := l.hooks.OnLoadingChanged(ctx, b.partition, loading); err != nil {
		l.logger.Warn("loading hook failed", "partition", b.name, "error", err)
	}
}

func (l *Loader) unchanged(partition int, fp uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, ok := l.last[partition]

	return ok && prev == fp
}

func (l *Loader) remember(partition int, fp uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last[partition] = fp
}

func (l *Loader) forget(partition int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.last, partition)
}
