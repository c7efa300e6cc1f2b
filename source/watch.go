package source

import (
	"context"
	"errors"
	"time"

	"github.com/arloliu/rowlist/internal/backoff"
	"github.com/arloliu/rowlist/internal/logging"
	"github.com/arloliu/rowlist/internal/metrics"
	"github.com/arloliu/rowlist/types"
)

// DefaultDebounce is how long watchers wait for more changes before reloading.
const DefaultDebounce = 100 * time.Millisecond

// errWatchClosed is returned by a watch round whose event stream ended.
var errWatchClosed = errors.New("watch stream closed")

// SourceOption configures the KV and File sources.
type SourceOption func(*sourceOptions)

type sourceOptions struct {
	build    BuildOptions
	debounce time.Duration
	backoff  backoff.Policy
	logger   types.Logger
	metrics  types.LoaderMetrics
}

func newSourceOptions(opts []SourceOption) sourceOptions {
	o := sourceOptions{
		debounce: DefaultDebounce,
		backoff:  backoff.Default(),
		logger:   logging.NewNop(),
		metrics:  metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithBuildOptions sets how loaded rows are ordered and sectioned.
func WithBuildOptions(b BuildOptions) SourceOption {
	return func(o *sourceOptions) {
		o.build = b
	}
}

// WithDebounce sets how long a watcher waits for further changes before
// reloading. Zero reloads on every change.
func WithDebounce(d time.Duration) SourceOption {
	return func(o *sourceOptions) {
		o.debounce = d
	}
}

// WithBackoff sets the restart delay policy of a watcher.
func WithBackoff(p backoff.Policy) SourceOption {
	return func(o *sourceOptions) {
		o.backoff = p
	}
}

// WithSourceLogger sets a logger.
func WithSourceLogger(l types.Logger) SourceOption {
	return func(o *sourceOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSourceMetrics sets the collector for watcher restarts.
func WithSourceMetrics(m types.LoaderMetrics) SourceOption {
	return func(o *sourceOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// watchRound runs one watch subscription until ctx is done or the stream
// fails. ready reports whether the round got far enough to deliver rows.
type watchRound func(ctx context.Context) (ready bool, err error)

// runWatch repeats round until ctx is done, waiting a jittered delay between
// failed rounds. The delay resets after a round that became ready.
func runWatch(ctx context.Context, kind string, o sourceOptions, round watchRound) error {
	var delay time.Duration
	for {
		ready, err := round(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if ready {
			delay = 0
		}

		delay = o.backoff.Next(delay)
		o.metrics.RecordWatcherRestart(kind)
		o.logger.Warn("watcher stopped, restarting", "source", kind, "error", err, "delay", delay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

// debouncer coalesces change events into a single reload.
type debouncer struct {
	d     time.Duration
	timer *time.Timer
}

// fire returns the channel that signals the pending reload, or nil.
func (d *debouncer) fire() <-chan time.Time {
	if d.timer == nil {
		return nil
	}

	return d.timer.C
}

// touch schedules a reload unless one is already pending.
func (d *debouncer) touch() {
	if d.timer != nil {
		return
	}
	d.timer = time.NewTimer(d.d)
}

// done clears the pending reload after it fired.
func (d *debouncer) done() {
	d.timer = nil
}

func (d *debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
