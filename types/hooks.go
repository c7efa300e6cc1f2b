package types

import "context"

// Hooks defines callbacks for loader lifecycle events.
//
// All hooks are optional. They are called synchronously from the loader
// goroutine that produced the event, so they must complete quickly and
// respect context cancellation. Hook errors are logged but never fail a load.
//
// Example:
//
//	hooks := &rowlist.Hooks{
//	    OnError: func(ctx context.Context, err error) error {
//	        errorsTotal.Inc()
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnRowsLoaded is called after a partition received a new snapshot.
	OnRowsLoaded func(ctx context.Context, partition int, rows int) error

	// OnLoadingChanged is called when a partition's loading flag flips.
	OnLoadingChanged func(ctx context.Context, partition int, loading bool) error

	// OnError is called when a load or watch fails.
	OnError func(ctx context.Context, err error) error
}
