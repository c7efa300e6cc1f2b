package hooks

import (
	"context"

	"github.com/arloliu/rowlist/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, int, int) error  = (*NopHooks)(nil).OnRowsLoaded
	_ func(context.Context, int, bool) error = (*NopHooks)(nil).OnLoadingChanged
	_ func(context.Context, error) error     = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnRowsLoaded:     h.OnRowsLoaded,
		OnLoadingChanged: h.OnLoadingChanged,
		OnError:          h.OnError,
	}
}

// Fill returns a copy of h where every nil callback is replaced by a no-op.
//
// Parameters:
//   - h: User supplied hooks (may be nil)
//
// Returns:
//   - types.Hooks: Hooks safe to call without nil checks
func Fill(h *types.Hooks) types.Hooks {
	out := NewNop()
	if h == nil {
		return out
	}
	if h.OnRowsLoaded != nil {
		out.OnRowsLoaded = h.OnRowsLoaded
	}
	if h.OnLoadingChanged != nil {
		out.OnLoadingChanged = h.OnLoadingChanged
	}
	if h.OnError != nil {
		out.OnError = h.OnError
	}

	return out
}

// OnRowsLoaded is a no-op implementation.
func (h *NopHooks) OnRowsLoaded(ctx context.Context, partition int, rows int) error {
	return nil
}

// OnLoadingChanged is a no-op implementation.
func (h *NopHooks) OnLoadingChanged(ctx context.Context, partition int, loading bool) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
