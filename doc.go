// Package rowlist provides a composite, partitioned, virtualized list engine
// for contact-style lists.
//
// Rowlist presents several independently loaded row sources, plus synthetic
// header, placeholder and divider rows, as one flat list with stable positions.
// It maintains an alphabetic section index for fast-scroll navigation, computes
// the state of the pinned section header as the list scrolls, and tracks a
// multi-select overlay keyed by row identity that survives reloads.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import "github.com/arloliu/rowlist"
//
//	cfg := rowlist.DefaultConfig()
//	adapter, err := rowlist.NewAdapter(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer adapter.Close()
//
//	snap := source.Build(rows, source.BuildOptions{Alphabet: alphabet.Latin()})
//	adapter.OnRowsChanged(0, snap)
//
//	for pos := range adapter.Count() {
//	    view := adapter.View(pos)
//	    ...
//	}
//
// # Key Features
//
//   - Partitions: Fixed, ordered partitions with optional headers, empty-state placeholders and
//     static divider rows that collapse when the next partition is empty
//   - Section Index: Loader sections merged with a locale alphabet; empty letters still navigate
//   - Pinned Header: Visible, pushed up or gone, with a height-aware fade
//   - Multi-Select: Selection keyed by row id, independent of position
//   - Composition: Merged concatenates adapters with non-colliding view types
//
// # Architecture
//
// Every inbound event (rows changed, loading changed, visibility changed)
// rebuilds the position table and, when the indexed partition changed, the
// section index. The result is published as one immutable state:
//
//	OnRowsChanged → position.Build + section.Build → atomic swap → listeners
//
// Queries never lock. A position is only meaningful for the state it was
// computed against; hosts re-query after a change notification.
//
// # Advanced Usage
//
// Loading partitions from sources:
//
//	import (
//	    "github.com/arloliu/rowlist"
//	    "github.com/arloliu/rowlist/source"
//	)
//
//	loader, err := source.NewLoader(adapter,
//	    source.WithSource("starred", starredSource),
//	    source.WithSource("contacts", contactsSource),
//	    source.WithHooks(&rowlist.Hooks{
//	        OnError: func(ctx context.Context, err error) error {
//	            log.Printf("load failed: %v", err)
//	            return nil
//	        },
//	    }),
//	)
//	if err := loader.Load(ctx); err != nil {
//	    return err
//	}
//
// Watchable sources (source.KV over a NATS JetStream bucket, source.File over
// a YAML file) keep partitions current through Loader.Watch.
//
// See the examples/ directory for complete working examples, and cmd/rowlist
// for a terminal renderer and browser built on the engine.
package rowlist
