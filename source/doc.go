// Package source provides row sources and the loader that feeds them into a
// list adapter.
//
// The package includes:
//
//   - Static: Fixed snapshot, replaceable with Update
//   - Func: Adapts a function to a RowSource
//   - Filtered: Derives a source by predicate (e.g., starred contacts)
//   - File: YAML contacts file, watched with fsnotify
//   - KV: NATS JetStream key-value bucket, one JSON record per contact
//
// Build sorts rows into alphabet order and attaches section metadata and a
// content fingerprint. The Loader binds sources to adapter partitions, loads
// them concurrently and keeps watching sources that support it.
//
// Custom sources can be implemented by satisfying the types.RowSource interface.
package source
