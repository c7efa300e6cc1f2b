// Package types provides core type definitions and interfaces for the rowlist library.
//
// This package contains shared types that are used across multiple packages in the
// rowlist library. By keeping these types in a separate package, we avoid import cycles
// between the main rowlist package and its internal implementations.
//
// Key types:
//   - Row: Immutable list row with a stable identity
//   - Snapshot: Immutable row sequence delivered by a RowSource
//   - PartitionConfig: Static description of one list partition
//   - Location: Result of translating a flat position
//   - PinnedHeaderState: Projection of the floating section header
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
