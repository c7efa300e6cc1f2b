// Package position translates flat list positions into partition coordinates.
//
// A Table is an immutable prefix-sum view over the partitions of a list. It is
// the only place that knows how header, placeholder, static and collapsed
// divider rows shift positions; every other component consults it.
package position
