// Package schema normalizes Go type descriptors into TypeNode values the
// population engine can traverse without touching the reflect API directly.
//
// A TypeNode describes one position in an object-graph schema: the type
// itself, its exported fields (for structs), or its element/key types (for
// slices, arrays and maps). Nodes are shallow: field and element types are
// plain reflect.Type references, resolved to their own nodes on demand, so
// cyclic types never cause unbounded construction.
//
// The Reader is the default Provider. It caches one node per distinct type,
// safe for concurrent readers with at-most-once-per-type writes; a racing
// recomputation is harmless because nodes are pure functions of the type.
//
// Errors:
//
//	ErrNilType — a nil reflect.Type was passed to Node.
package schema
