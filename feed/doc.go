// Package feed binds rows from an external tabular data source to generated
// objects.
//
// A Source supplies ordered rows of named columns; parsing file formats
// (CSV, JSON, ...) is the caller's concern — OfRows adapts any pre-parsed
// row set. Rows are read eagerly into memory when the Feed is built; there
// is no I/O after that point.
//
// A Feed decorates the raw rows with:
//
//   - template columns — "${first} ${last}" interpolation across columns;
//   - derived columns — a registered pure function over the raw row;
//   - mappings — explicit column → field renames for binding.
//
// Cursor behavior on exhaustion is an explicit policy: Sequential fails with
// ErrExhausted, Cycle wraps to the first row. There is no silent default
// reuse — Sequential is the default.
//
// Typed access goes through Record getters with spf13/cast coercion, so a
// CSV-shaped source of strings still yields ints and bools.
package feed
