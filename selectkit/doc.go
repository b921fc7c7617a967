// Package selectkit implements declarative selectors over a live traversal
// of an object graph, and the precedence rules that decide which of several
// overlapping selectors wins at a given position.
//
// A Selector identifies one or more positions in a generated object graph:
//
//   - Field / FieldOf[T]    — exact owning type + field name
//   - All[T] / AllStrings   — exact type match
//   - Fields(pred)          — predicate over the struct field descriptor
//   - Types(pred)           — predicate over the declared type
//   - Root()                — the root position only (depth 0)
//   - Group(s...)           — logical OR of member selectors
//
// Every selector composes conjunctively with AtDepth / AtDepthWhere (depth
// constraints) and Within (ancestor-scope narrowing): the base match must
// hold AND the depth/scope constraints must hold.
//
// Matching is evaluated against a Context: the explicit chain of links from
// the root to the current position. The chain is passed through the
// traversal as a value; no global or goroutine-local state is consulted.
//
// Precedence (high → low): field-exact (and root) > type-exact >
// field-predicate > type-predicate > group. Within one rank the
// most-recently-declared selector wins; an exact rank tie is reported as an
// AmbiguousPrecedence warning, never an error.
package selectkit
