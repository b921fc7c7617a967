// Package genval maps types to stochastic value generators and provides the
// configurable generator builders used to override them per selector.
//
// The Registry is an independent leaf: it knows nothing about selectors or
// traversal. Lookup resolves a generator for a type by exact type first
// (time.Time, uuid.UUID), then by reflect.Kind. Defaults generate positive
// numbers and non-empty strings, deterministically from the run's RNG only —
// no wall clock, no global state — so a seeded run replays bit-for-bit.
//
// Builders are immutable values: each configuring method returns a modified
// copy, so a builder stored in a model cannot be mutated afterwards.
//
//	genval.String().Digits().Length(7)
//	genval.Ints().Range(5, 10)
//	genval.OneOf("+1", "+44")
//	genval.Temporal().Past()
//	genval.Text("#d#d#d-#d#d-#d#d")
//	genval.Collection().Size(5)
//
// Collection() is a sizing directive, not a leaf generator: the population
// engine sizes the collection and recurses into elements itself.
package genval
