package fabrica

import "github.com/katalvlaran/fabrica/selectkit"

// Result carries a generated value together with the seed that produced it
// and any non-fatal configuration warnings raised during the run.
type Result[T any] struct {
	value    T
	seed     int64
	warnings []selectkit.Warning
}

// Get returns the generated value.
func (r Result[T]) Get() T { return r.value }

// Seed reports the seed of the run that produced the value; replaying with
// WithSeed(r.Seed()) reproduces it bit for bit.
func (r Result[T]) Seed() int64 { return r.seed }

// Warnings returns the non-fatal diagnostics collected during the run, such
// as ambiguous selector precedence. The returned slice must not be mutated.
func (r Result[T]) Warnings() []selectkit.Warning { return r.warnings }
