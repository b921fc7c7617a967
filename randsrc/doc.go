// Package randsrc centralizes deterministic random generation for one
// generation run.
//
// Goals:
//   - Determinism: same seed ⇒ identical generated objects across platforms.
//   - Reproducibility: the seed that produced a run is always reportable,
//     whether it was supplied explicitly or drawn at run start.
//   - Encapsulation: a single RNG factory; no time-based sources hidden
//     anywhere in the engine.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. A Source must be owned by a
//     single generation run. Use Derive to create independent streams for
//     parallel runs.
package randsrc
