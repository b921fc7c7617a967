package selectkit

import (
	"fmt"
	"sort"
)

// Candidate is one matched customization position handed to
// ResolvePrecedence: its declaration index, its selector's specificity rank,
// and whether it was discovered externally (constraint adapters) rather than
// declared explicitly.
type Candidate struct {
	// Index is the declaration position; later declarations win ties.
	Index int

	// Rank is the selector specificity (see Specificity).
	Rank int

	// Discovered marks externally-supplied customizations, which rank below
	// every explicitly declared one regardless of specificity.
	Discovered bool
}

// Warning is a non-fatal configuration diagnostic raised during precedence
// resolution. Warnings are collected on the generation result, never logged
// or surfaced as errors.
type Warning struct {
	Message string
}

// AmbiguousPrecedence builds the warning raised when two candidates of equal
// specificity both match one position; the tie is resolved by declaration
// order (later wins).
func AmbiguousPrecedence(winner, loser Candidate) Warning {
	return Warning{Message: fmt.Sprintf(
		"selectkit: ambiguous precedence at rank %d: customization #%d shadows #%d (declaration order decides)",
		winner.Rank, winner.Index, loser.Index)}
}

// ResolvePrecedence orders matched candidates best-first:
//
//  1. explicit before discovered;
//  2. higher specificity rank first;
//  3. within equal rank, most-recently-declared first.
//
// When the two best candidates tie on both class and rank, an
// AmbiguousPrecedence warning is returned alongside the ordering.
//
// Complexity: O(n log n).
func ResolvePrecedence(cands []Candidate) ([]Candidate, []Warning) {
	if len(cands) == 0 {
		return nil, nil
	}
	out := make([]Candidate, len(cands))
	copy(out, cands)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Discovered != b.Discovered {
			return !a.Discovered
		}
		if a.Rank != b.Rank {
			return a.Rank > b.Rank
		}

		return a.Index > b.Index
	})

	var warns []Warning
	if len(out) > 1 {
		a, b := out[0], out[1]
		if a.Discovered == b.Discovered && a.Rank == b.Rank {
			warns = append(warns, AmbiguousPrecedence(a, b))
		}
	}

	return out, warns
}
