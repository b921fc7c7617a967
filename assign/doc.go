// Package assign declares value dependencies between generated positions:
// "derive target X from source Y via function F, optionally conditional on
// predicate P".
//
// Two forms:
//
//	assign.ValueOf(src).To(dst)                 // field copy (identity)
//	assign.ValueOf(src).To(dst).As(fn)          // unconditional derivation
//	assign.Given(src, dst,
//	    assign.When(assign.Is(v1), out1),
//	    assign.When(assign.Is(v2), out2),
//	).Else(out3)                                // conditional branches
//
// Assignments are immutable values. Order computes an evaluation order over
// a set of assignments such that every assignment runs after the assignments
// that may write its source; a dependency cycle fails with
// ErrCyclicAssignment. Derivation functions must be pure: re-deriving with
// the same source value must yield the same result.
//
// Complexity of Order: O(A² + E) for A assignments (pairwise overlap checks)
// plus O(A + E) for the sort itself.
package assign
