package assign

import (
	"reflect"

	"github.com/katalvlaran/fabrica/selectkit"
)

// Branch is one predicate → value arm of a conditional assignment.
type Branch struct {
	when  func(any) bool
	value any
}

// When builds a conditional branch. The predicate receives the resolved
// source value.
func When(pred func(any) bool, value any) Branch {
	if pred == nil {
		panic("assign: When requires a predicate")
	}

	return Branch{when: pred, value: value}
}

// Is returns an equality predicate over the source value.
func Is(want any) func(any) bool {
	return func(got any) bool { return reflect.DeepEqual(got, want) }
}

// Assignment derives the value of a target position from the resolved value
// of a source position. The zero value is not valid; use ValueOf or Given.
type Assignment struct {
	source selectkit.Selector
	target selectkit.Selector

	// fn is the unconditional derivation; nil means identity copy unless
	// branches are declared.
	fn func(any) (any, error)

	branches []Branch
	elseSet  bool
	elseVal  any
}

// Origin is the intermediate builder produced by ValueOf.
type Origin struct {
	source selectkit.Selector
}

// ValueOf starts an assignment reading from the given source selector.
func ValueOf(source selectkit.Selector) Origin {
	return Origin{source: source}
}

// To completes the assignment as an identity copy into the target selector.
// Chain As to replace the identity with a derivation function.
func (o Origin) To(target selectkit.Selector) Assignment {
	return Assignment{source: o.source, target: target}
}

// As returns a copy of the assignment deriving the target via fn instead of
// copying the source verbatim.
func (a Assignment) As(fn func(any) (any, error)) Assignment {
	if fn == nil {
		panic("assign: As requires a derivation function")
	}
	a.fn = fn

	return a
}

// Given builds a conditional assignment: branch predicates are evaluated
// against the resolved source value in declaration order and the first match
// wins. Without a matching branch, the Else value applies if declared;
// otherwise the target is left as generated.
func Given(source, target selectkit.Selector, branches ...Branch) Assignment {
	if len(branches) == 0 {
		panic("assign: Given requires at least one branch")
	}
	bs := make([]Branch, len(branches))
	copy(bs, branches)

	return Assignment{source: source, target: target, branches: bs}
}

// Else returns a copy of the assignment with a default value for the case
// where no branch predicate matches.
func (a Assignment) Else(value any) Assignment {
	a.elseSet = true
	a.elseVal = value

	return a
}

// Source reports the selector the assignment reads from.
func (a Assignment) Source() selectkit.Selector { return a.source }

// Target reports the selector the assignment writes to.
func (a Assignment) Target() selectkit.Selector { return a.target }

// Derive computes the target value for the resolved source value.
// The second result reports whether the assignment applies at all (false
// when no branch matched and no Else was declared). Derive is pure: calling
// it twice with the same source yields the same result.
func (a Assignment) Derive(source any) (any, bool, error) {
	if len(a.branches) > 0 {
		for _, b := range a.branches {
			if b.when(source) {
				return b.value, true, nil
			}
		}
		if a.elseSet {
			return a.elseVal, true, nil
		}

		return nil, false, nil
	}

	if a.fn != nil {
		out, err := a.fn(source)

		return out, err == nil, err
	}

	// Identity copy.
	return source, true, nil
}
