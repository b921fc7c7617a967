package selectkit

import "reflect"

// Match reports whether the selector matches the current traversal position.
//
// Algorithm: (1) group selectors delegate to their members (OR) with the
// group's own depth/scope narrowing applied on top; (2) the depth constraint
// is checked; (3) every scope must be satisfied by some link in the chain;
// (4) the base variant match is evaluated against the current link.
//
// Complexity: O(len(chain) · len(scopes)) worst case.
func Match(s Selector, ctx *Context) bool {
	// 1. Conjunctive narrowing first: cheap integer/depth checks, then scopes.
	if !depthOK(s, ctx) || !scopesOK(s, ctx) {
		return false
	}

	// 2. Base variant.
	switch s.v {
	case variantGroup:
		for _, m := range s.members {
			if Match(m, ctx) {
				return true
			}
		}

		return false

	case variantRoot:
		return ctx.Depth() == 0

	case variantField:
		if ctx.FieldName() != s.field {
			return false
		}
		owner := s.owner
		if owner == nil {
			owner = ctx.Root() // Field(name) binds to the root type
		}

		return ctx.Owner() == owner

	case variantType:
		return baseType(ctx.Type()) == s.target

	case variantFieldPred:
		owner := ctx.Owner()
		if owner == nil || ctx.FieldName() == "" {
			return false
		}
		sf, ok := owner.FieldByName(ctx.FieldName())
		if !ok {
			return false
		}

		return s.fieldPred(sf)

	case variantTypePred:
		t := baseType(ctx.Type())
		if t == nil {
			return false
		}

		return s.typePred(t)

	default:
		return false
	}
}

// depthOK checks the selector's depth constraint against the context.
func depthOK(s Selector, ctx *Context) bool {
	if s.depthSet {
		return ctx.Depth() == s.depth
	}
	if s.depthPred != nil {
		return s.depthPred(ctx.Depth())
	}

	return true
}

// scopesOK checks that every scope is satisfied by at least one link in the
// chain (the current position's own edge included: a value is "within" the
// field it sits in).
func scopesOK(s Selector, ctx *Context) bool {
	for _, sc := range s.scopes {
		if !scopeHit(sc, ctx.Chain()) {
			return false
		}
	}

	return true
}

// scopeHit reports whether any link in the chain satisfies the scope.
func scopeHit(sc Scope, chain []Link) bool {
	for _, l := range chain {
		if sc.target != nil {
			if baseType(l.Type) == sc.target {
				return true
			}

			continue
		}
		if l.Owner == sc.owner && l.Field == sc.field {
			return true
		}
	}

	return false
}

// MatchesType reports whether the selector could match a position of the
// given declared type, ignoring position-dependent constraints. Used by the
// assignment resolver for static overlap analysis.
func MatchesType(s Selector, t reflect.Type) bool {
	switch s.v {
	case variantType:
		return baseType(t) == s.target
	case variantTypePred:
		return s.typePred(baseType(t))
	default:
		return true // not statically decidable against a type alone
	}
}
