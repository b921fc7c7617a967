package selectkit

import (
	"fmt"
	"reflect"
	"strings"
)

// variant discriminates the closed set of selector forms.
type variant uint8

const (
	variantField variant = iota
	variantType
	variantFieldPred
	variantTypePred
	variantRoot
	variantGroup
)

// Scope narrows a selector to positions whose ancestor chain contains a
// matching node: either any node of a type (type scope) or a specific field
// edge (field scope).
type Scope struct {
	target reflect.Type
	owner  reflect.Type
	field  string
}

// ScopeOf returns a type scope: the target must lie anywhere inside a value
// of type T.
func ScopeOf[T any]() Scope {
	return Scope{target: reflect.TypeOf((*T)(nil)).Elem()}
}

// FieldScope returns a field scope: the target must lie inside the named
// field of T.
func FieldScope[T any](name string) Scope {
	if name == "" {
		panic("selectkit: FieldScope requires a field name")
	}

	return Scope{owner: reflect.TypeOf((*T)(nil)).Elem(), field: name}
}

// Selector is an immutable declarative match expression. The zero value is
// not a valid selector; use the package constructors.
type Selector struct {
	v variant

	// variantField
	owner reflect.Type // nil ⇒ the traversal root type
	field string

	// variantType
	target reflect.Type

	// predicates
	fieldPred func(reflect.StructField) bool
	typePred  func(reflect.Type) bool

	// variantGroup
	members []Selector

	// conjunctive narrowing, valid on any variant
	depthSet  bool
	depth     int
	depthPred func(int) bool
	scopes    []Scope
}

// Field selects the named field of the root type being created.
func Field(name string) Selector {
	if name == "" {
		panic("selectkit: Field requires a field name")
	}

	return Selector{v: variantField, field: name}
}

// FieldOf selects the named field of the owning type T, wherever a T occurs
// in the graph.
func FieldOf[T any](name string) Selector {
	if name == "" {
		panic("selectkit: FieldOf requires a field name")
	}

	return Selector{v: variantField, owner: reflect.TypeOf((*T)(nil)).Elem(), field: name}
}

// All selects every position whose declared type is exactly T (pointer
// wrappers are ignored, so All[Phone]() also matches *Phone positions).
func All[T any]() Selector {
	return Selector{v: variantType, target: reflect.TypeOf((*T)(nil)).Elem()}
}

// AllOf is the non-generic form of All for a runtime reflect.Type.
func AllOf(t reflect.Type) Selector {
	if t == nil {
		panic("selectkit: AllOf requires a type")
	}

	return Selector{v: variantType, target: t}
}

// AllStrings is shorthand for All[string]().
func AllStrings() Selector { return All[string]() }

// Fields selects every struct field satisfying the predicate.
func Fields(pred func(reflect.StructField) bool) Selector {
	if pred == nil {
		panic("selectkit: Fields requires a predicate")
	}

	return Selector{v: variantFieldPred, fieldPred: pred}
}

// Types selects every position whose declared type satisfies the predicate
// (pointer wrappers stripped before the predicate is applied).
func Types(pred func(reflect.Type) bool) Selector {
	if pred == nil {
		panic("selectkit: Types requires a predicate")
	}

	return Selector{v: variantTypePred, typePred: pred}
}

// Root selects only the root position (depth 0).
func Root() Selector {
	return Selector{v: variantRoot}
}

// Group combines selectors with logical OR: the group matches when ANY
// member matches. Groups rank below all other selector forms.
func Group(members ...Selector) Selector {
	if len(members) == 0 {
		panic("selectkit: Group requires at least one member")
	}
	ms := make([]Selector, len(members))
	copy(ms, members)

	return Selector{v: variantGroup, members: ms}
}

// AtDepth narrows the selector to positions at exactly depth d (root = 0).
// The constraint is conjunctive with the base match.
func (s Selector) AtDepth(d int) Selector {
	if d < 0 {
		panic("selectkit: AtDepth requires a non-negative depth")
	}
	s.depthSet = true
	s.depth = d
	s.depthPred = nil

	return s
}

// AtDepthWhere narrows the selector to positions whose depth satisfies the
// predicate.
func (s Selector) AtDepthWhere(pred func(int) bool) Selector {
	if pred == nil {
		panic("selectkit: AtDepthWhere requires a predicate")
	}
	s.depthSet = false
	s.depthPred = pred

	return s
}

// Within narrows the selector to positions whose ancestor chain satisfies
// every given scope ("all strings within list X" semantics). Conjunctive
// with the base match.
func (s Selector) Within(scopes ...Scope) Selector {
	if len(scopes) == 0 {
		panic("selectkit: Within requires at least one scope")
	}
	all := make([]Scope, 0, len(s.scopes)+len(scopes))
	all = append(all, s.scopes...)
	all = append(all, scopes...)
	s.scopes = all

	return s
}

// String renders the selector for diagnostics, e.g. "field(Person.Name)",
// "all(time.Time).atDepth(2)".
func (s Selector) String() string {
	var b strings.Builder
	switch s.v {
	case variantField:
		if s.owner != nil {
			fmt.Fprintf(&b, "field(%s.%s)", s.owner, s.field)
		} else {
			fmt.Fprintf(&b, "field(%s)", s.field)
		}
	case variantType:
		fmt.Fprintf(&b, "all(%s)", s.target)
	case variantFieldPred:
		b.WriteString("fields(predicate)")
	case variantTypePred:
		b.WriteString("types(predicate)")
	case variantRoot:
		b.WriteString("root()")
	case variantGroup:
		parts := make([]string, len(s.members))
		for i, m := range s.members {
			parts[i] = m.String()
		}
		fmt.Fprintf(&b, "group(%s)", strings.Join(parts, ", "))
	default:
		b.WriteString("selector(invalid)")
	}
	if s.depthSet {
		fmt.Fprintf(&b, ".atDepth(%d)", s.depth)
	} else if s.depthPred != nil {
		b.WriteString(".atDepth(predicate)")
	}
	if len(s.scopes) > 0 {
		b.WriteString(".within(")
		for i, sc := range s.scopes {
			if i > 0 {
				b.WriteString(", ")
			}
			if sc.target != nil {
				fmt.Fprintf(&b, "scope(%s)", sc.target)
			} else {
				fmt.Fprintf(&b, "scope(%s.%s)", sc.owner, sc.field)
			}
		}
		b.WriteString(")")
	}

	return b.String()
}

// Specificity ranks selector forms for precedence resolution:
// 5 field-exact/root, 4 type-exact, 3 field-predicate, 2 type-predicate,
// 1 group. Depth and scope narrowing do not change the rank.
func Specificity(s Selector) int {
	switch s.v {
	case variantField, variantRoot:
		return 5
	case variantType:
		return 4
	case variantFieldPred:
		return 3
	case variantTypePred:
		return 2
	case variantGroup:
		return 1
	default:
		return 0
	}
}
