package selectkit

import "reflect"

// Link is one step in the path from the root object to the current position.
// For a struct field, Owner and Field identify the edge; for a collection
// element, Owner is the collection type and Field is empty.
type Link struct {
	// Owner is the type the edge originates from (nil for the root link).
	Owner reflect.Type

	// Field is the field name linking Owner to Type ("" for elements/root).
	Field string

	// Elem is the element index within Owner when the edge is a collection
	// element (-1 otherwise). Selectors never inspect it; it exists so two
	// sibling elements of one collection remain distinguishable positions.
	Elem int

	// Type is the declared type at this position.
	Type reflect.Type
}

// Context is the live traversal state at one position: the full ancestor
// chain, carried explicitly through the traversal. Contexts are immutable;
// Descend and WithType return new values sharing no mutable state, so a
// context held by a deferred callback keeps describing its position.
type Context struct {
	root  reflect.Type
	chain []Link
}

// NewContext returns the root context for a traversal of root.
func NewContext(root reflect.Type) *Context {
	return &Context{
		root:  root,
		chain: []Link{{Elem: -1, Type: root}},
	}
}

// Descend returns the context for the child position reached from the
// current one via (owner, field) — field is "" for collection elements.
//
// Complexity: O(depth) — the chain is copied to keep contexts immutable.
func (c *Context) Descend(owner reflect.Type, field string, t reflect.Type) *Context {
	chain := make([]Link, len(c.chain), len(c.chain)+1)
	copy(chain, c.chain)
	chain = append(chain, Link{Owner: owner, Field: field, Elem: -1, Type: t})

	return &Context{root: c.root, chain: chain}
}

// DescendElem returns the context for the idx-th element of the current
// collection position.
func (c *Context) DescendElem(owner reflect.Type, idx int, t reflect.Type) *Context {
	chain := make([]Link, len(c.chain), len(c.chain)+1)
	copy(chain, c.chain)
	chain = append(chain, Link{Owner: owner, Elem: idx, Type: t})

	return &Context{root: c.root, chain: chain}
}

// WithType returns a context at the same position with the current type
// replaced — used for pointer dereference and subtype substitution, which
// do not change depth or ancestry.
func (c *Context) WithType(t reflect.Type) *Context {
	chain := make([]Link, len(c.chain))
	copy(chain, c.chain)
	chain[len(chain)-1].Type = t

	return &Context{root: c.root, chain: chain}
}

// Root reports the root type of the traversal.
func (c *Context) Root() reflect.Type { return c.root }

// Depth reports the current depth; the root is at depth 0.
func (c *Context) Depth() int { return len(c.chain) - 1 }

// Current returns the link describing the current position.
func (c *Context) Current() Link { return c.chain[len(c.chain)-1] }

// Type reports the declared type at the current position.
func (c *Context) Type() reflect.Type { return c.Current().Type }

// Owner reports the type owning the current position (nil at the root).
func (c *Context) Owner() reflect.Type { return c.Current().Owner }

// FieldName reports the field name at the current position ("" for the root
// and for collection elements).
func (c *Context) FieldName() string { return c.Current().Field }

// Chain returns the links from root to the current position, inclusive.
// The returned slice must not be mutated.
func (c *Context) Chain() []Link { return c.chain }

// AncestorCount reports how many strict ancestors of the current position
// have the given type (pointers dereferenced). The current position itself
// is excluded, so a freshly entered type counts zero.
func (c *Context) AncestorCount(t reflect.Type) int {
	n := 0
	for _, l := range c.chain[:len(c.chain)-1] {
		if baseType(l.Type) == t {
			n++
		}
	}

	return n
}

// baseType strips pointer wrappers off t.
func baseType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}
