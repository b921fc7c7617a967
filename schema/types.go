package schema

import (
	"errors"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// ErrNilType indicates that a nil reflect.Type was passed to a Provider.
var ErrNilType = errors.New("schema: nil type")

// Kind classifies a TypeNode for traversal purposes. It is coarser than
// reflect.Kind: anything the engine does not recurse into is a Leaf.
type Kind uint8

const (
	// Leaf is a terminal position: primitives, strings, and value types the
	// engine treats atomically (time.Time, uuid.UUID).
	Leaf Kind = iota

	// Struct is a composite with named fields to recurse into.
	Struct

	// Slice is a variable-length collection of Elem.
	Slice

	// Array is a fixed-length collection of Elem (length in Len).
	Array

	// Map is an associative collection of Key → Elem.
	Map

	// Pointer wraps Elem; traversal dereferences it transparently.
	Pointer

	// Interface is an abstract position that cannot be populated without a
	// concrete subtype substitution.
	Interface

	// Opaque is a position that can be neither generated nor introspected
	// (channels, functions, unsafe pointers).
	Opaque
)

// Field is one exported struct field in declaration order.
type Field struct {
	// Name is the exported field name.
	Name string

	// Type is the declared field type.
	Type reflect.Type

	// Index is the field's position within the owning struct.
	Index int

	// Tag carries the raw struct tag, for external constraint adapters.
	Tag reflect.StructTag
}

// TypeNode represents one position in the object-graph schema.
// Nodes are immutable after creation and owned by the Provider's cache.
type TypeNode struct {
	// Type is the described type.
	Type reflect.Type

	// Kind classifies the node for traversal.
	Kind Kind

	// Fields lists exported fields in declaration order (Struct only).
	Fields []Field

	// Elem is the element type (Slice/Array/Map/Pointer only).
	Elem reflect.Type

	// Key is the key type (Map only).
	Key reflect.Type

	// Len is the fixed length (Array only).
	Len int
}

// Provider supplies the TypeNode for any type. Implementations must be safe
// for concurrent use. The reflect-based Reader is the default; alternative
// providers (e.g. code-generated metadata) may be plugged in.
type Provider interface {
	Node(t reflect.Type) (*TypeNode, error)
}

// leafTypes are composite-looking types the engine treats as atomic values.
var leafTypes = map[reflect.Type]struct{}{
	reflect.TypeOf(time.Time{}): {},
	reflect.TypeOf(uuid.UUID{}): {},
}

// IsLeafType reports whether t is treated as an atomic value even though its
// reflect.Kind is composite.
func IsLeafType(t reflect.Type) bool {
	_, ok := leafTypes[t]

	return ok
}
