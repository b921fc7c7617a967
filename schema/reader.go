package schema

import (
	"reflect"
	"sync"
)

// Reader is the reflect-based Provider with a concurrent node cache.
//
// The cache is the only shared resource between concurrent generation runs:
// reads take the shared lock, the first use of a type takes the exclusive
// lock. Nodes are pure functions of the type, so a racing recomputation
// between RUnlock and Lock is idempotent.
type Reader struct {
	mu    sync.RWMutex
	cache map[reflect.Type]*TypeNode
}

// NewReader returns an empty Reader.
func NewReader() *Reader {
	return &Reader{cache: make(map[reflect.Type]*TypeNode)}
}

// Node returns the TypeNode for t, computing and caching it on first use.
// Returns ErrNilType for a nil type.
//
// Complexity: O(#fields) on first use per type, O(1) after.
func (r *Reader) Node(t reflect.Type) (*TypeNode, error) {
	if t == nil {
		return nil, ErrNilType
	}

	// Fast path: shared-lock cache hit.
	r.mu.RLock()
	if n, ok := r.cache[t]; ok {
		r.mu.RUnlock()

		return n, nil
	}
	r.mu.RUnlock()

	// Slow path: build outside any lock (pure function of t), then publish.
	n := describe(t)

	r.mu.Lock()
	// Another goroutine may have published meanwhile; keep the first node so
	// callers never observe two distinct nodes for one type.
	if prior, ok := r.cache[t]; ok {
		r.mu.Unlock()

		return prior, nil
	}
	r.cache[t] = n
	r.mu.Unlock()

	return n, nil
}

// describe builds the TypeNode for t without consulting the cache.
func describe(t reflect.Type) *TypeNode {
	if IsLeafType(t) {
		return &TypeNode{Type: t, Kind: Leaf}
	}

	switch t.Kind() {
	case reflect.Struct:
		return &TypeNode{Type: t, Kind: Struct, Fields: exportedFields(t)}
	case reflect.Slice:
		return &TypeNode{Type: t, Kind: Slice, Elem: t.Elem()}
	case reflect.Array:
		return &TypeNode{Type: t, Kind: Array, Elem: t.Elem(), Len: t.Len()}
	case reflect.Map:
		return &TypeNode{Type: t, Kind: Map, Key: t.Key(), Elem: t.Elem()}
	case reflect.Pointer:
		return &TypeNode{Type: t, Kind: Pointer, Elem: t.Elem()}
	case reflect.Interface:
		return &TypeNode{Type: t, Kind: Interface}
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return &TypeNode{Type: t, Kind: Opaque}
	default:
		return &TypeNode{Type: t, Kind: Leaf}
	}
}

// exportedFields lists the exported fields of a struct type in declaration
// order. Unexported fields are invisible to the engine: they cannot be set
// via reflection from outside the defining package.
func exportedFields(t reflect.Type) []Field {
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		fields = append(fields, Field{Name: sf.Name, Type: sf.Type, Index: i, Tag: sf.Tag})
	}

	return fields
}
