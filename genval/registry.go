package genval

import (
	"errors"
	"math/rand"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// ErrNotLeaf indicates that a sizing directive (Collection) was invoked as a
// leaf generator. The population engine consumes directives before this path
// is ever reached; hitting it means a directive was registered for a
// non-collection type.
var ErrNotLeaf = errors.New("genval: sizing directive is not a leaf generator")

// Generator produces one value from the run's deterministic RNG.
// Implementations must not consult any source of randomness other than r.
type Generator interface {
	Generate(r *rand.Rand) (any, error)
}

// Func adapts a plain function to the Generator interface.
type Func func(r *rand.Rand) (any, error)

// Generate implements Generator.
func (f Func) Generate(r *rand.Rand) (any, error) { return f(r) }

// Registry maps exact types and reflect kinds to default generators.
// A Registry is not safe for concurrent mutation; build it up front and
// share it read-only across runs.
type Registry struct {
	types map[reflect.Type]Generator
	kinds map[reflect.Kind]Generator
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[reflect.Type]Generator),
		kinds: make(map[reflect.Kind]Generator),
	}
}

// RegisterType binds a generator to an exact type, shadowing any kind-level
// default. Panics on nil arguments (programmer error at setup time).
func (reg *Registry) RegisterType(t reflect.Type, g Generator) {
	if t == nil || g == nil {
		panic("genval: RegisterType requires a type and a generator")
	}
	reg.types[t] = g
}

// RegisterKind binds a generator to a reflect.Kind.
func (reg *Registry) RegisterKind(k reflect.Kind, g Generator) {
	if g == nil {
		panic("genval: RegisterKind requires a generator")
	}
	reg.kinds[k] = g
}

// Lookup resolves the generator for t: exact type first, then kind.
func (reg *Registry) Lookup(t reflect.Type) (Generator, bool) {
	if g, ok := reg.types[t]; ok {
		return g, true
	}
	g, ok := reg.kinds[t.Kind()]

	return g, ok
}

// Default numeric bounds: positive values only, so an unasserted fixture
// never carries a surprising zero or negative.
const (
	defaultNumericMin = 1
	defaultNumericMax = 10000
)

// intKindMax caps small integer kinds so reflect.Convert never wraps.
func intKindMax(k reflect.Kind) int64 {
	switch k {
	case reflect.Int8:
		return 127
	case reflect.Int16:
		return 10000 // within range
	default:
		return defaultNumericMax
	}
}

func uintKindMax(k reflect.Kind) uint64 {
	switch k {
	case reflect.Uint8:
		return 255
	default:
		return defaultNumericMax
	}
}

// DefaultRegistry builds the stock registry: booleans, positive integers,
// positive floats, non-empty alphabetic strings, anchored timestamps and
// RNG-derived UUIDs.
func DefaultRegistry() *Registry {
	reg := NewRegistry()

	reg.RegisterKind(reflect.Bool, Func(func(r *rand.Rand) (any, error) {
		return r.Intn(2) == 1, nil
	}))

	for _, k := range []reflect.Kind{reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64} {
		maxV := intKindMax(k)
		reg.RegisterKind(k, Func(func(r *rand.Rand) (any, error) {
			return defaultNumericMin + r.Int63n(maxV-defaultNumericMin+1), nil
		}))
	}

	for _, k := range []reflect.Kind{reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr} {
		maxV := uintKindMax(k)
		reg.RegisterKind(k, Func(func(r *rand.Rand) (any, error) {
			return defaultNumericMin + uint64(r.Int63n(int64(maxV)-defaultNumericMin+1)), nil
		}))
	}

	for _, k := range []reflect.Kind{reflect.Float32, reflect.Float64} {
		reg.RegisterKind(k, Func(func(r *rand.Rand) (any, error) {
			return defaultNumericMin + r.Float64()*(defaultNumericMax-defaultNumericMin), nil
		}))
	}

	reg.RegisterKind(reflect.String, Func(func(r *rand.Rand) (any, error) {
		return String().Generate(r)
	}))

	reg.RegisterType(reflect.TypeOf(time.Time{}), Temporal())

	reg.RegisterType(reflect.TypeOf(uuid.UUID{}), Func(func(r *rand.Rand) (any, error) {
		// math/rand.Rand implements io.Reader deterministically.
		return uuid.NewRandomFromReader(r)
	}))

	return reg
}
