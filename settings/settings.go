package settings

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for settings handling.
var (
	// ErrUnknownKey indicates a YAML profile referenced a key that is not
	// declared by any engine component.
	ErrUnknownKey = errors.New("settings: unknown key")

	// ErrBadValue indicates a value could not be coerced to the type the key
	// requires.
	ErrBadValue = errors.New("settings: bad value")
)

// Key identifies one typed setting.
type Key string

// Engine settings keys.
const (
	// MaxDepth bounds how deep the population engine recurses (root = 0).
	MaxDepth Key = "populate.max_depth"

	// SelfReferenceDepth bounds how many ancestors of the same type a
	// position may have before recursion stops (cycle guard).
	SelfReferenceDepth Key = "populate.self_reference_depth"

	// CollectionMinSize / CollectionMaxSize bound generated element counts.
	CollectionMinSize Key = "populate.collection.min_size"
	CollectionMaxSize Key = "populate.collection.max_size"

	// NullableProbability is the engine-wide probability of substituting the
	// zero value at a nullable-marked position.
	NullableProbability Key = "populate.nullable_probability"

	// RetryBudget bounds regeneration attempts for unique and filter
	// customizations before the run fails as exhausted.
	RetryBudget Key = "populate.retry_budget"
)

// knownKeys guards YAML profiles against typos; programmatic With accepts
// any key so callers may carry their own feature toggles.
var knownKeys = map[Key]struct{}{
	MaxDepth:            {},
	SelfReferenceDepth:  {},
	CollectionMinSize:   {},
	CollectionMaxSize:   {},
	NullableProbability: {},
	RetryBudget:         {},
}

// Default values for every engine key.
const (
	defaultMaxDepth           = 8
	defaultSelfReferenceDepth = 8
	defaultCollectionMinSize  = 2
	defaultCollectionMaxSize  = 6
	defaultRetryBudget        = 1000
)

// defaultNullableProbability is approximately one null per six draws.
const defaultNullableProbability = 1.0 / 6.0

// Settings is one immutable layer of key → value with a parent fallback.
type Settings struct {
	parent *Settings
	values map[Key]any
}

// Defaults returns the global default layer.
func Defaults() *Settings {
	return &Settings{values: map[Key]any{
		MaxDepth:            defaultMaxDepth,
		SelfReferenceDepth:  defaultSelfReferenceDepth,
		CollectionMinSize:   defaultCollectionMinSize,
		CollectionMaxSize:   defaultCollectionMaxSize,
		NullableProbability: defaultNullableProbability,
		RetryBudget:         defaultRetryBudget,
	}}
}

// With returns a new layer on top of s binding k to v. s is not mutated.
func (s *Settings) With(k Key, v any) *Settings {
	return &Settings{parent: s, values: map[Key]any{k: v}}
}

// Layer returns a new layer on top of s containing every binding of over.
// Bindings in over shadow those in s; neither operand is mutated.
func (s *Settings) Layer(over *Settings) *Settings {
	if over == nil {
		return s
	}
	merged := make(map[Key]any)
	over.flattenInto(merged)

	return &Settings{parent: s, values: merged}
}

// flattenInto writes all bindings of s (parents first, so children shadow)
// into dst.
func (s *Settings) flattenInto(dst map[Key]any) {
	if s == nil {
		return
	}
	s.parent.flattenInto(dst)
	for k, v := range s.values {
		dst[k] = v
	}
}

// Get resolves k through the layers, reporting whether any layer binds it.
func (s *Settings) Get(k Key) (any, bool) {
	for layer := s; layer != nil; layer = layer.parent {
		if v, ok := layer.values[k]; ok {
			return v, true
		}
	}

	return nil, false
}

// Int resolves k as an int; unknown keys and uncoercible values yield 0.
func (s *Settings) Int(k Key) int {
	v, ok := s.Get(k)
	if !ok {
		return 0
	}

	return cast.ToInt(v)
}

// Float64 resolves k as a float64; unknown keys yield 0.
func (s *Settings) Float64(k Key) float64 {
	v, ok := s.Get(k)
	if !ok {
		return 0
	}

	return cast.ToFloat64(v)
}

// Bool resolves k as a bool; unknown keys yield false.
func (s *Settings) Bool(k Key) bool {
	v, ok := s.Get(k)
	if !ok {
		return false
	}

	return cast.ToBool(v)
}

// String resolves k as a string; unknown keys yield "".
func (s *Settings) String(k Key) string {
	v, ok := s.Get(k)
	if !ok {
		return ""
	}

	return cast.ToString(v)
}

// FromYAML reads one profile layer from YAML: a flat mapping of declared
// keys to scalar values. Unknown keys fail with ErrUnknownKey so typos in
// environment profiles surface immediately; non-scalar values fail with
// ErrBadValue.
func FromYAML(r io.Reader) (*Settings, error) {
	raw := make(map[string]any)
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("settings: %w", err)
	}

	values := make(map[Key]any, len(raw))
	for name, v := range raw {
		k := Key(name)
		if _, ok := knownKeys[k]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, name)
		}
		switch v.(type) {
		case bool, int, int64, uint64, float64, string:
			values[k] = v
		default:
			return nil, fmt.Errorf("%w: %q must be a scalar", ErrBadValue, name)
		}
	}

	return &Settings{values: values}, nil
}
