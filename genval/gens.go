package genval

import (
	"math/rand"
	"strings"
	"time"
)

// Default string length bounds for generated strings.
const (
	defaultStringMinLen = 4
	defaultStringMaxLen = 10
)

const (
	lowerAlphabet = "abcdefghijklmnopqrstuvwxyz"
	upperAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitAlphabet = "0123456789"
)

// anchor is the fixed reference instant for temporal generation. Anchoring
// to a constant (instead of the wall clock) keeps seeded runs replayable
// across processes.
var anchor = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// temporalSpan bounds generated instants to ±10 years around the anchor.
const temporalSpan = 10 * 365 * 24 * time.Hour

// StringGen generates random strings. The zero value produced by String()
// yields lowercase alphabetic strings of default length.
type StringGen struct {
	minLen, maxLen int
	alphabet       string
	prefix         string
}

// String returns the default string generator builder.
func String() StringGen {
	return StringGen{minLen: defaultStringMinLen, maxLen: defaultStringMaxLen, alphabet: lowerAlphabet}
}

// Length fixes the generated length to exactly n (n > 0).
func (g StringGen) Length(n int) StringGen {
	if n <= 0 {
		panic("genval: String().Length requires n > 0")
	}
	g.minLen, g.maxLen = n, n

	return g
}

// LengthRange bounds the generated length to [lo, hi].
func (g StringGen) LengthRange(lo, hi int) StringGen {
	if lo <= 0 || hi < lo {
		panic("genval: String().LengthRange requires 0 < lo <= hi")
	}
	g.minLen, g.maxLen = lo, hi

	return g
}

// Digits switches the alphabet to decimal digits.
func (g StringGen) Digits() StringGen {
	g.alphabet = digitAlphabet

	return g
}

// Upper switches the alphabet to uppercase letters.
func (g StringGen) Upper() StringGen {
	g.alphabet = upperAlphabet

	return g
}

// Prefix prepends a fixed prefix to every generated string.
func (g StringGen) Prefix(p string) StringGen {
	g.prefix = p

	return g
}

// Generate implements Generator.
func (g StringGen) Generate(r *rand.Rand) (any, error) {
	n := g.minLen
	if g.maxLen > g.minLen {
		n += r.Intn(g.maxLen - g.minLen + 1)
	}
	var b strings.Builder
	b.Grow(len(g.prefix) + n)
	b.WriteString(g.prefix)
	for i := 0; i < n; i++ {
		b.WriteByte(g.alphabet[r.Intn(len(g.alphabet))])
	}

	return b.String(), nil
}

// IntGen generates integers within an inclusive range.
type IntGen struct {
	min, max int64
}

// Ints returns the default integer generator builder (positive values).
func Ints() IntGen {
	return IntGen{min: defaultNumericMin, max: defaultNumericMax}
}

// Range bounds generated values to [lo, hi].
func (g IntGen) Range(lo, hi int64) IntGen {
	if hi < lo {
		panic("genval: Ints().Range requires lo <= hi")
	}
	g.min, g.max = lo, hi

	return g
}

// Generate implements Generator.
func (g IntGen) Generate(r *rand.Rand) (any, error) {
	return g.min + r.Int63n(g.max-g.min+1), nil
}

// FloatGen generates floats within a half-open range [min, max).
type FloatGen struct {
	min, max float64
}

// Floats returns the default float generator builder (positive values).
func Floats() FloatGen {
	return FloatGen{min: defaultNumericMin, max: defaultNumericMax}
}

// Range bounds generated values to [lo, hi).
func (g FloatGen) Range(lo, hi float64) FloatGen {
	if hi < lo {
		panic("genval: Floats().Range requires lo <= hi")
	}
	g.min, g.max = lo, hi

	return g
}

// Generate implements Generator.
func (g FloatGen) Generate(r *rand.Rand) (any, error) {
	return g.min + r.Float64()*(g.max-g.min), nil
}

// oneOfGen picks uniformly from a fixed set of values.
type oneOfGen struct {
	values []any
}

// OneOf returns a generator picking uniformly among the given values.
func OneOf(values ...any) Generator {
	if len(values) == 0 {
		panic("genval: OneOf requires at least one value")
	}
	vs := make([]any, len(values))
	copy(vs, values)

	return oneOfGen{values: vs}
}

// Generate implements Generator.
func (g oneOfGen) Generate(r *rand.Rand) (any, error) {
	return g.values[r.Intn(len(g.values))], nil
}

// TemporalGen generates time.Time values around the fixed anchor.
type TemporalGen struct {
	past, future bool
}

// Temporal returns the default temporal generator builder (±10y around the
// anchor).
func Temporal() TemporalGen { return TemporalGen{} }

// Past restricts generated instants to strictly before the anchor.
func (g TemporalGen) Past() TemporalGen {
	g.past, g.future = true, false

	return g
}

// Future restricts generated instants to strictly after the anchor.
func (g TemporalGen) Future() TemporalGen {
	g.past, g.future = false, true

	return g
}

// Generate implements Generator.
func (g TemporalGen) Generate(r *rand.Rand) (any, error) {
	span := int64(temporalSpan / time.Second)
	offset := 1 + r.Int63n(span) // seconds, never zero
	switch {
	case g.past:
		return anchor.Add(-time.Duration(offset) * time.Second), nil
	case g.future:
		return anchor.Add(time.Duration(offset) * time.Second), nil
	default:
		// Uniform over ±span.
		return anchor.Add(time.Duration(r.Int63n(2*span+1)-span) * time.Second), nil
	}
}

// TextGen generates strings from a pattern template:
//
//	#d — random digit
//	#a — random lowercase letter
//	#A — random uppercase letter
//	## — literal '#'
//
// All other runes are copied verbatim.
type TextGen struct {
	pattern string
}

// Text returns a pattern-template generator.
func Text(pattern string) TextGen {
	if pattern == "" {
		panic("genval: Text requires a pattern")
	}

	return TextGen{pattern: pattern}
}

// Generate implements Generator.
func (g TextGen) Generate(r *rand.Rand) (any, error) {
	var b strings.Builder
	b.Grow(len(g.pattern))
	for i := 0; i < len(g.pattern); i++ {
		if g.pattern[i] != '#' || i+1 >= len(g.pattern) {
			b.WriteByte(g.pattern[i])

			continue
		}
		i++
		switch g.pattern[i] {
		case 'd':
			b.WriteByte(digitAlphabet[r.Intn(len(digitAlphabet))])
		case 'a':
			b.WriteByte(lowerAlphabet[r.Intn(len(lowerAlphabet))])
		case 'A':
			b.WriteByte(upperAlphabet[r.Intn(len(upperAlphabet))])
		case '#':
			b.WriteByte('#')
		default:
			b.WriteByte('#')
			b.WriteByte(g.pattern[i])
		}
	}

	return b.String(), nil
}

// CollectionGen is a sizing directive for collection positions: it tells the
// population engine how many elements to build, while the elements
// themselves are still generated recursively by the engine.
type CollectionGen struct {
	lo, hi int
	set    bool
}

// Collection returns a collection sizing directive builder.
func Collection() CollectionGen { return CollectionGen{} }

// Size fixes the element count to exactly n (n >= 0).
func (g CollectionGen) Size(n int) CollectionGen {
	if n < 0 {
		panic("genval: Collection().Size requires n >= 0")
	}
	g.lo, g.hi, g.set = n, n, true

	return g
}

// SizeRange bounds the element count to [lo, hi].
func (g CollectionGen) SizeRange(lo, hi int) CollectionGen {
	if lo < 0 || hi < lo {
		panic("genval: Collection().SizeRange requires 0 <= lo <= hi")
	}
	g.lo, g.hi, g.set = lo, hi, true

	return g
}

// Bounds resolves the effective size bounds, falling back to the given
// defaults when the directive was left unconfigured.
func (g CollectionGen) Bounds(defLo, defHi int) (int, int) {
	if !g.set {
		return defLo, defHi
	}

	return g.lo, g.hi
}

// Generate implements Generator. A directive is not a leaf generator; the
// engine must consume it via Bounds before reaching this path.
func (g CollectionGen) Generate(*rand.Rand) (any, error) {
	return nil, ErrNotLeaf
}
