package genval_test

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fabrica/genval"
)

func rng(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

func TestDefaultRegistry_PositiveNumbers(t *testing.T) {
	reg := genval.DefaultRegistry()
	r := rng(1)

	g, ok := reg.Lookup(reflect.TypeOf(0))
	require.True(t, ok)
	for i := 0; i < 200; i++ {
		v, err := g.Generate(r)
		require.NoError(t, err)
		assert.Positive(t, v.(int64))
	}

	g, ok = reg.Lookup(reflect.TypeOf(float64(0)))
	require.True(t, ok)
	v, err := g.Generate(r)
	require.NoError(t, err)
	assert.Positive(t, v.(float64))
}

func TestDefaultRegistry_NonEmptyStrings(t *testing.T) {
	reg := genval.DefaultRegistry()
	r := rng(1)

	g, ok := reg.Lookup(reflect.TypeOf(""))
	require.True(t, ok)
	for i := 0; i < 50; i++ {
		v, err := g.Generate(r)
		require.NoError(t, err)
		assert.NotEmpty(t, v.(string))
	}
}

func TestDefaultRegistry_LeafSpecials(t *testing.T) {
	reg := genval.DefaultRegistry()
	r := rng(1)

	g, ok := reg.Lookup(reflect.TypeOf(time.Time{}))
	require.True(t, ok)
	v, err := g.Generate(r)
	require.NoError(t, err)
	assert.False(t, v.(time.Time).IsZero())

	g, ok = reg.Lookup(reflect.TypeOf(uuid.UUID{}))
	require.True(t, ok)
	v, err = g.Generate(r)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, v.(uuid.UUID))
}

func TestDefaultRegistry_UnknownType(t *testing.T) {
	reg := genval.DefaultRegistry()
	_, ok := reg.Lookup(reflect.TypeOf(make(chan int)))
	assert.False(t, ok)
}

func TestRegisterType_ShadowsKind(t *testing.T) {
	reg := genval.DefaultRegistry()
	reg.RegisterType(reflect.TypeOf(""), genval.OneOf("fixed"))

	g, ok := reg.Lookup(reflect.TypeOf(""))
	require.True(t, ok)
	v, err := g.Generate(rng(1))
	require.NoError(t, err)
	assert.Equal(t, "fixed", v)
}

func TestStringGen_DigitsLength(t *testing.T) {
	g := genval.String().Digits().Length(7)
	r := rng(42)

	for i := 0; i < 20; i++ {
		v, err := g.Generate(r)
		require.NoError(t, err)
		s := v.(string)
		assert.Len(t, s, 7)
		assert.Equal(t, "", strings.Trim(s, "0123456789"), "digits only: %q", s)
	}
}

func TestStringGen_PrefixAndRange(t *testing.T) {
	g := genval.String().Prefix("ID-").LengthRange(2, 4)
	r := rng(42)

	for i := 0; i < 20; i++ {
		v, err := g.Generate(r)
		require.NoError(t, err)
		s := v.(string)
		assert.True(t, strings.HasPrefix(s, "ID-"))
		assert.GreaterOrEqual(t, len(s), 5)
		assert.LessOrEqual(t, len(s), 7)
	}
}

func TestIntGen_Range(t *testing.T) {
	g := genval.Ints().Range(5, 10)
	r := rng(7)

	for i := 0; i < 100; i++ {
		v, err := g.Generate(r)
		require.NoError(t, err)
		n := v.(int64)
		assert.GreaterOrEqual(t, n, int64(5))
		assert.LessOrEqual(t, n, int64(10))
	}
}

func TestOneOf(t *testing.T) {
	g := genval.OneOf("+1", "+44")
	r := rng(3)

	seen := map[any]bool{}
	for i := 0; i < 50; i++ {
		v, err := g.Generate(r)
		require.NoError(t, err)
		assert.Contains(t, []any{"+1", "+44"}, v)
		seen[v] = true
	}
	assert.Len(t, seen, 2, "both values observed over 50 draws")
}

func TestTemporal_PastFuture(t *testing.T) {
	r := rng(9)
	cut := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	past, err := genval.Temporal().Past().Generate(r)
	require.NoError(t, err)
	assert.True(t, past.(time.Time).Before(cut))

	future, err := genval.Temporal().Future().Generate(r)
	require.NoError(t, err)
	assert.True(t, future.(time.Time).After(cut))
}

func TestText_Pattern(t *testing.T) {
	g := genval.Text("#d#d#d-#A#a ##")
	r := rng(5)

	v, err := g.Generate(r)
	require.NoError(t, err)
	s := v.(string)
	require.Len(t, s, 8)
	for i := 0; i < 3; i++ {
		assert.Contains(t, "0123456789", string(s[i]))
	}
	assert.Equal(t, byte('-'), s[3])
	assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ", string(s[4]))
	assert.Contains(t, "abcdefghijklmnopqrstuvwxyz", string(s[5]))
	assert.Equal(t, " #", s[6:8])
}

func TestCollection_Bounds(t *testing.T) {
	lo, hi := genval.Collection().Bounds(2, 6)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 6, hi)

	lo, hi = genval.Collection().Size(5).Bounds(2, 6)
	assert.Equal(t, 5, lo)
	assert.Equal(t, 5, hi)

	lo, hi = genval.Collection().SizeRange(1, 3).Bounds(2, 6)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 3, hi)
}

func TestCollection_IsNotLeaf(t *testing.T) {
	_, err := genval.Collection().Size(1).Generate(rng(1))
	assert.ErrorIs(t, err, genval.ErrNotLeaf)
}

func TestBuilders_AreImmutable(t *testing.T) {
	base := genval.String()
	withDigits := base.Digits()

	v, err := base.Generate(rng(1))
	require.NoError(t, err)
	assert.Equal(t, "", strings.Trim(v.(string), "abcdefghijklmnopqrstuvwxyz"),
		"base builder still lowercase-alphabetic after deriving a digits builder")
	_ = withDigits
}

func TestDeterminism_SameSeedSameValues(t *testing.T) {
	g := genval.String().LengthRange(3, 12)

	a, err := g.Generate(rng(77))
	require.NoError(t, err)
	b, err := g.Generate(rng(77))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
