package settings_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fabrica/settings"
)

func TestDefaults(t *testing.T) {
	s := settings.Defaults()

	assert.Equal(t, 8, s.Int(settings.MaxDepth))
	assert.Equal(t, 2, s.Int(settings.CollectionMinSize))
	assert.Equal(t, 6, s.Int(settings.CollectionMaxSize))
	assert.Equal(t, 1000, s.Int(settings.RetryBudget))
	assert.InDelta(t, 1.0/6.0, s.Float64(settings.NullableProbability), 1e-9)
}

func TestWith_LayersAndDoesNotMutate(t *testing.T) {
	base := settings.Defaults()
	over := base.With(settings.MaxDepth, 2)

	assert.Equal(t, 2, over.Int(settings.MaxDepth))
	assert.Equal(t, 8, base.Int(settings.MaxDepth), "parent layer untouched")
	// Fallthrough to parent for keys the layer does not bind.
	assert.Equal(t, 6, over.Int(settings.CollectionMaxSize))
}

func TestWith_CallSiteBeatsInjected(t *testing.T) {
	injected := settings.Defaults().With(settings.MaxDepth, 4)
	callSite := injected.With(settings.MaxDepth, 2)

	assert.Equal(t, 2, callSite.Int(settings.MaxDepth))
}

func TestLayer_MergesProfile(t *testing.T) {
	profile, err := settings.FromYAML(strings.NewReader(
		"populate.max_depth: 3\npopulate.collection.min_size: 1\n"))
	require.NoError(t, err)

	s := settings.Defaults().Layer(profile)
	assert.Equal(t, 3, s.Int(settings.MaxDepth))
	assert.Equal(t, 1, s.Int(settings.CollectionMinSize))
	assert.Equal(t, 6, s.Int(settings.CollectionMaxSize), "unset keys fall through")
}

func TestGet_UnboundKey(t *testing.T) {
	_, ok := settings.Defaults().Get(settings.Key("custom.toggle"))
	assert.False(t, ok)

	s := settings.Defaults().With(settings.Key("custom.toggle"), true)
	assert.True(t, s.Bool(settings.Key("custom.toggle")), "custom keys allowed programmatically")
}

func TestFromYAML_UnknownKey(t *testing.T) {
	_, err := settings.FromYAML(strings.NewReader("populate.max_dept: 3\n"))
	assert.ErrorIs(t, err, settings.ErrUnknownKey)
}

func TestFromYAML_NonScalar(t *testing.T) {
	_, err := settings.FromYAML(strings.NewReader("populate.max_depth: [1, 2]\n"))
	assert.ErrorIs(t, err, settings.ErrBadValue)
}

func TestFromYAML_Empty(t *testing.T) {
	s, err := settings.FromYAML(strings.NewReader(""))
	require.NoError(t, err)
	_, ok := s.Get(settings.MaxDepth)
	assert.False(t, ok)
}

func TestFromYAML_CoercionOnRead(t *testing.T) {
	s, err := settings.FromYAML(strings.NewReader(`populate.nullable_probability: "0.25"`))
	require.NoError(t, err)
	assert.InDelta(t, 0.25, s.Float64(settings.NullableProbability), 1e-9)
}
