package randsrc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/fabrica/randsrc"
)

func TestNew_SameSeedSameStream(t *testing.T) {
	a := randsrc.New(42)
	b := randsrc.New(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Rand().Int63(), b.Rand().Int63())
	}
}

func TestNew_ZeroSeedIsStable(t *testing.T) {
	a := randsrc.New(0)
	b := randsrc.New(0)

	assert.Equal(t, a.Seed(), b.Seed())
	assert.NotZero(t, a.Seed(), "zero seed must resolve to a reportable non-zero default")
	assert.Equal(t, a.Rand().Int63(), b.Rand().Int63())
}

func TestNewRandom_ReportsSeed(t *testing.T) {
	s := randsrc.NewRandom()
	assert.NotZero(t, s.Seed())

	// Replaying the reported seed reproduces the stream.
	replay := randsrc.New(s.Seed())
	assert.Equal(t, replay.Rand().Int63(), randsrc.New(s.Seed()).Rand().Int63())
}

func TestDerive_IndependentStreams(t *testing.T) {
	parent := randsrc.New(7)
	c1 := parent.Derive(1)
	c2 := parent.Derive(1) // same stream id, parent state advanced

	assert.NotEqual(t, c1.Seed(), c2.Seed())
	assert.NotEqual(t, c1.Rand().Int63(), c2.Rand().Int63())
}

func TestDerive_Deterministic(t *testing.T) {
	c1 := randsrc.New(7).Derive(3)
	c2 := randsrc.New(7).Derive(3)

	assert.Equal(t, c1.Seed(), c2.Seed())
}
