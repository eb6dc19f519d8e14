package decaytree_test

import (
	"testing"

	"github.com/katalvlaran/kinfit/decaytree"
	"github.com/katalvlaran/kinfit/particle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannels_AllBuild(t *testing.T) {
	for _, c := range decaytree.Channels() {
		tree := decaytree.Get(c)
		require.NotNil(t, tree, c.String())
		assert.Same(t, particle.BeamProton, tree.Get())

		got, err := decaytree.Lookup(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	assert.Nil(t, decaytree.Get(decaytree.Channel(99)))
	assert.Equal(t, "Channel(99)", decaytree.Channel(99).String())

	_, err := decaytree.Lookup("Nope")
	assert.ErrorIs(t, err, decaytree.ErrUnknownChannel)
}

// TestGet_FreshCopies verifies that callers may modify returned trees.
func TestGet_FreshCopies(t *testing.T) {
	a := decaytree.Get(decaytree.Eta_2g)
	b := decaytree.Get(decaytree.Eta_2g)
	a.RemoveDaughter(a.Daughters()[0])
	assert.Len(t, b.Daughters(), 2)
}

func TestDecayString(t *testing.T) {
	assert.Equal(t, "(γ p) → [η → [γ γ] p]", decaytree.DecayString(decaytree.Get(decaytree.Eta_2g)))
	assert.Equal(t, "(γ p) → [p]", decaytree.DecayString(decaytree.BaseTree()))
}
