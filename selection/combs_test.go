package selection_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/kinfit/decaytree"
	"github.com/katalvlaran/kinfit/detector"
	"github.com/katalvlaran/kinfit/mcgun"
	"github.com/katalvlaran/kinfit/particle"
	"github.com/katalvlaran/kinfit/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cands(es ...float64) []*particle.Candidate {
	out := make([]*particle.Candidate, len(es))
	for i, e := range es {
		out[i] = &particle.Candidate{CaloEnergy: e, Theta: math.Pi / 2, Phi: float64(i), Detector: detector.CB}
	}

	return out
}

func TestProtonPhotonCombs_Build(t *testing.T) {
	cs := cands(50, 200, 10, 120)
	combs := selection.NewProtonPhotonCombs(cs).Combinations()
	require.Equal(t, 4, combs.Len())

	for i, c := range combs.All() {
		assert.Same(t, cs[i], c.Proton.Candidate)
		assert.Same(t, particle.Proton, c.Proton.Type)
		require.Len(t, c.Photons, 3)
		for j, g := range c.Photons {
			assert.NotSame(t, cs[i], g.Candidate)
			assert.Same(t, particle.Photon, g.Type)
			if j > 0 {
				assert.GreaterOrEqual(t, c.Photons[j-1].Ek(), g.Ek())
			}
		}
		assert.True(t, math.IsNaN(c.DiscardedEk))
		assert.True(t, math.IsNaN(c.MissingMass))
	}
}

func TestCombinations_IndependentCopies(t *testing.T) {
	p := selection.NewProtonPhotonCombs(cands(50, 200, 10, 120))
	a := p.Combinations().FilterMult(1, math.Inf(1))
	b := p.Combinations()

	assert.Len(t, a.All()[0].Photons, 1)
	assert.Len(t, b.All()[0].Photons, 3)
}

func TestFilterMult(t *testing.T) {
	combs := selection.NewProtonPhotonCombs(cands(50, 200, 10, 120)).Combinations()
	combs.FilterMult(2, 55)

	// only proton 10 discards the 50 MeV photon, all others the 10 MeV one
	require.Equal(t, 4, combs.Len())
	assert.InDelta(t, 10.0, combs.All()[0].DiscardedEk, 1e-9)
	assert.InDelta(t, 50.0, combs.All()[2].DiscardedEk, 1e-9)
	for _, c := range combs.All() {
		assert.Len(t, c.Photons, 2)
	}

	combs.FilterMult(1, 100)
	// second pass discards the weaker of the two kept photons
	for _, c := range combs.All() {
		assert.Less(t, c.DiscardedEk, 100.0)
	}
	assert.Equal(t, 2, combs.Len())

	assert.Equal(t, 0, selection.NewProtonPhotonCombs(cands(1, 2)).Combinations().FilterMult(2, math.Inf(1)).Len())
}

func TestFilterIMAndMM(t *testing.T) {
	ev, err := mcgun.New(mcgun.WithSeed(3), mcgun.WithoutSmearing()).
		GenerateAccepted(decaytree.Get(decaytree.Eta_2g), 1400, 1000)
	require.NoError(t, err)
	cs := []*particle.Candidate{ev.Photons[0].Candidate, ev.Proton.Candidate, ev.Photons[1].Candidate}

	protonComb := func(combs *selection.Combinations) (selection.Comb, bool) {
		for _, c := range combs.All() {
			if c.Proton.Candidate == ev.Proton.Candidate {
				return c, true
			}
		}

		return selection.Comb{}, false
	}

	combs := selection.NewProtonPhotonCombs(cs).Combinations().
		FilterIM(selection.Interval{Min: 500, Max: 600})
	c, ok := protonComb(combs)
	require.True(t, ok)
	assert.InDelta(t, particle.Eta.Mass, particle.Mass(c.PhotonSum), 1e-6)
	for _, c := range combs.All() {
		assert.True(t, math.IsNaN(c.MissingMass))
	}

	combs.FilterMM(ev.BeamE, selection.Interval{Min: 900, Max: 980}, particle.Proton)
	c, ok = protonComb(combs)
	require.True(t, ok)
	assert.InDelta(t, particle.Proton.Mass, c.MissingMass, 1e-6)
}

func TestFilterMM_CallsIM(t *testing.T) {
	combs := selection.NewProtonPhotonCombs(cands(100, 100, 100)).Combinations().
		FilterMM(1000, selection.NoCut, particle.Proton)
	require.Equal(t, 3, combs.Len())
	for _, c := range combs.All() {
		assert.False(t, math.IsNaN(c.MissingMass))
		assert.InDelta(t, 200.0, c.PhotonSum.E(), 1e-9)
	}
}

func TestFilterCustomAndObserver(t *testing.T) {
	var steps []string
	combs := selection.NewProtonPhotonCombs(cands(50, 200, 10)).Combinations().
		Observe(func(s string) { steps = append(steps, s) }, "c/")
	assert.Equal(t, []string{"c/", "c/", "c/"}, steps)

	steps = nil
	combs.FilterCustom(func(c selection.Comb) bool { return c.Proton.Ek() > 100 }, "soft proton")
	assert.Equal(t, 2, combs.Len())
	assert.Equal(t, []string{"c/soft proton", "c/soft proton"}, steps)

	steps = nil
	combs.FilterIM(selection.NoCut).FilterCustom(func(selection.Comb) bool { return false }, "")
	assert.Empty(t, steps)
}

func TestInterval(t *testing.T) {
	iv := selection.Interval{Min: 100, Max: 200}
	assert.True(t, iv.Contains(100))
	assert.True(t, iv.Contains(200))
	assert.False(t, iv.Contains(99))
	assert.False(t, iv.Contains(math.NaN()))
	assert.True(t, selection.NoCut.IsNoCut())
	assert.False(t, iv.IsNoCut())

	assert.Equal(t, "100<IM<200", iv.RangeString("IM"))
	assert.Equal(t, "IM<5", selection.Interval{Min: math.Inf(-1), Max: 5}.RangeString("IM"))
	assert.Equal(t, "5<IM", selection.Interval{Min: 5, Max: math.Inf(1)}.RangeString("IM"))
	assert.Equal(t, "IM", selection.NoCut.RangeString("IM"))
}
