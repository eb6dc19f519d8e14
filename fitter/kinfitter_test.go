package fitter_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/kinfit/decaytree"
	"github.com/katalvlaran/kinfit/detector"
	"github.com/katalvlaran/kinfit/fitter"
	"github.com/katalvlaran/kinfit/mcgun"
	"github.com/katalvlaran/kinfit/particle"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/katalvlaran/kinfit/uncertainty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKinFitter_Errors(t *testing.T) {
	model := uncertainty.NewMCLongTarget()

	_, err := fitter.NewKinFitter("k", 0, model)
	assert.ErrorIs(t, err, fitter.ErrNoPhotons)

	_, err = fitter.NewKinFitter("k", 2, nil)
	assert.ErrorIs(t, err, fitter.ErrNoModel)

	_, err = fitter.NewKinFitter("k", 2, model, fitter.WithSolverSettings(solver.Settings{}))
	assert.ErrorIs(t, err, solver.ErrBadSettings)
}

func TestKinFitter_Preconditions(t *testing.T) {
	ev := exactEvent(t, decaytree.Eta_2g, 1400, 1)
	k, err := fitter.NewKinFitter("k", 2, uncertainty.NewMCLongTarget())
	require.NoError(t, err)

	_, err = k.DoFit()
	assert.ErrorIs(t, err, fitter.ErrNotBound)

	assert.ErrorIs(t, k.SetPhotons(ev.Photons[:1]), fitter.ErrPhotonCount)
	assert.ErrorIs(t, k.SetZVertexSigma(1), fitter.ErrZVertexDisabled)
	assert.False(t, k.IsZVertexFitEnabled())
	assert.True(t, math.IsNaN(k.Chi2NDoF()))
	assert.Equal(t, solver.NoConstraints, k.Status())
}

func TestKinFitter_ExactEvent(t *testing.T) {
	ev := exactEvent(t, decaytree.Eta_2g, 1400, 2)
	obs := &recorder{}
	k, err := fitter.NewKinFitter("eta", 2, uncertainty.NewMCLongTarget(), fitter.WithObserver(obs))
	require.NoError(t, err)

	r, err := k.Fit(ev.BeamE, ev.Proton, ev.Photons)
	require.NoError(t, err)

	// 4 constraints, one unmeasured proton energy
	assert.Equal(t, solver.Success, r.Status, r.String())
	assert.Equal(t, 3, r.NDoF)
	assert.InDelta(t, 0.0, r.ChiSquare, 1e-6)
	assert.InDelta(t, 1.0, r.Probability, 1e-6)
	assert.Len(t, obs.fits, 1)

	assert.InDelta(t, ev.TrueProton.Ek(), k.FittedProton().Ek(), 1e-3)
	for i, g := range k.FittedPhotons() {
		assert.InDelta(t, ev.TruePhotons[i].P4.E(), g.P4.E(), 1e-3)
	}
	assert.InDelta(t, 1400.0, k.FittedBeamE(), 1e-6)
	assert.InDelta(t, 1400.0, k.FittedBeamParticle().P4.Pz(), 1e-6)
	assert.Equal(t, 0.0, k.FittedZVertex())
	assert.InDelta(t, 0.0, k.BeamEPull(), 1e-3)
	assert.Len(t, k.FitParticles(), 3)
	assert.InDelta(t, 0.0, k.Chi2NDoF(), 1e-6)
	assert.Equal(t, r.NIterations, k.Iterations())
	assert.Equal(t, r.Probability, k.Probability())
}

func TestKinFitter_Refit(t *testing.T) {
	gun := mcgun.New(mcgun.WithSeed(11), mcgun.WithModel(uncertainty.NewMCLongTarget()))
	ev, err := gun.GenerateAccepted(decaytree.Get(decaytree.Direct2Pi0_4g), 1200, 1000)
	require.NoError(t, err)

	k, err := fitter.NewKinFitter("refit", 4, uncertainty.NewMCLongTarget())
	require.NoError(t, err)
	a, err := k.Fit(ev.BeamE, ev.Proton, ev.Photons)
	require.NoError(t, err)
	b, err := k.DoFit()
	require.NoError(t, err)

	assert.Equal(t, a.Status, b.Status)
	assert.InDelta(t, a.ChiSquare, b.ChiSquare, 1e-9)
	assert.Greater(t, a.ChiSquare, 0.0)
}

func TestKinFitter_SmearedEvents(t *testing.T) {
	model := uncertainty.NewMCLongTarget()
	gun := mcgun.New(mcgun.WithSeed(2024), mcgun.WithModel(model))
	k, err := fitter.NewKinFitter("smeared", 2, model)
	require.NoError(t, err)

	const events = 20
	ok := 0
	for range events {
		ev, err := gun.GenerateAccepted(decaytree.Get(decaytree.Eta_2g), 1400, 1000)
		require.NoError(t, err)
		r, err := k.Fit(ev.BeamE, ev.Proton, ev.Photons)
		require.NoError(t, err)
		if r.Success() {
			ok++
			assert.GreaterOrEqual(t, r.Probability, 0.0)
			assert.LessOrEqual(t, r.Probability, 1.0)
		}
	}
	assert.GreaterOrEqual(t, ok, events*3/4)
}

func TestKinFitter_ZVertex(t *testing.T) {
	ev := exactEvent(t, decaytree.Eta_2g, 1400, 3)

	k, err := fitter.NewKinFitter("z", 2, uncertainty.NewMCLongTarget(), fitter.WithZVertexFit())
	require.NoError(t, err)
	require.True(t, k.IsZVertexFitEnabled())
	_, err = k.Fit(ev.BeamE, ev.Proton, ev.Photons)
	assert.ErrorIs(t, err, fitter.ErrZVertexSigmaUnset)

	assert.ErrorIs(t, k.SetZVertexSigma(-1), fitter.ErrInvalidSigma)
	require.NoError(t, k.SetZVertexSigma(3))
	r, err := k.DoFit()
	require.NoError(t, err)
	assert.Equal(t, solver.Success, r.Status, r.String())
	assert.Equal(t, 3, r.NDoF)
	assert.InDelta(t, 0.0, k.FittedZVertex(), 1e-3)
	assert.InDelta(t, 0.0, k.ZVertexPull(), 1e-3)
}

// remeasure returns p, emitted from a vertex at z0, as reconstructed
// with the vertex assumed at the origin. Showers sit on the front faces,
// matching the zero shower depth of NewMCLongTarget.
func remeasure(p *particle.Particle, z0 float64, g detector.Geometry) *particle.Particle {
	cand := *p.Candidate
	switch cand.Detector {
	case detector.CB:
		// intersect the flight line with the CB sphere
		d := particle.Direction(p.Theta(), p.Phi())
		r := g.CBInnerRadius
		b := z0 * d.Z
		s := -b + math.Sqrt(b*b-z0*z0+r*r)
		cand.Theta = math.Acos((z0 + s*d.Z) / r)
	case detector.TAPS:
		lz := g.TAPSZPosition
		cand.Theta = math.Atan2((lz-z0)*math.Tan(p.Theta()), lz)
	}

	return particle.NewFromCandidate(p.Type, &cand)
}

func TestKinFitter_ZVertexRecovers(t *testing.T) {
	const (
		z0     = 2.0
		sigmaZ = 10.0
	)
	g := detector.DefaultGeometry()
	model := uncertainty.NewMCLongTarget()
	withZ, err := fitter.NewKinFitter("z", 2, model, fitter.WithZVertexSigma(sigmaZ))
	require.NoError(t, err)
	withoutZ, err := fitter.NewKinFitter("noz", 2, model)
	require.NoError(t, err)

	for seed := uint64(20); seed < 24; seed++ {
		ev := exactEvent(t, decaytree.Eta_2g, 1400, seed)
		proton := remeasure(ev.Proton, z0, g)
		photons := []*particle.Particle{remeasure(ev.Photons[0], z0, g), remeasure(ev.Photons[1], z0, g)}

		r, err := withZ.Fit(ev.BeamE, proton, photons)
		require.NoError(t, err)
		require.Equal(t, solver.Success, r.Status, r.String())
		assert.InDelta(t, z0, withZ.FittedZVertex(), 0.2)
		// only the vertex prior contributes
		assert.Less(t, r.ChiSquare, 4*(z0/sigmaZ)*(z0/sigmaZ))
		for i, f := range withZ.FittedPhotons() {
			assert.InDelta(t, ev.TruePhotons[i].Theta(), f.Theta(), 0.01)
		}

		ref, err := withoutZ.Fit(ev.BeamE, proton, photons)
		require.NoError(t, err)
		assert.Greater(t, ref.ChiSquare, r.ChiSquare)
		assert.Equal(t, 0.0, withoutZ.FittedZVertex())
	}
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { fitter.WithObserver(nil) })
	assert.Panics(t, func() { fitter.WithTarget(nil) })
	assert.Panics(t, func() { fitter.WithNodeSetup(nil) })
	assert.Panics(t, func() { fitter.WithZVertexSigma(-1) })
	assert.Panics(t, func() { fitter.WithZVertexSigma(math.NaN()) })
	assert.NotPanics(t, func() { fitter.WithZVertexSigma(0) })
}

func TestKinFitter_Target(t *testing.T) {
	k, err := fitter.NewKinFitter("n", 1, uncertainty.NewMCLongTarget(), fitter.WithTarget(particle.Neutron))
	require.NoError(t, err)
	k.SetEgammaBeam(500)
	assert.InDelta(t, 500+particle.Neutron.Mass, k.FittedBeamParticle().P4.E(), 1e-9)
}
