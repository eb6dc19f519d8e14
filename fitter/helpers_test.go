package fitter_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/kinfit/decaytree"
	"github.com/katalvlaran/kinfit/detector"
	"github.com/katalvlaran/kinfit/mcgun"
	"github.com/katalvlaran/kinfit/particle"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/stretchr/testify/require"
)

func deg(d float64) float64 { return d * math.Pi / 180 }

// exactEvent generates an accepted event without smearing.
func exactEvent(t testing.TB, c decaytree.Channel, ebeam float64, seed uint64) *mcgun.Event {
	t.Helper()
	ev, err := mcgun.New(mcgun.WithSeed(seed), mcgun.WithoutSmearing()).
		GenerateAccepted(decaytree.Get(c), ebeam, 1000)
	require.NoError(t, err)

	return ev
}

func candidate(typ *particle.Type, ek, thetaDeg, phiDeg float64, det detector.Type) *particle.Particle {
	return particle.NewFromCandidate(typ, &particle.Candidate{
		CaloEnergy: ek, Theta: deg(thetaDeg), Phi: deg(phiDeg), Detector: det,
	})
}

// recorder is an Observer keeping every call.
type recorder struct {
	fits       []solver.Result
	iterations [][2]int
}

func (r *recorder) ObserveFit(_ string, res solver.Result) { r.fits = append(r.fits, res) }

func (r *recorder) ObserveIterations(_ string, prepared, kept int) {
	r.iterations = append(r.iterations, [2]int{prepared, kept})
}
