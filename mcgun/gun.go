// SPDX-License-Identifier: MIT
// Package: kinfit/mcgun
//
// gun.go: phase-space event generation and detector smearing.

package mcgun

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/kinfit/decaytree"
	"github.com/katalvlaran/kinfit/particle"
	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// maxRedraws bounds the redraws of a smeared energy that came out
// non-positive; after that the true energy is kept.
const maxRedraws = 100

// Event is one generated event.
type Event struct {
	TrueBeamE float64
	// BeamE is the tagged (smeared) beam energy.
	BeamE float64

	// True final state at generation level, without candidates.
	TrueProton  *particle.Particle
	TruePhotons []*particle.Particle

	// Measured final state; every particle carries a candidate. Particles
	// outside the detector have detector.None.
	Proton  *particle.Particle
	Photons []*particle.Particle

	// Tree holds the true four-vector of every node.
	Tree *decaytree.Node[*particle.Particle]
}

// Accepted reports whether every measured particle hit a calorimeter.
func (e *Event) Accepted() bool {
	if e.Proton == nil || !e.Proton.Detector().Valid() {
		return false
	}
	for _, g := range e.Photons {
		if !g.Detector().Valid() {
			return false
		}
	}

	return true
}

// Gun generates events. It is not safe for concurrent use.
type Gun struct {
	cfg  config
	rng  *rand.Rand
	norm distuv.Normal
}

// New returns a gun; without WithModel it does not smear.
func New(opts ...Option) *Gun {
	c := defaultConfig()
	for _, o := range opts {
		o(&c)
	}
	if c.model == nil {
		c.smear = false
	}

	return &Gun{
		cfg:  c,
		rng:  rand.New(c.src),
		norm: distuv.Normal{Mu: 0, Sigma: 1, Src: c.src},
	}
}

// Generate produces one event of tree at the true beam energy ebeam. The
// tree root is taken as beam plus target, whatever its type.
// Complexity: O(V) for V tree nodes.
func (g *Gun) Generate(tree decaytree.ParticleTypeTree, ebeam float64) (*Event, error) {
	// 1. Check leaves and threshold.
	var mSum float64
	for _, l := range tree.Leaves() {
		t := l.Get()
		if !t.Is(particle.Photon) && !t.Is(particle.Proton) {
			return nil, fmt.Errorf("Generate %s: %w", t.Name, ErrUnsupportedLeaf)
		}
	}
	for _, d := range tree.Daughters() {
		mSum += d.Get().Mass
	}
	// the root daughters include the recoiling nucleon
	if thr := particle.PhotoproductionThreshold(mSum-g.cfg.target.Mass, g.cfg.target); ebeam <= thr {
		return nil, fmt.Errorf("Generate at %g MeV (threshold %.1f): %w", ebeam, thr, ErrBelowThreshold)
	}

	// 2. Decay chain, parents before daughters.
	initial := fmom.NewPxPyPzE(0, 0, ebeam, ebeam+g.cfg.target.Mass)
	lvs := decaytree.DeepCopy(tree, func(t *particle.Type) *particle.Particle {
		return &particle.Particle{Type: t}
	})
	lvs.Get().P4 = initial
	lvs.Walk(func(n *decaytree.Node[*particle.Particle]) {
		ds := n.Daughters()
		if len(ds) == 0 {
			return
		}
		masses := make([]float64, len(ds))
		for i, d := range ds {
			masses[i] = d.Get().Type.Mass
		}
		for i, v := range g.decay(n.Get().P4, masses) {
			ds[i].Get().P4 = v
		}
	})

	// 3. Final state and measurement.
	ev := &Event{TrueBeamE: ebeam, BeamE: ebeam, Tree: lvs}
	for _, l := range lvs.Leaves() {
		p := l.Get()
		if p.Type.Is(particle.Proton) {
			ev.TrueProton = p
		} else {
			ev.TruePhotons = append(ev.TruePhotons, p)
		}
	}
	if g.cfg.smear {
		ev.BeamE += g.cfg.model.BeamEnergySigma(ebeam) * g.norm.Rand()
	}
	if ev.TrueProton != nil {
		ev.Proton = g.measure(ev.TrueProton)
	}
	for _, p := range ev.TruePhotons {
		ev.Photons = append(ev.Photons, g.measure(p))
	}

	return ev, nil
}

// GenerateAccepted calls Generate until an event is Accepted, at most
// tries times.
func (g *Gun) GenerateAccepted(tree decaytree.ParticleTypeTree, ebeam float64, tries int) (*Event, error) {
	for range tries {
		ev, err := g.Generate(tree, ebeam)
		if err != nil {
			return nil, err
		}
		if ev.Accepted() {
			return ev, nil
		}
	}

	return nil, fmt.Errorf("GenerateAccepted after %d tries: %w", tries, ErrNotAccepted)
}

// decay splits parent into particles of the given masses. The caller
// guarantees the parent mass exceeds their sum.
func (g *Gun) decay(parent fmom.PxPyPzE, masses []float64) []fmom.PxPyPzE {
	if len(masses) == 1 {
		return []fmom.PxPyPzE{parent}
	}
	m := particle.Mass(parent)

	// remainder mass, uniform between its kinematic bounds
	rest := masses[1:]
	var restMin float64
	for _, mi := range rest {
		restMin += mi
	}
	mRest := restMin
	if len(rest) > 1 {
		mRest = restMin + g.rng.Float64()*(m-masses[0]-restMin)
	}

	a, b := g.twoBody(m, masses[0], mRest)
	beta := particle.BoostVector(parent)
	first := particle.Boost(a, beta)
	remainder := particle.Boost(b, beta)

	return append([]fmom.PxPyPzE{first}, g.decay(remainder, rest)...)
}

// twoBody returns back-to-back daughters of a particle of mass m at rest.
func (g *Gun) twoBody(m, m1, m2 float64) (fmom.PxPyPzE, fmom.PxPyPzE) {
	p := math.Sqrt(math.Max((m*m-(m1+m2)*(m1+m2))*(m*m-(m1-m2)*(m1-m2)), 0)) / (2 * m)
	cosTheta := 2*g.rng.Float64() - 1
	phi := 2 * math.Pi * g.rng.Float64()
	dir := particle.Direction(math.Acos(cosTheta), phi)
	k := r3.Scale(p, dir)

	return fmom.NewPxPyPzE(k.X, k.Y, k.Z, math.Hypot(p, m1)),
		fmom.NewPxPyPzE(-k.X, -k.Y, -k.Z, math.Hypot(p, m2))
}

// measure returns the detector view of a true particle.
func (g *Gun) measure(truth *particle.Particle) *particle.Particle {
	ek, theta, phi := truth.Ek(), truth.Theta(), truth.Phi()
	cand := &particle.Candidate{
		CaloEnergy: ek,
		Theta:      theta,
		Phi:        phi,
		Detector:   g.cfg.geometry.FromAngles(theta, phi),
	}
	if !g.cfg.smear || !cand.Detector.Valid() {
		return particle.NewFromCandidate(truth.Type, cand)
	}

	u, err := g.cfg.model.Sigmas(particle.NewFromCandidate(truth.Type, cand))
	if err != nil || !u.Detector.Valid() {
		return particle.NewFromCandidate(truth.Type, cand)
	}
	cand.CaloEnergy = g.smearPositive(ek, u.SigmaEk)
	cand.Theta = clamp(theta+u.SigmaTheta*g.norm.Rand(), 0, math.Pi)
	cand.Phi = wrap(phi + u.SigmaPhi*g.norm.Rand())

	return particle.NewFromCandidate(truth.Type, cand)
}

func (g *Gun) smearPositive(v, sigma float64) float64 {
	if sigma == 0 {
		return v
	}
	for range maxRedraws {
		if s := v + sigma*g.norm.Rand(); s > 0 {
			return s
		}
	}

	return v
}

func clamp(v, lo, hi float64) float64 { return math.Min(math.Max(v, lo), hi) }

// wrap maps an angle into (−π, π].
func wrap(phi float64) float64 {
	for phi > math.Pi {
		phi -= 2 * math.Pi
	}
	for phi <= -math.Pi {
		phi += 2 * math.Pi
	}

	return phi
}

