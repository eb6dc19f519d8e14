package particle

import (
	"github.com/katalvlaran/kinfit/detector"
	"go-hep.org/x/hep/fmom"
)

// Candidate is a reconstructed calorimeter measurement. Fitters only read
// candidates and never modify them.
type Candidate struct {
	CaloEnergy float64       // deposited cluster energy, MeV
	Theta      float64       // polar angle, rad
	Phi        float64       // azimuth, rad
	Detector   detector.Type // calorimeter the cluster belongs to

	// CentralElement is the crystal with the largest deposit. Uncertainty
	// models may use it; the fit itself does not.
	CentralElement int
	// VetoEnergy is the energy seen by the charged-particle veto in front
	// of the cluster.
	VetoEnergy float64
}

// Particle is a physical particle hypothesis: a type plus a four-momentum,
// optionally backed by the candidate it was reconstructed from.
type Particle struct {
	Type      *Type
	P4        fmom.PxPyPzE
	Candidate *Candidate
}

// New returns a particle of type t with kinetic energy ek along (theta, phi).
func New(t *Type, ek, theta, phi float64) *Particle {
	return &Particle{Type: t, P4: LVFromAngles(ek, theta, phi, t.Mass)}
}

// NewFromCandidate interprets cand as a particle of type t, taking the
// cluster energy as kinetic energy.
func NewFromCandidate(t *Type, cand *Candidate) *Particle {
	p := New(t, cand.CaloEnergy, cand.Theta, cand.Phi)
	p.Candidate = cand

	return p
}

// NewFromP4 wraps an existing four-vector.
func NewFromP4(t *Type, v fmom.PxPyPzE) *Particle {
	return &Particle{Type: t, P4: v}
}

// Ek returns the kinetic energy.
func (p *Particle) Ek() float64 { return p.P4.E() - p.Type.Mass }

// Theta returns the polar angle.
func (p *Particle) Theta() float64 { return Theta(p.P4) }

// Phi returns the azimuth.
func (p *Particle) Phi() float64 { return Phi(p.P4) }

// Detector returns the region of the backing candidate, or detector.None.
func (p *Particle) Detector() detector.Type {
	if p.Candidate == nil {
		return detector.None
	}

	return p.Candidate.Detector
}

// Sum adds up the four-momenta of ps.
func Sum(ps []*Particle) fmom.PxPyPzE {
	vs := make([]fmom.PxPyPzE, len(ps))
	for i, p := range ps {
		vs[i] = p.P4
	}

	return Add(vs...)
}
