package uncertainty

import (
	"fmt"

	"github.com/katalvlaran/kinfit/detector"
	"github.com/katalvlaran/kinfit/particle"
)

// Constant returns the same sigmas for every particle of a given type in a
// given region. The Detector field of the stored Uncertainties is ignored.
type Constant struct {
	PhotonCB   Uncertainties
	PhotonTAPS Uncertainties
	ProtonCB   Uncertainties
	ProtonTAPS Uncertainties

	// BeamSigma is the beam energy resolution; zero means DefaultBeamSigma.
	BeamSigma float64
}

// Sigmas implements Model.
func (c *Constant) Sigmas(p *particle.Particle) (Uncertainties, error) {
	var u Uncertainties
	det := p.Detector()
	switch det {
	case detector.CB:
		switch {
		case p.Type.Is(particle.Photon):
			u = c.PhotonCB
		case p.Type.Is(particle.Proton):
			u = c.ProtonCB
		default:
			return Uncertainties{}, fmt.Errorf("Constant %s in %s: %w", p.Type.Name, det, ErrUnexpectedParticle)
		}
	case detector.TAPS:
		switch {
		case p.Type.Is(particle.Photon):
			u = c.PhotonTAPS
		case p.Type.Is(particle.Proton):
			u = c.ProtonTAPS
		default:
			return Uncertainties{}, fmt.Errorf("Constant %s in %s: %w", p.Type.Name, det, ErrUnexpectedParticle)
		}
	default:
		return Uncertainties{Detector: detector.None}, nil
	}
	u.Detector = det

	return u, nil
}

// BeamEnergySigma implements Model.
func (c *Constant) BeamEnergySigma(float64) float64 {
	if c.BeamSigma > 0 {
		return c.BeamSigma
	}

	return DefaultBeamSigma
}

// ConstantRelativeE is Constant with σ(Ek) given relative to Ek.
type ConstantRelativeE struct {
	Constant
}

// Sigmas implements Model.
func (c *ConstantRelativeE) Sigmas(p *particle.Particle) (Uncertainties, error) {
	u, err := c.Constant.Sigmas(p)
	if err != nil {
		return u, err
	}
	u.SigmaEk *= p.Ek()

	return u, nil
}

// NewMCLongTarget returns relative sigmas tuned on simulation with the
// long target: photons 1.07% (CB) and 3.5% (TAPS), protons unmeasured.
func NewMCLongTarget() *ConstantRelativeE {
	return &ConstantRelativeE{Constant: Constant{
		PhotonCB:   Uncertainties{SigmaEk: 0.0107, SigmaTheta: deg(3.79), SigmaPhi: deg(1.78)},
		PhotonTAPS: Uncertainties{SigmaEk: 0.035, SigmaTheta: deg(0.42), SigmaPhi: deg(1.15)},
		ProtonCB:   Uncertainties{SigmaEk: 0, SigmaTheta: deg(5.5), SigmaPhi: deg(5.3)},
		ProtonTAPS: Uncertainties{SigmaEk: 0, SigmaTheta: deg(2.8), SigmaPhi: deg(4.45)},
	}}
}
