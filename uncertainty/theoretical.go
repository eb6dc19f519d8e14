package uncertainty

import (
	"fmt"
	"math"

	"github.com/katalvlaran/kinfit/detector"
	"github.com/katalvlaran/kinfit/particle"
)

// Beamtime selects the beamtime dependent part of the CB energy resolution.
type Beamtime int

const (
	EPT2014 Beamtime = iota
	Eta2007
)

// String implements fmt.Stringer.
func (b Beamtime) String() string {
	switch b {
	case EPT2014:
		return "EPT_2014"
	case Eta2007:
		return "Eta_2007"
	default:
		return fmt.Sprintf("Beamtime(%d)", int(b))
	}
}

// Theoretical parametrises all sigmas and the shower depth as functions of
// the cluster energy, separately for photons and protons in each region.
type Theoretical struct {
	Beamtime Beamtime
	Geometry detector.Geometry
}

// NewTheoretical returns the parametrisation for beamtime b with the
// default geometry.
func NewTheoretical(b Beamtime) *Theoretical {
	return &Theoretical{Beamtime: b, Geometry: detector.DefaultGeometry()}
}

// BeamEnergySigma implements Model.
func (m *Theoretical) BeamEnergySigma(float64) float64 { return 1.3 }

// Sigmas implements Model.
func (m *Theoretical) Sigmas(p *particle.Particle) (Uncertainties, error) {
	det := p.Detector()
	ek := p.Ek()
	e := ek / 1000 // parametrisations are in GeV
	theta := p.Theta()
	u := Uncertainties{Detector: det}

	switch det {
	case detector.CB:
		switch {
		case p.Type.Is(particle.Photon):
			u.SigmaEk = m.cbPhotonRelE(e) * ek
			u.SigmaTheta = 7.69518e-03/math.Pow(e+4.86197e-01, 1.79483) + 1.57948e-02
			u.ShowerDepth = -3.36631/math.Pow(e+9.40334e-02, 5.35372e-01) + 4.36397e+01
			u.SigmaCBR = 1.05 * (1.76634e-01/math.Pow(e, 6.26983e-01) + 2.48218)
		case p.Type.Is(particle.Proton):
			u.SigmaEk = 0
			u.SigmaTheta = 1.25 * (1.38476e-04/math.Pow(e+5.30098e-01, 7.61558) + 3.75841e-02 + 0.004)
			u.ShowerDepth = poly3(e, 2.52512e+01, 6.44248, 1.96292e+02, -1.61958e+02)
			u.SigmaCBR = 1.05 * poly3(e, 3.5783e-02, 3.47172e-01, 1.50307, -4.88434e-01)
		default:
			return Uncertainties{}, fmt.Errorf("Theoretical %s in %s: %w", p.Type.Name, det, ErrUnexpectedParticle)
		}
		// the depth parametrisation is measured from the target centre
		u.ShowerDepth -= m.Geometry.CBInnerRadius
		u.SigmaPhi = u.SigmaTheta / math.Sin(theta)

	case detector.TAPS:
		switch {
		case p.Type.Is(particle.Photon):
			u.SigmaEk = tapsPhotonRelE(e) * ek
			u.SigmaTAPSRxy = 0.85 * (3.28138e+02/math.Pow(e, 7.29002e-04) - 3.27381e+02)
			u.ShowerDepth = 0.978*-2.99791e+01/math.Pow(e+1.75852e-03, 4.99643e-02) + 4.14362e+01
			u.SigmaTAPSL = 2.83139/math.Pow(e, 1.02537e-01) - 7.53507e-01
		case p.Type.Is(particle.Proton):
			u.SigmaEk = 0
			u.ShowerDepth = 1.05 * poly3(e, -1.73216e-02, 3.83753, 1.54891e+02, -1.328e+02)
			u.SigmaTAPSL = poly3(e, 8.43187e-03, 3.63264e-01, 7.17476e-01, 7.33715)
		default:
			return Uncertainties{}, fmt.Errorf("Theoretical %s in %s: %w", p.Type.Name, det, ErrUnexpectedParticle)
		}
		rxy := m.tapsRxy(theta, u.ShowerDepth)
		if p.Type.Is(particle.Proton) {
			u.SigmaTAPSRxy = 3.27709e+02/math.Pow(e+4.99670e-02, 5.55520e-03) - 3.27819e+02
			if rxy > 41 {
				u.SigmaTAPSRxy *= 1.3
			}
		}
		u.SigmaPhi = u.SigmaTAPSRxy / rxy

	default:
		u.Detector = detector.None
	}

	return u, nil
}

func (m *Theoretical) cbPhotonRelE(e float64) float64 {
	init := 0.014/math.Pow(e+0.0025, 0.35) + 0.0032*e
	var add float64
	switch m.Beamtime {
	case Eta2007:
		add = 0.0255
	default:
		add = 0.052
	}

	return math.Hypot(init, add)
}

func tapsPhotonRelE(e float64) float64 {
	init := 1.88319e-04/math.Pow(e-0.002, 1.42657) + 3.96356e-02 + 1.8*1.52351e-02*e
	add := 0.031 + 0.04*e

	return math.Hypot(init, add)
}

// tapsRxy is the transverse shower position in the TAPS plane.
func (m *Theoretical) tapsRxy(theta, depth float64) float64 {
	lz := m.Geometry.TAPSZPosition + depth*math.Cos(theta)

	return math.Tan(theta) * lz
}

func poly3(x, p0, p1, p2, p3 float64) float64 {
	return p0 + x*(p1+x*(p2+x*p3))
}
