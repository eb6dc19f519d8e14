package uncertainty

import (
	"errors"
	"math"

	"github.com/katalvlaran/kinfit/detector"
	"github.com/katalvlaran/kinfit/particle"
)

// ErrUnexpectedParticle is returned for particle types a model has no
// sigmas for.
var ErrUnexpectedParticle = errors.New("uncertainty: unexpected particle type")

// Uncertainties is the outcome of a Model for one particle.
type Uncertainties struct {
	// Detector is the region the particle belongs to; None means the model
	// could not place it.
	Detector detector.Type

	SigmaEk    float64 // kinetic energy, MeV
	SigmaTheta float64 // polar angle, rad
	SigmaPhi   float64 // azimuth, rad

	// SigmaCBR is the spread of the effective CB radius.
	SigmaCBR float64
	// SigmaTAPSRxy is the spread of the transverse TAPS radius; when zero
	// the fitter derives it from SigmaTheta.
	SigmaTAPSRxy float64
	// SigmaTAPSL is the spread of the effective TAPS z position.
	SigmaTAPSL float64

	// ShowerDepth is how far behind the front face the shower is
	// effectively located.
	ShowerDepth float64
}

// Model yields measurement uncertainties.
type Model interface {
	// Sigmas returns the uncertainties of p.
	Sigmas(p *particle.Particle) (Uncertainties, error)
	// BeamEnergySigma returns the tagged beam energy resolution at e.
	BeamEnergySigma(e float64) float64
}

// DefaultBeamSigma is the resolution of a tagger channel of 3 MeV width.
var DefaultBeamSigma = 3 / math.Sqrt(12)

func deg(d float64) float64 { return d * math.Pi / 180 }
