package detector

import (
	"fmt"
	"math"
)

// Type is the detector region a particle belongs to.
type Type uint8

const (
	// None is the zero value: no (or an unknown) region.
	None Type = iota
	// CB is the spherical central calorimeter.
	CB
	// TAPS is the planar forward calorimeter.
	TAPS
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case None:
		return "None"
	case CB:
		return "CB"
	case TAPS:
		return "TAPS"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the two known regions.
func (t Type) Valid() bool { return t == CB || t == TAPS }

// Geometry holds the detector placement used by the fit parametrisation.
// Lengths are in cm, angles in radians.
type Geometry struct {
	// CBInnerRadius is the distance from the target centre to the CB
	// crystal front faces.
	CBInnerRadius float64
	// TAPSZPosition is the distance from the target centre to the TAPS
	// front face along the beam axis.
	TAPSZPosition float64

	// CBThetaMin/Max and TAPSThetaMin/Max bound the polar acceptance of
	// each region; FromAngles uses them.
	CBThetaMin, CBThetaMax     float64
	TAPSThetaMin, TAPSThetaMax float64
}

const (
	DefaultCBInnerRadius = 25.4  // cm
	DefaultTAPSZPosition = 145.7 // cm
)

// DefaultGeometry returns the standard setup.
func DefaultGeometry() Geometry {
	return Geometry{
		CBInnerRadius: DefaultCBInnerRadius,
		TAPSZPosition: DefaultTAPSZPosition,
		CBThetaMin:    deg(20),
		CBThetaMax:    deg(160),
		TAPSThetaMin:  deg(2),
		TAPSThetaMax:  deg(20),
	}
}

// FromAngles classifies a direction into a region; CB wins where the two
// acceptances touch. Directions outside
// both acceptances (down the beam pipe or backwards) yield None.
// The azimuth does not matter for either calorimeter.
func (g Geometry) FromAngles(theta, _ float64) Type {
	switch {
	case theta >= g.CBThetaMin && theta <= g.CBThetaMax:
		return CB
	case theta >= g.TAPSThetaMin && theta <= g.TAPSThetaMax:
		return TAPS
	default:
		return None
	}
}

func deg(d float64) float64 { return d * math.Pi / 180 }
