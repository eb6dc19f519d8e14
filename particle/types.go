package particle

import (
	"fmt"
	"math"
)

// Type is one entry of the particle types database.
type Type struct {
	// Name identifies the type and defines the canonical order.
	Name string
	// PrintName is a short human-readable label.
	PrintName string
	// Mass is the rest mass in MeV; NaN for generic groups.
	Mass float64
	// Charged marks particles that leave a track in the charged-particle
	// detectors.
	Charged bool

	sameAs *Type
}

// Is reports whether t and other denote the same particle, either
// directly or through a shared generic parent.
func (t *Type) Is(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}

	return t == other || t.sameAs == other || other.sameAs == t
}

// Less orders types by name.
func (t *Type) Less(other *Type) bool { return t.Name < other.Name }

// Compare returns -1, 0 or +1 ordering types by name, for slices.SortFunc.
func Compare(a, b *Type) int {
	switch {
	case a.Name < b.Name:
		return -1
	case a.Name > b.Name:
		return 1
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if math.IsNaN(t.Mass) {
		return t.Name
	}

	return fmt.Sprintf("%s(%.3f MeV)", t.Name, t.Mass)
}

// Database entries.
var (
	Nucleon   = &Type{Name: "Nucleon", PrintName: "N", Mass: math.NaN()}
	Proton    = &Type{Name: "Proton", PrintName: "p", Mass: 938.272046, Charged: true, sameAs: Nucleon}
	Neutron   = &Type{Name: "Neutron", PrintName: "n", Mass: 939.565378, sameAs: Nucleon}
	SigmaPlus = &Type{Name: "SigmaPlus", PrintName: "Σ+", Mass: 1189.37, Charged: true}
	Photon    = &Type{Name: "Photon", PrintName: "γ", Mass: 0}

	Pi0       = &Type{Name: "Pi0", PrintName: "π0", Mass: 134.9766}
	PiCharged = &Type{Name: "PiCharged", PrintName: "π±", Mass: 139.57018, Charged: true}
	PiPlus    = &Type{Name: "PiPlus", PrintName: "π+", Mass: 139.57018, Charged: true, sameAs: PiCharged}
	PiMinus   = &Type{Name: "PiMinus", PrintName: "π-", Mass: 139.57018, Charged: true, sameAs: PiCharged}
	K0s       = &Type{Name: "K0s", PrintName: "K0s", Mass: 497.614}

	ECharged  = &Type{Name: "eCharged", PrintName: "e±", Mass: 0.510998928, Charged: true}
	EPlus     = &Type{Name: "Positron", PrintName: "e+", Mass: 0.510998928, Charged: true, sameAs: ECharged}
	EMinus    = &Type{Name: "Electron", PrintName: "e-", Mass: 0.510998928, Charged: true, sameAs: ECharged}
	MuCharged = &Type{Name: "MuCharged", PrintName: "μ±", Mass: 105.658389, Charged: true}
	MuPlus    = &Type{Name: "MuPlus", PrintName: "μ+", Mass: 105.658389, Charged: true, sameAs: MuCharged}
	MuMinus   = &Type{Name: "MuMinus", PrintName: "μ-", Mass: 105.658389, Charged: true, sameAs: MuCharged}

	Eta      = &Type{Name: "Eta", PrintName: "η", Mass: 547.853}
	Omega    = &Type{Name: "Omega", PrintName: "ω", Mass: 782.65}
	EtaPrime = &Type{Name: "EtaPrime", PrintName: "η'", Mass: 957.78}
	Rho      = &Type{Name: "Rho", PrintName: "ρ0", Mass: 775.26}

	// BeamTarget is the generic root of a photoproduction decay tree.
	BeamTarget  = &Type{Name: "BeamTarget", PrintName: "(γ N)", Mass: math.NaN()}
	BeamProton  = &Type{Name: "BeamProton", PrintName: "(γ p)", Mass: 938.272046, Charged: true, sameAs: BeamTarget}
	BeamNeutron = &Type{Name: "BeamNeutron", PrintName: "(γ n)", Mass: 939.565378, sameAs: BeamTarget}
)

// NeutralMesons lists the mesons usually reconstructed from photons.
var NeutralMesons = []*Type{Pi0, Eta, Omega, EtaPrime}

// PhotoproductionThreshold returns the beam energy needed to produce
// particles of total mass mSum, in addition to the recoiling target, on a
// target at rest.
func PhotoproductionThreshold(mSum float64, target *Type) float64 {
	return mSum * (mSum + 2*target.Mass) / (2 * target.Mass)
}
