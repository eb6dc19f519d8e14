package particle

import (
	"math"

	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
)

// LV builds a four-vector from its components.
func LV(px, py, pz, e float64) fmom.PxPyPzE { return fmom.NewPxPyPzE(px, py, pz, e) }

// LVFromAngles builds the four-vector of a particle with mass m and
// kinetic energy ek flying along (theta, phi).
func LVFromAngles(ek, theta, phi, m float64) fmom.PxPyPzE {
	e := ek + m
	p := math.Sqrt(math.Max(e*e-m*m, 0))
	dir := Direction(theta, phi)

	return fmom.NewPxPyPzE(p*dir.X, p*dir.Y, p*dir.Z, e)
}

// Direction returns the unit vector for polar angle theta and azimuth phi.
func Direction(theta, phi float64) r3.Vec {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)

	return r3.Vec{X: st * cp, Y: st * sp, Z: ct}
}

// Momentum returns the three-momentum part of v.
func Momentum(v fmom.PxPyPzE) r3.Vec { return r3.Vec{X: v.Px(), Y: v.Py(), Z: v.Pz()} }

// Add returns the sum of all given four-vectors; the empty sum is zero.
func Add(vs ...fmom.PxPyPzE) fmom.PxPyPzE {
	var px, py, pz, e float64
	for _, v := range vs {
		px += v.Px()
		py += v.Py()
		pz += v.Pz()
		e += v.E()
	}

	return fmom.NewPxPyPzE(px, py, pz, e)
}

// Sub returns a − b.
func Sub(a, b fmom.PxPyPzE) fmom.PxPyPzE {
	return fmom.NewPxPyPzE(a.Px()-b.Px(), a.Py()-b.Py(), a.Pz()-b.Pz(), a.E()-b.E())
}

// Mass returns the invariant mass of v. Space-like vectors get a negative
// mass of magnitude sqrt(|m²|).
func Mass(v fmom.PxPyPzE) float64 {
	m2 := v.M2()
	if m2 < 0 {
		return -math.Sqrt(-m2)
	}

	return math.Sqrt(m2)
}

// Theta returns the polar angle of v's momentum in [0, π].
func Theta(v fmom.PxPyPzE) float64 {
	p := Momentum(v)

	return math.Atan2(math.Hypot(p.X, p.Y), p.Z)
}

// Phi returns the azimuth of v's momentum in (−π, π].
func Phi(v fmom.PxPyPzE) float64 { return math.Atan2(v.Py(), v.Px()) }

// BoostVector returns β = p/E of v.
func BoostVector(v fmom.PxPyPzE) r3.Vec { return r3.Scale(1/v.E(), Momentum(v)) }

// Boost applies the Lorentz boost with velocity beta to v.
func Boost(v fmom.PxPyPzE, beta r3.Vec) fmom.PxPyPzE {
	b2 := r3.Dot(beta, beta)
	if b2 == 0 {
		return v
	}
	gamma := 1 / math.Sqrt(1-b2)
	p := Momentum(v)
	bp := r3.Dot(beta, p)
	gamma2 := (gamma - 1) / b2

	out := r3.Add(p, r3.Scale(gamma2*bp+gamma*v.E(), beta))

	return fmom.NewPxPyPzE(out.X, out.Y, out.Z, gamma*(v.E()+bp))
}
