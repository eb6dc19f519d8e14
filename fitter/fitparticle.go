// SPDX-License-Identifier: MIT
// Package: kinfit/fitter
//
// fitparticle.go: per-particle fit variables and the region-dependent mapping.

package fitter

import (
	"fmt"
	"math"

	"github.com/katalvlaran/kinfit/detector"
	"github.com/katalvlaran/kinfit/particle"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/katalvlaran/kinfit/uncertainty"
	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Variable is one scalar fit variable. Value, Sigma and Pull are owned by
// the solver during a fit; the Before fields keep the measurement so the
// same variable can be refit repeatedly.
type Variable struct {
	Value       float64
	Sigma       float64
	Pull        float64
	ValueBefore float64
	SigmaBefore float64
}

// SetValueSigma stores a measurement and remembers it as Before.
func (v *Variable) SetValueSigma(value, sigma float64) {
	v.Value, v.Sigma, v.Pull = value, sigma, 0
	v.ValueBefore, v.SigmaBefore = value, sigma
}

// Restore resets Value and Sigma to the measurement.
func (v *Variable) Restore() {
	v.Value, v.Sigma, v.Pull = v.ValueBefore, v.SigmaBefore, 0
}

func (v *Variable) handle(fixed bool) solver.Handle {
	return solver.Handle{Value: &v.Value, Sigma: &v.Sigma, Pull: &v.Pull, Fixed: fixed}
}

// Axis indices of FitParticle.Vars.
const (
	AxisInvEk = iota // 1/Ek
	AxisTheta        // CB: θ, TAPS: Rxy
	AxisPhi          // φ
	AxisRadial       // CB: R, TAPS: Lz
	numAxes
)

// FitParticle holds the four fit variables of one particle.
type FitParticle struct {
	// Particle is the unfitted input. It is never modified.
	Particle *particle.Particle
	Vars     [numAxes]Variable

	name        string
	geometry    detector.Geometry
	detector    detector.Type
	showerDepth float64
	fittedZ     float64
}

// NewFitParticle returns an unbound fit particle.
func NewFitParticle(name string, g detector.Geometry) *FitParticle {
	return &FitParticle{name: name, geometry: g}
}

// Name returns the solver variable name.
func (f *FitParticle) Name() string { return f.name }

// Detector returns the region chosen at the last Set.
func (f *FitParticle) Detector() detector.Type { return f.detector }

// ShowerDepth returns the shower depth used at the last Set.
func (f *FitParticle) ShowerDepth() float64 { return f.showerDepth }

// IsEkUnmeasured reports whether the kinetic energy is free in the fit.
func (f *FitParticle) IsEkUnmeasured() bool { return f.Vars[AxisInvEk].SigmaBefore == 0 }

// Set binds p using the sigmas from model. The region and sigmas stay
// fixed until the next Set.
func (f *FitParticle) Set(p *particle.Particle, model uncertainty.Model) error {
	// 1. Validate input.
	if p == nil || p.Candidate == nil {
		return fmt.Errorf("%s: %w", f.name, ErrNoCandidate)
	}
	u, err := model.Sigmas(p)
	if err != nil {
		return fmt.Errorf("%s: %w", f.name, err)
	}
	ek := p.Ek()
	if !(ek > 0) {
		return fmt.Errorf("%s: Ek=%g: %w", f.name, ek, ErrBadEnergy)
	}
	theta, phi := p.Theta(), p.Phi()

	// 2. Region dependent axes 1 and 3.
	switch u.Detector {
	case detector.CB:
		f.Vars[AxisTheta].SetValueSigma(theta, u.SigmaTheta)
		f.Vars[AxisRadial].SetValueSigma(f.geometry.CBInnerRadius+u.ShowerDepth, u.SigmaCBR)
	case detector.TAPS:
		lz := f.geometry.TAPSZPosition + u.ShowerDepth*math.Cos(theta)
		sigmaRxy := u.SigmaTAPSRxy
		if sigmaRxy == 0 {
			c := math.Cos(theta)
			sigmaRxy = lz / (c * c) * u.SigmaTheta
		}
		f.Vars[AxisTheta].SetValueSigma(math.Tan(theta)*lz, sigmaRxy)
		f.Vars[AxisRadial].SetValueSigma(lz, u.SigmaTAPSL)
	default:
		return fmt.Errorf("%s: %s from model: %w", f.name, u.Detector, ErrUnknownDetector)
	}

	// 3. Shared axes.
	f.Vars[AxisInvEk].SetValueSigma(1/ek, u.SigmaEk/(ek*ek))
	f.Vars[AxisPhi].SetValueSigma(phi, u.SigmaPhi)

	f.Particle = p
	f.detector = u.Detector
	f.showerDepth = u.ShowerDepth
	f.fittedZ = 0

	return nil
}

// SetEk overrides the start value of the kinetic energy.
func (f *FitParticle) SetEk(ek float64) { f.Vars[AxisInvEk].Value = 1 / ek }

// Restore resets all variables to their measurement.
func (f *FitParticle) Restore() {
	for i := range f.Vars {
		f.Vars[i].Restore()
	}
	f.fittedZ = 0
}

// handles links the variables; only the energy may be unmeasured, other
// axes without sigma are held fixed.
func (f *FitParticle) handles() []solver.Handle {
	hs := make([]solver.Handle, numAxes)
	for i := range f.Vars {
		hs[i] = f.Vars[i].handle(i != AxisInvEk && f.Vars[i].Sigma == 0)
	}

	return hs
}

// LorentzVec maps axis values onto a four-vector for a vertex displaced
// by z along the beam axis. It only reads values and the bound region.
func (f *FitParticle) LorentzVec(values []float64, z float64) fmom.PxPyPzE {
	phi := values[AxisPhi]

	// shower position seen from the vertex
	var x r3.Vec
	switch f.detector {
	case detector.CB:
		x = r3.Scale(values[AxisRadial], particle.Direction(values[AxisTheta], phi))
		x.Z -= z
	case detector.TAPS:
		sp, cp := math.Sincos(phi)
		rxy := values[AxisTheta]
		x = r3.Vec{X: rxy * cp, Y: rxy * sp, Z: values[AxisRadial] - z}
	}

	m := f.Particle.Type.Mass
	e := 1/values[AxisInvEk] + m
	p := math.Sqrt(math.Max(e*e-m*m, 0))
	dir := r3.Unit(x)

	return fmom.NewPxPyPzE(p*dir.X, p*dir.Y, p*dir.Z, e)
}

// Values returns the current variable values.
func (f *FitParticle) Values() []float64 {
	out := make([]float64, numAxes)
	for i, v := range f.Vars {
		out[i] = v.Value
	}

	return out
}

// ValuesBefore returns the measured values.
func (f *FitParticle) ValuesBefore() []float64 {
	out := make([]float64, numAxes)
	for i, v := range f.Vars {
		out[i] = v.ValueBefore
	}

	return out
}

// SigmasBefore returns the measured sigmas.
func (f *FitParticle) SigmasBefore() []float64 {
	out := make([]float64, numAxes)
	for i, v := range f.Vars {
		out[i] = v.SigmaBefore
	}

	return out
}

// Pulls returns the pulls of the last fit.
func (f *FitParticle) Pulls() []float64 {
	out := make([]float64, numAxes)
	for i, v := range f.Vars {
		out[i] = v.Pull
	}

	return out
}

// AsFitted returns the particle built from the current values and the
// fitted vertex. The candidate is carried along for reference.
func (f *FitParticle) AsFitted() *particle.Particle {
	if f.Particle == nil {
		return nil
	}

	return &particle.Particle{
		Type:      f.Particle.Type,
		P4:        f.LorentzVec(f.Values(), f.fittedZ),
		Candidate: f.Particle.Candidate,
	}
}
