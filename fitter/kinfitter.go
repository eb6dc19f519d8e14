// SPDX-License-Identifier: MIT
// Package: kinfit/fitter
//
// kinfitter.go: energy-momentum conservation fit of beam+target = p + photons.

package fitter

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"
	"github.com/katalvlaran/kinfit/particle"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/katalvlaran/kinfit/uncertainty"
	"go-hep.org/x/hep/fmom"
)

// Solver variable and constraint names.
const (
	varBeam           = "Beam"
	varProton         = "Proton"
	varZVertex        = "ZVertex"
	constraintEnergyP = "EnergyMomentum"
)

func photonVarName(i int) string { return fmt.Sprintf("Photon%d", i) }

// constraintDef is an additional constraint over all linked variables, in
// link order: Beam, Proton, Photon0..N-1 and, if enabled, ZVertex.
type constraintDef struct {
	name string
	fn   func(values [][]float64) []float64
}

// KinFitter fits beam + target = proton + photons.
type KinFitter struct {
	name  string
	opts  Options
	model uncertainty.Model
	log   logr.Logger

	beam    Variable
	proton  *FitParticle
	photons []*FitParticle
	zVertex Variable

	beamSet, protonSet, photonsSet bool

	extra []constraintDef

	// statistics of the last fit
	last solver.Result
}

// NewKinFitter returns a fitter for exactly numPhotons photons.
func NewKinFitter(name string, numPhotons int, model uncertainty.Model, opts ...Option) (*KinFitter, error) {
	// 1. Validate arguments.
	if numPhotons < 1 {
		return nil, fmt.Errorf("NewKinFitter %q: numPhotons=%d: %w", name, numPhotons, ErrNoPhotons)
	}
	if model == nil {
		return nil, fmt.Errorf("NewKinFitter %q: %w", name, ErrNoModel)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Solver.Validate(); err != nil {
		return nil, fmt.Errorf("NewKinFitter %q: %w", name, err)
	}

	// 2. Allocate fit particles; pointers stay stable for the fitter's life.
	k := &KinFitter{
		name:   name,
		opts:   o,
		model:  model,
		log:    o.Logger.WithName(name),
		proton: NewFitParticle(varProton, o.Geometry),
		last:   solver.Result{Status: solver.NoConstraints, Probability: math.NaN()},
	}
	k.setPhotonSlots(numPhotons)
	k.zVertex.SetValueSigma(0, o.ZVertexSigma)

	return k, nil
}

// Name returns the fitter name.
func (k *KinFitter) Name() string { return k.name }

// NumPhotons returns the number of photon slots.
func (k *KinFitter) NumPhotons() int { return len(k.photons) }

// setPhotonSlots grows or shrinks the photon slots, keeping existing
// FitParticle pointers.
func (k *KinFitter) setPhotonSlots(n int) {
	for len(k.photons) < n {
		k.photons = append(k.photons, NewFitParticle(photonVarName(len(k.photons)), k.opts.Geometry))
	}
	k.photons = k.photons[:n]
}

// SetEgammaBeam sets the tagged beam energy and its model sigma.
func (k *KinFitter) SetEgammaBeam(e float64) {
	k.beam.SetValueSigma(e, k.model.BeamEnergySigma(e))
	k.beamSet = true
}

// SetProton binds the proton candidate.
func (k *KinFitter) SetProton(p *particle.Particle) error {
	if err := k.proton.Set(p, k.model); err != nil {
		k.protonSet = false

		return fmt.Errorf("SetProton: %w", err)
	}
	k.protonSet = true

	return nil
}

// SetPhotons binds exactly NumPhotons photon candidates.
func (k *KinFitter) SetPhotons(ps []*particle.Particle) error {
	if len(ps) != len(k.photons) {
		return fmt.Errorf("SetPhotons: got %d, expected %d: %w", len(ps), len(k.photons), ErrPhotonCount)
	}
	k.photonsSet = false
	for i, p := range ps {
		if err := k.photons[i].Set(p, k.model); err != nil {
			return fmt.Errorf("SetPhotons[%d]: %w", i, err)
		}
	}
	k.photonsSet = true

	return nil
}

// SetZVertexSigma sets the vertex sigma in cm; zero leaves it unmeasured.
func (k *KinFitter) SetZVertexSigma(sigma float64) error {
	if !k.opts.ZVertexFit {
		return fmt.Errorf("SetZVertexSigma: %w", ErrZVertexDisabled)
	}
	if !(sigma >= 0) || math.IsInf(sigma, 0) {
		return fmt.Errorf("SetZVertexSigma(%g): %w", sigma, ErrInvalidSigma)
	}
	k.zVertex.SetValueSigma(0, sigma)

	return nil
}

// IsZVertexFitEnabled reports whether the vertex is a fit variable.
func (k *KinFitter) IsZVertexFitEnabled() bool { return k.opts.ZVertexFit }

// Fit binds beam, proton and photons and runs DoFit.
func (k *KinFitter) Fit(ebeam float64, proton *particle.Particle, photons []*particle.Particle) (solver.Result, error) {
	k.SetEgammaBeam(ebeam)
	if err := k.SetProton(proton); err != nil {
		return solver.Result{}, err
	}
	if err := k.SetPhotons(photons); err != nil {
		return solver.Result{}, err
	}

	return k.DoFit()
}

// DoFit runs one fit from the bound measurements. Every call starts from
// the measured values, so repeated calls are independent. The solver
// result is returned untouched; a failed convergence is not an error.
func (k *KinFitter) DoFit() (solver.Result, error) {
	// 1. Preconditions.
	if !k.beamSet || !k.protonSet || !k.photonsSet {
		return solver.Result{}, fmt.Errorf("DoFit: %w", ErrNotBound)
	}
	if err := k.checkZVertex(); err != nil {
		return solver.Result{}, fmt.Errorf("DoFit: %w", err)
	}

	// 2. Start values.
	k.prepareFit()

	// 3. Solve.
	s, err := k.buildSolver()
	if err != nil {
		return solver.Result{}, fmt.Errorf("DoFit: %w", err)
	}
	r := s.DoFit()

	// 4. Publish the fitted vertex and cache statistics.
	z := k.currentZ()
	k.proton.fittedZ = z
	for _, g := range k.photons {
		g.fittedZ = z
	}
	k.last = r
	k.log.V(1).Info("fit done", "status", r.Status.String(), "chi2", r.ChiSquare,
		"ndof", r.NDoF, "probability", r.Probability, "iterations", r.NIterations)
	if k.opts.Observer != nil {
		k.opts.Observer.ObserveFit(k.name, r)
	}

	return r, nil
}

// checkZVertex fails when the vertex is fitted but its sigma was never set.
func (k *KinFitter) checkZVertex() error {
	if k.opts.ZVertexFit && math.IsNaN(k.zVertex.SigmaBefore) {
		return ErrZVertexSigmaUnset
	}

	return nil
}

// prepareFit resets all variables to their measurement and the vertex to
// 0. An unmeasured proton energy starts from the missing energy.
func (k *KinFitter) prepareFit() {
	k.beam.Restore()
	k.proton.Restore()
	for _, g := range k.photons {
		g.Restore()
	}
	k.zVertex.Restore()
	if k.proton.IsEkUnmeasured() {
		if ek := k.missingEk(); ek > 0 {
			k.proton.SetEk(ek)
		}
	}
}

// missingEk is the kinetic energy a proton needs to balance the measured
// photons against beam + target.
func (k *KinFitter) missingEk() float64 {
	sum := k.beamLV(k.beam.Value)
	for _, g := range k.photons {
		sum = particle.Sub(sum, g.Particle.P4)
	}
	p := particle.Momentum(sum)
	m := k.proton.Particle.Type.Mass

	return math.Sqrt(p.X*p.X+p.Y*p.Y+p.Z*p.Z+m*m) - m
}

func (k *KinFitter) currentZ() float64 {
	if !k.opts.ZVertexFit {
		return 0
	}

	return k.zVertex.Value
}

// beamLV returns beam photon plus target at rest.
func (k *KinFitter) beamLV(e float64) fmom.PxPyPzE {
	return fmom.NewPxPyPzE(0, 0, e, e+k.opts.Target.Mass)
}

// varNames lists the linked variables in link order.
func (k *KinFitter) varNames() []string {
	names := []string{varBeam, varProton}
	for _, g := range k.photons {
		names = append(names, g.name)
	}
	if k.opts.ZVertexFit {
		names = append(names, varZVertex)
	}

	return names
}

// buildSolver links the current variables. It runs per fit because the
// photon count and which axes are fixed depend on the bound candidates.
func (k *KinFitter) buildSolver() (*solver.Solver, error) {
	s, err := solver.New(k.name, k.opts.Solver)
	if err != nil {
		return nil, err
	}
	type link struct {
		name string
		hs   []solver.Handle
	}
	links := []link{
		{varBeam, []solver.Handle{k.beam.handle(false)}},
		{varProton, k.proton.handles()},
	}
	for _, g := range k.photons {
		links = append(links, link{g.name, g.handles()})
	}
	if k.opts.ZVertexFit {
		links = append(links, link{varZVertex, []solver.Handle{k.zVertex.handle(false)}})
	}
	for _, l := range links {
		if err := s.LinkVariable(l.name, l.hs); err != nil {
			return nil, err
		}
	}

	names := k.varNames()
	if err := s.AddConstraint(constraintEnergyP, names, k.energyMomentum); err != nil {
		return nil, err
	}
	for _, c := range k.extra {
		if err := s.AddConstraint(c.name, names, c.fn); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// zFromValues extracts the vertex from link-ordered values.
func (k *KinFitter) zFromValues(values [][]float64) float64 {
	if !k.opts.ZVertexFit {
		return 0
	}

	return values[len(values)-1][0]
}

// energyMomentum is beam + target − proton − Σ photons as (E, px, py, pz),
// evaluated from the solver's live values only.
func (k *KinFitter) energyMomentum(values [][]float64) []float64 {
	z := k.zFromValues(values)
	diff := particle.Sub(k.beamLV(values[0][0]), k.proton.LorentzVec(values[1], z))
	for i, g := range k.photons {
		diff = particle.Sub(diff, g.LorentzVec(values[2+i], z))
	}

	return []float64{diff.E(), diff.Px(), diff.Py(), diff.Pz()}
}

// FittedProton returns the proton at the current (fitted) values.
func (k *KinFitter) FittedProton() *particle.Particle { return k.proton.AsFitted() }

// FittedPhotons returns the photons at the current (fitted) values.
func (k *KinFitter) FittedPhotons() []*particle.Particle {
	out := make([]*particle.Particle, len(k.photons))
	for i, g := range k.photons {
		out[i] = g.AsFitted()
	}

	return out
}

// FittedBeamE returns the fitted beam energy.
func (k *KinFitter) FittedBeamE() float64 { return k.beam.Value }

// FittedBeamParticle returns beam + target at the fitted beam energy.
func (k *KinFitter) FittedBeamParticle() *particle.Particle {
	return particle.NewFromP4(particle.BeamProton, k.beamLV(k.beam.Value))
}

// FittedZVertex returns the fitted vertex, 0 when not fitted.
func (k *KinFitter) FittedZVertex() float64 { return k.currentZ() }

// BeamEPull returns the pull of the beam energy.
func (k *KinFitter) BeamEPull() float64 { return k.beam.Pull }

// ZVertexPull returns the pull of the vertex, 0 when not fitted.
func (k *KinFitter) ZVertexPull() float64 { return k.zVertex.Pull }

// FitParticles returns the proton followed by the photons.
func (k *KinFitter) FitParticles() []*FitParticle {
	return append([]*FitParticle{k.proton}, k.photons...)
}

// Result returns the raw result of the last fit.
func (k *KinFitter) Result() solver.Result { return k.last }

// Chi2NDoF returns χ²/ndof of the last fit, NaN without degrees of freedom.
func (k *KinFitter) Chi2NDoF() float64 {
	if k.last.NDoF <= 0 {
		return math.NaN()
	}

	return k.last.ChiSquare / float64(k.last.NDoF)
}

// Iterations returns the solver iterations of the last fit.
func (k *KinFitter) Iterations() int { return k.last.NIterations }

// Status returns the status of the last fit.
func (k *KinFitter) Status() solver.Status { return k.last.Status }

// Probability returns the χ² probability of the last fit.
func (k *KinFitter) Probability() float64 { return k.last.Probability }
