// SPDX-License-Identifier: MIT
// Package: kinfit/fitter
//
// options.go: functional options for KinFitter and TreeFitter.
//
// Contract:
//   • Options are functional (type Option func(*Options)).
//   • Option constructors validate and PANIC on meaningless inputs; the
//     fitters themselves return errors.
//   • Everything flows through Options; there are no package globals.

package fitter

import (
	"math"

	"github.com/go-logr/logr"
	"github.com/katalvlaran/kinfit/detector"
	"github.com/katalvlaran/kinfit/particle"
	"github.com/katalvlaran/kinfit/solver"
)

// NodeSetup configures the invariant-mass constraint of one tree node.
type NodeSetup struct {
	// IMSigma scales the residual (IM − mass)/IMSigma.
	IMSigma float64
	// Excluded nodes are summed but not constrained.
	Excluded bool
}

// NodeSetupFunc picks the setup of an internal tree node.
type NodeSetupFunc func(node Tree) NodeSetup

// DefaultNodeSetup constrains every node with IMSigma 1 MeV.
func DefaultNodeSetup(Tree) NodeSetup { return NodeSetup{IMSigma: 1} }

// Options configure KinFitter and TreeFitter.
type Options struct {
	Logger   logr.Logger
	Observer Observer
	Solver   solver.Settings
	Geometry detector.Geometry
	// Target is the particle at rest; its mass enters the beam four-vector.
	Target *particle.Type

	// ZVertexFit enables the shared z-vertex variable; ZVertexSigma is
	// NaN until set.
	ZVertexFit   bool
	ZVertexSigma float64

	// NodeSetup is used by TreeFitter only.
	NodeSetup NodeSetupFunc
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns no logging, default solver settings and
// geometry, a proton target and a disabled z-vertex.
func DefaultOptions() Options {
	return Options{
		Logger:       logr.Discard(),
		Solver:       solver.DefaultSettings(),
		Geometry:     detector.DefaultGeometry(),
		Target:       particle.Proton,
		ZVertexSigma: math.NaN(),
		NodeSetup:    DefaultNodeSetup,
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithObserver attaches o to every fit. Panics on nil.
func WithObserver(obs Observer) Option {
	if obs == nil {
		panic("fitter: WithObserver(nil)")
	}

	return func(o *Options) { o.Observer = obs }
}

// WithSolverSettings replaces the solver iteration settings.
func WithSolverSettings(s solver.Settings) Option {
	return func(o *Options) { o.Solver = s }
}

// WithGeometry replaces the detector geometry.
func WithGeometry(g detector.Geometry) Option {
	return func(o *Options) { o.Geometry = g }
}

// WithTarget sets the target particle. Panics on nil.
func WithTarget(t *particle.Type) Option {
	if t == nil {
		panic("fitter: WithTarget(nil)")
	}

	return func(o *Options) { o.Target = t }
}

// WithZVertexFit enables fitting of the z-vertex. A sigma must be set
// before the first fit, either here via WithZVertexSigma or later via
// SetZVertexSigma.
func WithZVertexFit() Option {
	return func(o *Options) { o.ZVertexFit = true }
}

// WithZVertexSigma enables the z-vertex fit with the given sigma in cm;
// zero leaves the vertex unmeasured. Panics on negative or NaN sigma.
func WithZVertexSigma(sigma float64) Option {
	if !(sigma >= 0) {
		panic("fitter: WithZVertexSigma(sigma<0)")
	}

	return func(o *Options) {
		o.ZVertexFit = true
		o.ZVertexSigma = sigma
	}
}

// WithNodeSetup sets the per-node invariant-mass setup. Panics on nil.
func WithNodeSetup(fn NodeSetupFunc) Option {
	if fn == nil {
		panic("fitter: WithNodeSetup(nil)")
	}

	return func(o *Options) { o.NodeSetup = fn }
}
