// SPDX-License-Identifier: MIT
// Package: kinfit/mcgun
//
// options.go: functional options for Gun.
//
// Contract:
//   • Determinism is explicit: WithSeed or WithSource.
//   • Option constructors panic on nil inputs.

package mcgun

import (
	"math/rand/v2"

	"github.com/katalvlaran/kinfit/detector"
	"github.com/katalvlaran/kinfit/particle"
	"github.com/katalvlaran/kinfit/uncertainty"
)

// Option customizes a Gun.
type Option func(*config)

type config struct {
	src      rand.Source
	model    uncertainty.Model
	geometry detector.Geometry
	target   *particle.Type
	smear    bool
}

func defaultConfig() config {
	return config{
		src:      rand.NewPCG(0, 0),
		geometry: detector.DefaultGeometry(),
		target:   particle.Proton,
		smear:    true,
	}
}

// WithSeed makes the gun reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15) }
}

// WithSource sets the random source. Panics on nil.
func WithSource(src rand.Source) Option {
	if src == nil {
		panic("mcgun: WithSource(nil)")
	}

	return func(c *config) { c.src = src }
}

// WithModel sets the model used for smearing. Panics on nil.
func WithModel(m uncertainty.Model) Option {
	if m == nil {
		panic("mcgun: WithModel(nil)")
	}

	return func(c *config) { c.model = m }
}

// WithGeometry sets the geometry used to place particles.
func WithGeometry(g detector.Geometry) Option {
	return func(c *config) { c.geometry = g }
}

// WithTarget sets the target at rest. Panics on nil.
func WithTarget(t *particle.Type) Option {
	if t == nil {
		panic("mcgun: WithTarget(nil)")
	}

	return func(c *config) { c.target = t }
}

// WithoutSmearing makes the measured particles equal the true ones.
func WithoutSmearing() Option {
	return func(c *config) { c.smear = false }
}
