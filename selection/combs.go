// SPDX-License-Identifier: MIT
// Package: kinfit/selection
//
// combs.go: proton/photon combinations and their filters.

package selection

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/kinfit/particle"
	"go-hep.org/x/hep/fmom"
)

// Comb is one proton/photons hypothesis.
type Comb struct {
	Proton  *particle.Particle
	Photons []*particle.Particle

	// DiscardedEk is the summed Ek of photons dropped by FilterMult.
	DiscardedEk float64
	// PhotonSum is the photon four-vector sum set by FilterIM.
	PhotonSum fmom.PxPyPzE
	// MissingMass of the photons, set by FilterMM.
	MissingMass float64
}

// Observer is called with a step name for every combination passing a
// filter that actually cuts.
type Observer func(step string)

// ProtonPhotonCombs holds the pre-built combinations of one event.
type ProtonPhotonCombs struct {
	combs []Comb
}

// NewProtonPhotonCombs builds one combination per candidate. Call it once
// per event; Combinations then hands out cheap copies.
// Complexity: O(N²) time and space for N candidates.
func NewProtonPhotonCombs(cands []*particle.Candidate) *ProtonPhotonCombs {
	photons := make([]*particle.Particle, len(cands))
	for i, c := range cands {
		photons[i] = particle.NewFromCandidate(particle.Photon, c)
	}
	// descending Ek, needed by FilterMult
	slices.SortStableFunc(photons, func(a, b *particle.Particle) int {
		switch {
		case a.Ek() > b.Ek():
			return -1
		case a.Ek() < b.Ek():
			return 1
		default:
			return 0
		}
	})

	combs := make([]Comb, 0, len(cands))
	for _, c := range cands {
		comb := Comb{
			Proton:      particle.NewFromCandidate(particle.Proton, c),
			Photons:     make([]*particle.Particle, 0, len(cands)-1),
			DiscardedEk: math.NaN(),
			MissingMass: math.NaN(),
		}
		for _, g := range photons {
			if g.Candidate != c {
				comb.Photons = append(comb.Photons, g)
			}
		}
		combs = append(combs, comb)
	}

	return &ProtonPhotonCombs{combs: combs}
}

// Combinations returns a copy of all combinations for filtering.
func (p *ProtonPhotonCombs) Combinations() *Combinations {
	out := make([]Comb, len(p.combs))
	for i, c := range p.combs {
		c.Photons = slices.Clone(c.Photons)
		out[i] = c
	}

	return &Combinations{combs: out}
}

// Combinations is a filterable list of combinations. Filters modify it
// in place and return it for chaining.
type Combinations struct {
	combs    []Comb
	observer Observer
	prefix   string
	calledIM bool
}

// Observe sets the observer and a prefix for its step names. With a
// non-empty prefix the observer is called once per combination right away.
func (c *Combinations) Observe(obs Observer, prefix string) *Combinations {
	c.observer, c.prefix = obs, prefix
	if obs != nil && prefix != "" {
		for range c.combs {
			obs(prefix)
		}
	}

	return c
}

// Len returns the number of remaining combinations.
func (c *Combinations) Len() int { return len(c.combs) }

// All returns the remaining combinations.
func (c *Combinations) All() []Comb { return c.combs }

func (c *Combinations) notify(step string) {
	if c.observer != nil {
		c.observer(c.prefix + step)
	}
}

// FilterMult keeps exactly n photons, the most energetic ones. Combinations
// with fewer photons, or whose discarded photons carry maxDiscardedEk or
// more, are removed. Use math.Inf(1) for no cut on the discarded energy.
// Complexity: O(C·N) for C combinations of N photons.
func (c *Combinations) FilterMult(n int, maxDiscardedEk float64) *Combinations {
	c.combs = slices.DeleteFunc(c.combs, func(comb Comb) bool { return len(comb.Photons) < n })
	kept := c.combs[:0]
	for _, comb := range c.combs {
		comb.DiscardedEk = 0
		for _, g := range comb.Photons[n:] {
			comb.DiscardedEk += g.Ek()
		}
		if comb.DiscardedEk >= maxDiscardedEk {
			continue
		}
		if !math.IsInf(maxDiscardedEk, 1) {
			c.notify(fmt.Sprintf("DiscEk<%g", maxDiscardedEk))
		}
		comb.Photons = comb.Photons[:n]
		kept = append(kept, comb)
	}
	c.combs = kept

	return c
}

// FilterIM computes the photon sum and keeps combinations whose invariant
// mass lies in cut.
func (c *Combinations) FilterIM(cut Interval) *Combinations {
	kept := c.combs[:0]
	for _, comb := range c.combs {
		comb.PhotonSum = particle.Sum(comb.Photons)
		if !cut.Contains(particle.Mass(comb.PhotonSum)) {
			continue
		}
		if !cut.IsNoCut() {
			c.notify(cut.RangeString("IM(γ)"))
		}
		kept = append(kept, comb)
	}
	c.combs = kept
	c.calledIM = true

	return c
}

// FilterMM keeps combinations whose photon missing mass, for a beam of
// energy beamE on target at rest, lies in cut. FilterIM without cut runs
// first if it has not been called.
func (c *Combinations) FilterMM(beamE float64, cut Interval, target *particle.Type) *Combinations {
	if !c.calledIM {
		c.FilterIM(NoCut)
	}
	initial := fmom.NewPxPyPzE(0, 0, beamE, beamE+target.Mass)
	kept := c.combs[:0]
	for _, comb := range c.combs {
		comb.MissingMass = particle.Mass(particle.Sub(initial, comb.PhotonSum))
		if !cut.Contains(comb.MissingMass) {
			continue
		}
		if !cut.IsNoCut() {
			c.notify(cut.RangeString("MM(γ)"))
		}
		kept = append(kept, comb)
	}
	c.combs = kept

	return c
}

// FilterCustom removes the combinations for which cut returns true. The
// observer is notified only for a non-empty name.
func (c *Combinations) FilterCustom(cut func(Comb) bool, name string) *Combinations {
	kept := c.combs[:0]
	for _, comb := range c.combs {
		if cut(comb) {
			continue
		}
		if name != "" {
			c.notify(name)
		}
		kept = append(kept, comb)
	}
	c.combs = kept

	return c
}
