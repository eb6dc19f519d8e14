// SPDX-License-Identifier: MIT
// Package: kinfit/fitter
//
// treefitter.go: invariant-mass constraints along a decay tree and the
// iteration queue over candidate-to-leaf assignments.
//
// Contract:
//   • The tree shape and its unique permutations are fixed at construction.
//   • SetPhotons builds the whole queue; NextFit consumes one entry per call.
//   • The iteration filter sees the same start values DoFit starts from.

package fitter

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/kinfit/combinatorics"
	"github.com/katalvlaran/kinfit/decaytree"
	"github.com/katalvlaran/kinfit/particle"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/katalvlaran/kinfit/uncertainty"
	"go-hep.org/x/hep/fmom"
)

const constraintIM = "IMatNodes"

// TreeNode is the bookkeeping attached to every node of the fitter's copy
// of the decay tree.
type TreeNode struct {
	// Type is the particle type of the node.
	Type *particle.Type
	// LVSum is the leaf four-vector, or the sum of the daughters, as of the
	// last evaluation: fitted values after NextFit, fit start values while
	// the iteration filter runs.
	LVSum fmom.PxPyPzE
	// Leaf is the fit particle linked to a leaf, nil for internal nodes.
	Leaf *FitParticle
	// CandidateIndex is the index into the SetPhotons slice of the photon
	// assigned to this leaf in the current iteration, -1 otherwise.
	CandidateIndex int
	// IMResidual is (IM − mass)/σ at the last evaluation; NaN for nodes
	// without a mass constraint.
	IMResidual float64

	imSigma     float64
	constrained bool
}

// Tree is a node of the fitter's decay tree.
type Tree = *decaytree.Node[*TreeNode]

// Iteration is one assignment of candidates to the photon leaves.
type Iteration struct {
	// Leaves[i] is the candidate index assigned to photon leaf i.
	Leaves []int
	// Extras are the candidate indices not in the tree.
	Extras []int
	// QualityFactor is the value of the iteration filter, 0 without one.
	QualityFactor float64
}

// kinFitter keeps the embedded KinFitter field unexported.
type kinFitter = KinFitter

// TreeFitter extends KinFitter with invariant-mass constraints along a
// decay tree and enumerates candidate-to-leaf assignments.
//
// The beam, proton and read accessors of KinFitter are promoted. Fits run
// only through SetPhotons and NextFit; DoFit and Fit are rejected with
// ErrUseNextFit since they would bypass the iteration queue.
type TreeFitter struct {
	*kinFitter

	tree       Tree
	photonLeaf []Tree // photon leaves, linked to photon slots 0..K-1
	protonLeaf Tree   // nil unless the proton comes from a decay
	sumNodes   []Tree // internal nodes in post-order
	imNodes    []Tree
	perms      [][]int

	filter        func() float64
	maxIterations int

	candidates []*particle.Particle
	queue      []Iteration
	current    Iteration
	err        error
}

// NewTreeFitter builds a fitter for ptree. The topology is copied; a
// nucleon directly under a beam+target root is treated as spectator and
// dropped. Allowed leaves are photons plus at most one proton.
// Complexity: dominated by UniquePermutationsOf over the photon leaves.
func NewTreeFitter(name string, ptree decaytree.ParticleTypeTree, model uncertainty.Model, opts ...Option) (*TreeFitter, error) {
	if ptree == nil {
		return nil, fmt.Errorf("NewTreeFitter %q: %w", name, ErrNilTree)
	}

	// 1. Copy, drop the spectator nucleon, canonicalise.
	tree := decaytree.DeepCopy(ptree, func(t *particle.Type) *TreeNode {
		return &TreeNode{Type: t, CandidateIndex: -1, IMResidual: math.NaN()}
	})
	if tree.Get().Type.Is(particle.BeamTarget) {
		for _, d := range slices.Clone(tree.Daughters()) {
			if d.IsLeaf() && d.Get().Type.Is(particle.Nucleon) {
				tree.RemoveDaughter(d)
			}
		}
	}
	if tree.IsLeaf() {
		return nil, fmt.Errorf("NewTreeFitter %q: %s: %w", name, decaytree.DecayString(ptree), ErrNoPhotons)
	}
	cmpNodes := func(a, b *TreeNode) int { return particle.Compare(a.Type, b.Type) }
	tree.Sort(cmpNodes)

	// 2. Unique permutations of the photon leaves.
	leaves, perms, offset := tree.UniquePermutationsOf(cmpNodes, func(n *TreeNode) bool {
		return n.Type == particle.Photon
	})
	if offset > 1 || (offset == 1 && leaves[0].Get().Type != particle.Proton) {
		return nil, fmt.Errorf("NewTreeFitter %q: %s: %w", name, decaytree.DecayString(ptree), ErrTooComplexTree)
	}
	photonLeaves := leaves[offset:]
	if len(photonLeaves) == 0 {
		return nil, fmt.Errorf("NewTreeFitter %q: %w", name, ErrNoPhotons)
	}

	// 3. Underlying kinematic fit with one slot per photon leaf.
	kin, err := NewKinFitter(name, len(photonLeaves), model, opts...)
	if err != nil {
		return nil, err
	}
	t := &TreeFitter{
		kinFitter:  kin,
		tree:       tree,
		photonLeaf: photonLeaves,
		perms:      perms,
	}
	if offset == 1 {
		t.protonLeaf = leaves[0]
		t.protonLeaf.Get().Leaf = kin.proton
	}
	for i, l := range photonLeaves {
		l.Get().Leaf = kin.photons[i]
	}

	// 4. Summed and constrained nodes.
	tree.WalkPostOrder(func(n Tree) {
		if n.IsLeaf() || n.Get().Type.Is(particle.BeamTarget) {
			return
		}
		t.sumNodes = append(t.sumNodes, n)
		setup := kin.opts.NodeSetup(n)
		if setup.Excluded {
			return
		}
		if !(setup.IMSigma > 0) {
			setup.IMSigma = 1
		}
		n.Get().imSigma = setup.IMSigma
		n.Get().constrained = true
		t.imNodes = append(t.imNodes, n)
		kin.log.V(1).Info("IM constraint", "node", n.Get().Type.Name, "sigma", setup.IMSigma)
	})
	if len(t.imNodes) > 0 {
		kin.extra = append(kin.extra, constraintDef{name: constraintIM, fn: t.imConstraint})
	}

	kin.log.Info("initialized tree fitter",
		"decay", decaytree.DecayString(ptree),
		"permutations", len(perms),
		"constraints", len(t.imNodes),
		"nodes", len(t.sumNodes))

	return t, nil
}

// sumLeaves recomputes all LVSum fields from per-leaf axis values.
func (t *TreeFitter) sumLeaves(leafValues func(fp *FitParticle) []float64, z float64) {
	if t.protonLeaf != nil {
		n := t.protonLeaf.Get()
		n.LVSum = n.Leaf.LorentzVec(leafValues(n.Leaf), z)
	}
	for _, l := range t.photonLeaf {
		n := l.Get()
		n.LVSum = n.Leaf.LorentzVec(leafValues(n.Leaf), z)
	}
	for _, s := range t.sumNodes {
		ds := s.Daughters()
		vs := make([]fmom.PxPyPzE, len(ds))
		for i, d := range ds {
			vs[i] = d.Get().LVSum
		}
		s.Get().LVSum = particle.Add(vs...)
	}
	for _, s := range t.imNodes {
		n := s.Get()
		n.IMResidual = (particle.Mass(n.LVSum) - n.Type.Mass) / n.imSigma
	}
}

// imConstraint evaluates the node residuals from the solver's live values
// (link order: Beam, Proton, Photon0.., ZVertex).
func (t *TreeFitter) imConstraint(values [][]float64) []float64 {
	z := t.zFromValues(values)
	t.sumLeaves(func(fp *FitParticle) []float64 {
		if fp == t.proton {
			return values[1]
		}
		for i, g := range t.photons {
			if g == fp {
				return values[2+i]
			}
		}

		return nil
	}, z)

	out := make([]float64, len(t.imNodes))
	for i, s := range t.imNodes {
		out[i] = s.Get().IMResidual
	}

	return out
}

// Permutations returns the number of unique leaf permutations.
func (t *TreeFitter) Permutations() int { return len(t.perms) }

// NumLeaves returns the number of photon leaves K.
func (t *TreeFitter) NumLeaves() int { return len(t.photonLeaf) }

// SetIterationFilter installs a quality factor evaluated per iteration in
// SetPhotons, on the tree sums of the fit start values (measurements, an
// unmeasured proton energy taken from the missing energy). Iterations scoring
// 0 are dropped; with max > 0 only the max best are kept. Equal scores
// keep their enumeration order. A nil filter disables filtering.
func (t *TreeFitter) SetIterationFilter(filter func() float64, max int) {
	t.filter = filter
	t.maxIterations = max
}

// SetPhotons prepares the iteration queue for N ≥ K photon candidates:
// all K-subsets in order times all unique leaf permutations, the rest
// joining the fit as extra photons. Proton and beam must be set before.
//
// Complexity: O(C(N,K)·P·K) time and space for P unique permutations;
// with a filter add O(C(N,K)·P·(V+f)) for V tree nodes and filter cost f,
// and O(Q log Q) for ranking Q surviving iterations.
func (t *TreeFitter) SetPhotons(cands []*particle.Particle) error {
	// 1. Validate.
	k := len(t.photonLeaf)
	if len(cands) < k {
		return fmt.Errorf("SetPhotons: got %d, need %d: %w", len(cands), k, ErrTooFewPhotons)
	}
	if !t.beamSet || !t.protonSet {
		return fmt.Errorf("SetPhotons: %w", ErrNotBound)
	}
	if err := t.checkZVertex(); err != nil {
		return fmt.Errorf("SetPhotons: %w", err)
	}
	check := NewFitParticle("check", t.opts.Geometry)
	for i, c := range cands {
		if err := check.Set(c, t.model); err != nil {
			return fmt.Errorf("SetPhotons[%d]: %w", i, err)
		}
	}

	// 2. Enumerate subsets × permutations.
	t.setPhotonSlots(len(cands))
	t.candidates = slices.Clone(cands)
	t.queue = t.queue[:0]
	t.err = nil
	idx := make([]int, len(cands))
	for i := range idx {
		idx[i] = i
	}
	for c := combinatorics.NewKofN(idx, k); !c.Done(); c.Next() {
		sel := c.Selected()
		extras := c.Complement()
		for _, perm := range t.perms {
			leaves := make([]int, k)
			for i, p := range perm {
				leaves[i] = sel[p]
			}
			t.queue = append(t.queue, Iteration{Leaves: leaves, Extras: extras})
		}
	}
	prepared := len(t.queue)

	// 3. Optional ranking and pruning.
	if t.filter != nil {
		for i := range t.queue {
			if err := t.bind(t.queue[i]); err != nil {
				return fmt.Errorf("SetPhotons: %w", err)
			}
			// same start values as the fit itself
			t.prepareFit()
			t.sumLeaves(func(fp *FitParticle) []float64 { return fp.Values() }, t.currentZ())
			t.queue[i].QualityFactor = t.filter()
		}
		t.queue = slices.DeleteFunc(t.queue, func(it Iteration) bool { return it.QualityFactor == 0 })
		slices.SortStableFunc(t.queue, func(a, b Iteration) int {
			switch {
			case a.QualityFactor > b.QualityFactor:
				return -1
			case a.QualityFactor < b.QualityFactor:
				return 1
			default:
				return 0
			}
		})
		if t.maxIterations > 0 && t.maxIterations < len(t.queue) {
			t.queue = t.queue[:t.maxIterations]
		}
	}

	t.log.V(1).Info("prepared iterations", "candidates", len(cands), "prepared", prepared, "kept", len(t.queue))
	if t.opts.Observer != nil {
		t.opts.Observer.ObserveIterations(t.name, prepared, len(t.queue))
	}

	return nil
}

// bind sets the photon slots for it: leaves first, extras after.
func (t *TreeFitter) bind(it Iteration) error {
	ordered := make([]*particle.Particle, 0, len(it.Leaves)+len(it.Extras))
	for i, ci := range it.Leaves {
		ordered = append(ordered, t.candidates[ci])
		t.photonLeaf[i].Get().CandidateIndex = ci
	}
	for _, ci := range it.Extras {
		ordered = append(ordered, t.candidates[ci])
	}

	return t.kinFitter.SetPhotons(ordered)
}

// NextFit pops the next iteration, fits it and stores the result in res.
// It returns false when the queue is empty or binding failed; Err tells
// the two apart.
func (t *TreeFitter) NextFit(res *solver.Result) bool {
	if t.err != nil || len(t.queue) == 0 {
		return false
	}
	it := t.queue[0]
	t.queue = t.queue[1:]

	if err := t.bind(it); err != nil {
		t.err = err

		return false
	}
	r, err := t.kinFitter.DoFit()
	if err != nil {
		t.err = err

		return false
	}
	t.sumLeaves(func(fp *FitParticle) []float64 { return fp.Values() }, t.currentZ())
	t.current = it
	*res = r

	return true
}

// DoFit is not available on a TreeFitter; use NextFit.
func (t *TreeFitter) DoFit() (solver.Result, error) {
	return solver.Result{}, fmt.Errorf("DoFit: %w", ErrUseNextFit)
}

// Fit is not available on a TreeFitter; use SetPhotons and NextFit.
func (t *TreeFitter) Fit(float64, *particle.Particle, []*particle.Particle) (solver.Result, error) {
	return solver.Result{}, fmt.Errorf("Fit: %w", ErrUseNextFit)
}

// Err returns the error that stopped NextFit, if any.
func (t *TreeFitter) Err() error { return t.err }

// Remaining returns the number of queued iterations.
func (t *TreeFitter) Remaining() int { return len(t.queue) }

// CurrentIteration returns the iteration fitted by the last NextFit.
func (t *TreeFitter) CurrentIteration() Iteration { return t.current }

// Tree returns the root of the fitter's decay tree.
func (t *TreeFitter) Tree() Tree { return t.tree }

// TreeNode returns the first node of type typ in pre-order, or nil.
func (t *TreeFitter) TreeNode(typ *particle.Type) Tree {
	if nodes := t.TreeNodes(typ); len(nodes) > 0 {
		return nodes[0]
	}

	return nil
}

// TreeNodes returns all nodes of type typ in pre-order.
func (t *TreeFitter) TreeNodes(typ *particle.Type) []Tree {
	var out []Tree
	t.tree.Walk(func(n Tree) {
		if n.Get().Type == typ {
			out = append(out, n)
		}
	})

	return out
}
