// Package fitter implements kinematic fits of photoproduction events
// γ p → p + photons on top of the constrained least-squares solver.
//
// 🚀 Components
//
//   - FitParticle: the four fit variables of one measured particle, with a
//     detector dependent parametrisation:
//     CB   → (1/Ek, θ, φ, R)      R = CB inner radius + shower depth
//     TAPS → (1/Ek, Rxy, φ, Lz)   Lz = TAPS z + depth·cosθ, Rxy = tanθ·Lz
//     The optional z-vertex enters through the shower position only.
//   - KinFitter: energy-momentum conservation between beam+target and the
//     proton plus a fixed number of photons. The proton kinetic energy is
//     unmeasured for all shipped uncertainty models; its start value is the
//     missing energy.
//   - TreeFitter: a KinFitter with additional invariant-mass constraints at
//     every internal node of a decay tree. It enumerates, as a pull-based
//     queue, all assignments of candidates to the photon leaves:
//     C(N,K) subsets × unique leaf permutations.
//
// ⚙️ Usage:
//
//	tf, err := fitter.NewTreeFitter("eta", decaytree.Get(decaytree.Eta_2g),
//	    uncertainty.NewMCLongTarget(), fitter.WithLogger(log))
//	tf.SetEgammaBeam(1400)
//	_ = tf.SetProton(proton)
//	_ = tf.SetPhotons(photons) // N ≥ K candidates
//	var r solver.Result
//	for tf.NextFit(&r) {
//	    if r.Success() && r.Probability > best { ... }
//	}
//	if err := tf.Err(); err != nil { ... }
//
// Configuration mistakes (zero photons, wrong photon count, vertex sigma
// missing, an unknown detector region) are returned as errors from the
// offending constructor or setter. A fit that does not converge is not an
// error: it is reported in solver.Result.Status.
//
// A TreeFitter fits only through SetPhotons and NextFit; its DoFit and
// Fit return ErrUseNextFit.
//
// Fitters are not safe for concurrent use; run one instance per worker.
package fitter
