// Package kinfit fits reconstructed photoproduction events γ p → p + n γ
// to energy-momentum conservation and, along a decay tree, to the
// invariant masses of the intermediate particles.
//
// 🚀 What is inside?
//
//	A small stack of flat packages, each usable on its own:
//		• combinatorics – k-of-n draws with complements
//		• particle      – particle types, candidates, four-vectors (go-hep fmom)
//		• detector      – calorimeter regions (CB, TAPS) and their geometry
//		• decaytree     – generic trees, canonical sort, unique leaf permutations,
//		                  the decay channel database
//		• uncertainty   – measurement resolution models
//		• solver        – constrained least squares with Lagrange multipliers (gonum)
//		• fitter        – FitParticle, KinFitter and TreeFitter
//		• selection     – proton/photon combinations and pre-fit filters
//		• mcgun         – event generator with detector smearing
//		• config, logging, metrics – viper settings, zap/logr, Prometheus
//
// ✨ Typical flow
//
//	combs := selection.NewProtonPhotonCombs(cands).Combinations().FilterMult(6, 70)
//	tf, _ := fitter.NewTreeFitter("etap", decaytree.Get(decaytree.EtaPrime_3Pi0_6g), model)
//	for _, c := range combs.All() {
//	    tf.SetEgammaBeam(ebeam)
//	    _ = tf.SetProton(c.Proton)
//	    _ = tf.SetPhotons(c.Photons)
//	    for tf.NextFit(&r) { ... }
//	}
//
// cmd/kinfit-demo wires all of it together on generated events.
//
//	go install github.com/katalvlaran/kinfit/cmd/kinfit-demo@latest
package kinfit
