// Package mcgun generates synthetic photoproduction events for a decay
// tree and turns them into detector candidates.
//
// 🚀 What it does
//
//   - Decays beam+target at rest in the lab into the daughters of the tree
//     root, then every internal node into its daughters, in the rest frame
//     of the decaying particle. Two daughters are emitted back to back
//     isotropically; more than two are split off one at a time with the
//     invariant mass of the remainder drawn uniformly between its bounds.
//     The result follows the topology exactly but is not weighted to true
//     phase space.
//   - Assigns every final-state particle the detector region its angles
//     point at and, unless disabled, smears (Ek, θ, φ) with the sigmas of
//     an uncertainty model. The tagged beam energy is smeared too.
//
// ⚙️ Usage:
//
//	gun := mcgun.New(mcgun.WithSeed(1), mcgun.WithModel(uncertainty.NewMCLongTarget()))
//	ev, err := gun.GenerateAccepted(decaytree.Get(decaytree.Eta_2g), 1400, 100)
//	_ = fit.SetProton(ev.Proton)
//	_ = fit.SetPhotons(ev.Photons)
//
// Only protons and photons are supported as final-state particles.
package mcgun
