// Package uncertainty maps a reconstructed particle onto the measurement
// sigmas the fitter needs, per detector region.
//
// A Model is a pure strategy: the same particle always yields the same
// Uncertainties. Three strategies are provided:
//
//   - Constant:          fixed sigmas per (particle type × region)
//   - ConstantRelativeE: like Constant, but σ(Ek) is relative to Ek
//   - Theoretical:       energy dependent parametrisations including
//     shower depth and its spread
//
// Angles are in radians, energies in MeV, lengths in cm. A zero σ(Ek) marks
// the kinetic energy as unmeasured (the proton in all shipped models).
package uncertainty
