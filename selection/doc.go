// Package selection decides which candidate is the proton.
//
// Without charged-particle identification every candidate may be the
// recoil proton. ProtonPhotonCombs pre-builds one combination per
// candidate, with that candidate as proton and all others as photons
// sorted by descending kinetic energy. Each call to Combinations returns a
// fresh copy that can be narrowed down with chained filters:
//
//	combs := selection.NewProtonPhotonCombs(cands).Combinations().
//	    FilterMult(4, 70).
//	    FilterIM(selection.Interval{Min: 400, Max: 1100}).
//	    FilterMM(ebeam, selection.Interval{Min: 800, Max: 1100}, particle.Proton)
//	for _, c := range combs.All() {
//	    _ = fit.SetProton(c.Proton)
//	    _ = fit.SetPhotons(c.Photons)
//	}
//
// An optional observer is told about every combination passing a filter
// with a real cut, typically to count selection steps.
package selection
