// Package particle describes what the fitter consumes: particle types with
// their rest masses, reconstructed detector candidates and physical
// particles carrying a four-momentum.
//
// Energies and masses are in MeV, angles in radians, lengths in cm.
//
// Types are package-level singletons compared by pointer. A few of them
// are grouped under a generic parent (Proton and Neutron are both a
// Nucleon, PiPlus and PiMinus are PiCharged), which Is takes into account.
package particle
