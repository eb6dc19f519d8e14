// Package detector tags which calorimeter a particle was measured in and
// holds the geometry constants the fit parametrisation depends on.
//
// Two mutually exclusive regions exist:
//
//   - CB:   the near-spherical central calorimeter (region A), covering
//     polar angles of roughly 20°–160°. Its inner surface sits at a fixed
//     radius from the target centre.
//   - TAPS: the planar forward wall (region B), covering roughly 2°–20°,
//     located at a fixed distance downstream along the beam axis.
//
// None marks an unset or unknown assignment. Code that dispatches on a
// Type must treat None (and any value outside the known set) as an error,
// never as a default case.
package detector
