// Package solver implements constrained least squares with Lagrange
// multipliers: a set of measured (and possibly unmeasured) named vector
// variables is adjusted until a set of constraint functions vanishes,
// while keeping the χ² distance to the measurement minimal.
//
// What is fitted?
//
//	minimise  χ²(x) = Σᵢ ((xᵢ − x⁰ᵢ)/σᵢ)²   over measured xᵢ (σᵢ > 0)
//	subject   f(x) = 0
//
// Variables with σᵢ = 0 are unmeasured: they are free to move and do not
// contribute to χ², but each one costs a degree of freedom.
//
// Algorithm outline (per iteration k):
//  1. Evaluate f(xₖ) and the Jacobian J by central finite differences in
//     σ-scaled coordinates.
//  2. Solve the KKT system
//     [ W  Jᵀ ] [ x  ]   [ W·x⁰          ]
//     [ J  0  ] [ λ  ] = [ J·xₖ − f(xₖ)  ]
//     with W = 1 on measured and 0 on unmeasured coordinates.
//  3. Stop once max|f| < ConstraintAccuracy and |Δχ²| < ChiSquareEpsilon.
//
// After convergence the upper-left block of the inverted KKT matrix is the
// covariance of the fitted values. Pulls are reported as
// (x − x⁰)/sqrt(σ⁰² − σ²).
//
// Storage is owned by the caller: LinkVariable receives Handles pointing
// into the caller's buffers, DoFit reads the start values and sigmas from
// them and writes fitted values, sigmas and pulls back through them.
//
// A Solver is not safe for concurrent use.
package solver
