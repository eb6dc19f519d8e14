// Package config loads fit settings from YAML, KINFIT_* environment
// variables and command-line flags, in increasing precedence, on top of
// built-in defaults.
//
// A minimal file:
//
//	solver:
//	  maxIterations: 50
//	zVertex:
//	  enabled: true
//	  sigma: 3
//	uncertainty:
//	  model: theoretical
//	  beamtime: EPT_2014
//
// Nested keys map to environment variables by joining with underscores,
// e.g. KINFIT_SOLVER_MAXITERATIONS or KINFIT_UNCERTAINTY_MODEL.
package config
