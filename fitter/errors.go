package fitter

import "errors"

// Sentinel errors; call sites wrap them with context.
var (
	ErrNoPhotons         = errors.New("fitter: at least one photon required")
	ErrPhotonCount       = errors.New("fitter: photon count does not match")
	ErrTooFewPhotons     = errors.New("fitter: fewer photons than tree leaves")
	ErrNoModel           = errors.New("fitter: uncertainty model missing")
	ErrNoCandidate       = errors.New("fitter: particle without candidate")
	ErrUnknownDetector   = errors.New("fitter: unknown detector region")
	ErrBadEnergy         = errors.New("fitter: non-positive kinetic energy")
	ErrZVertexDisabled   = errors.New("fitter: z vertex fit not enabled")
	ErrZVertexSigmaUnset = errors.New("fitter: z vertex sigma not set although enabled")
	ErrInvalidSigma      = errors.New("fitter: invalid sigma")
	ErrNotBound          = errors.New("fitter: beam, proton or photons not set")
	ErrNilTree           = errors.New("fitter: decay tree missing")
	ErrTooComplexTree    = errors.New("fitter: tree has leaves other than photons and one proton")
	ErrUseNextFit        = errors.New("fitter: tree fitter fits only through SetPhotons and NextFit")
)
