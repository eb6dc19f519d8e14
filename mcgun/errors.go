package mcgun

import "errors"

var (
	// ErrBelowThreshold is returned when the beam cannot produce the tree.
	ErrBelowThreshold = errors.New("mcgun: beam energy below threshold")
	// ErrUnsupportedLeaf is returned for final-state particles other than
	// protons and photons.
	ErrUnsupportedLeaf = errors.New("mcgun: unsupported final-state particle")
	// ErrNotAccepted is returned by GenerateAccepted when no event within
	// the given number of tries had every particle inside the detector.
	ErrNotAccepted = errors.New("mcgun: no accepted event")
)
