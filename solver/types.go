package solver

import (
	"fmt"
)

// Settings tune the iteration.
type Settings struct {
	// MaxIterations caps the number of linearisation steps.
	MaxIterations int
	// ConstraintAccuracy is the largest |fⱼ| accepted as satisfied.
	ConstraintAccuracy float64
	// ChiSquareEpsilon is the largest χ² change accepted as converged.
	ChiSquareEpsilon float64
	// StepFactor is the finite-difference step in units of the variable scale.
	StepFactor float64
}

// DefaultSettings returns settings suited for kinematic fits on MeV scale.
func DefaultSettings() Settings {
	return Settings{
		MaxIterations:      30,
		ConstraintAccuracy: 1e-4,
		ChiSquareEpsilon:   1e-5,
		StepFactor:         1e-4,
	}
}

// Validate checks that all settings are positive.
func (s Settings) Validate() error {
	switch {
	case s.MaxIterations <= 0:
		return fmt.Errorf("MaxIterations=%d: %w", s.MaxIterations, ErrBadSettings)
	case !(s.ConstraintAccuracy > 0):
		return fmt.Errorf("ConstraintAccuracy=%g: %w", s.ConstraintAccuracy, ErrBadSettings)
	case !(s.ChiSquareEpsilon > 0):
		return fmt.Errorf("ChiSquareEpsilon=%g: %w", s.ChiSquareEpsilon, ErrBadSettings)
	case !(s.StepFactor > 0):
		return fmt.Errorf("StepFactor=%g: %w", s.StepFactor, ErrBadSettings)
	}

	return nil
}

// Status is the outcome of one DoFit call.
type Status int

const (
	// Success means all constraints are met and χ² is stable.
	Success Status = iota
	// TooManyIterations means MaxIterations was hit first.
	TooManyIterations
	// UnphysicalValues means a value or residual became NaN or infinite.
	UnphysicalValues
	// NegativeDoF means there are more unmeasured variables than constraints.
	NegativeDoF
	// Singular means the linearised system could not be solved.
	Singular
	// NoConstraints means DoFit was called without any constraint.
	NoConstraints
)

var statusNames = [...]string{
	Success:           "Success",
	TooManyIterations: "TooManyIterations",
	UnphysicalValues:  "UnphysicalValues",
	NegativeDoF:       "NegativeDoF",
	Singular:          "Singular",
	NoConstraints:     "NoConstraints",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}

	return statusNames[s]
}

// Handle points at caller-owned storage of one scalar variable component.
// Value and Sigma are required; Pull is optional.
//
// A component with Sigma 0 is unmeasured unless Fixed is set, in which
// case it keeps its start value and costs no degree of freedom.
type Handle struct {
	Value *float64
	Sigma *float64
	Pull  *float64
	Fixed bool
}

// VariableResult holds the fitted state of one named variable.
type VariableResult struct {
	ValuesBefore []float64
	SigmasBefore []float64
	Values       []float64
	Sigmas       []float64
	Pulls        []float64
}

// Result summarises one DoFit call.
type Result struct {
	Status      Status
	ChiSquare   float64
	NDoF        int
	Probability float64
	NIterations int
	NFunctions  int // constraint evaluations including finite differences

	Variables map[string]VariableResult
}

// Success reports whether the fit converged.
func (r Result) Success() bool { return r.Status == Success }

// String implements fmt.Stringer.
func (r Result) String() string {
	return fmt.Sprintf("%s chi2=%.4g ndof=%d prob=%.4g iter=%d",
		r.Status, r.ChiSquare, r.NDoF, r.Probability, r.NIterations)
}
