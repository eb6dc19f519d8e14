package config

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/go-logr/logr"
	"github.com/katalvlaran/kinfit/detector"
	"github.com/katalvlaran/kinfit/fitter"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/katalvlaran/kinfit/uncertainty"
)

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("config: invalid settings")

// Uncertainty model names.
const (
	ModelConstant     = "constant"
	ModelRelative     = "relative"
	ModelMCLongTarget = "mclongtarget"
	ModelTheoretical  = "theoretical"
)

var modelNames = []string{ModelConstant, ModelRelative, ModelMCLongTarget, ModelTheoretical}

// Settings is the complete configuration.
type Settings struct {
	Solver          Solver          `yaml:"solver" mapstructure:"solver"`
	ZVertex         ZVertex         `yaml:"zVertex" mapstructure:"zVertex"`
	IterationFilter IterationFilter `yaml:"iterationFilter" mapstructure:"iterationFilter"`
	Uncertainty     Uncertainty     `yaml:"uncertainty" mapstructure:"uncertainty"`
	Geometry        Geometry        `yaml:"geometry" mapstructure:"geometry"`
	Logging         Logging         `yaml:"logging" mapstructure:"logging"`
}

// Solver mirrors solver.Settings.
type Solver struct {
	MaxIterations      int     `yaml:"maxIterations" mapstructure:"maxIterations"`
	ConstraintAccuracy float64 `yaml:"constraintAccuracy" mapstructure:"constraintAccuracy"`
	ChiSquareEpsilon   float64 `yaml:"chiSquareEpsilon" mapstructure:"chiSquareEpsilon"`
	StepFactor         float64 `yaml:"stepFactor" mapstructure:"stepFactor"`
}

// ZVertex enables the vertex fit; Sigma in cm, 0 for unmeasured.
type ZVertex struct {
	Enabled bool    `yaml:"enabled" mapstructure:"enabled"`
	Sigma   float64 `yaml:"sigma" mapstructure:"sigma"`
}

// IterationFilter limits tree fitter iterations; 0 keeps all.
type IterationFilter struct {
	MaxIterations int `yaml:"maxIterations" mapstructure:"maxIterations"`
}

// Sigmas of one particle type in one region. Ek is in MeV for the
// constant model and relative for the relative model; angles in degrees.
type Sigmas struct {
	Ek    float64 `yaml:"ek" mapstructure:"ek"`
	Theta float64 `yaml:"theta" mapstructure:"theta"`
	Phi   float64 `yaml:"phi" mapstructure:"phi"`
}

// Uncertainty selects and parametrises the uncertainty model. The
// per-region sigmas are used by the constant and relative models only.
type Uncertainty struct {
	Model    string `yaml:"model" mapstructure:"model"`
	Beamtime string `yaml:"beamtime" mapstructure:"beamtime"`

	PhotonCB   Sigmas `yaml:"photonCB" mapstructure:"photonCB"`
	PhotonTAPS Sigmas `yaml:"photonTAPS" mapstructure:"photonTAPS"`
	ProtonCB   Sigmas `yaml:"protonCB" mapstructure:"protonCB"`
	ProtonTAPS Sigmas `yaml:"protonTAPS" mapstructure:"protonTAPS"`
	// BeamSigma in MeV; 0 means the tagger channel default.
	BeamSigma float64 `yaml:"beamSigma" mapstructure:"beamSigma"`
}

// Geometry overrides the detector placement in cm.
type Geometry struct {
	CBInnerRadius float64 `yaml:"cbInnerRadius" mapstructure:"cbInnerRadius"`
	TAPSZPosition float64 `yaml:"tapsZPosition" mapstructure:"tapsZPosition"`
}

// Logging configures the zap logger.
type Logging struct {
	Development bool `yaml:"development" mapstructure:"development"`
	Level       int  `yaml:"level" mapstructure:"level"`
}

// Default returns the built-in settings.
func Default() Settings {
	s := solver.DefaultSettings()

	return Settings{
		Solver: Solver{
			MaxIterations:      s.MaxIterations,
			ConstraintAccuracy: s.ConstraintAccuracy,
			ChiSquareEpsilon:   s.ChiSquareEpsilon,
			StepFactor:         s.StepFactor,
		},
		Uncertainty: Uncertainty{
			Model:    ModelMCLongTarget,
			Beamtime: uncertainty.EPT2014.String(),
		},
		Geometry: Geometry{
			CBInnerRadius: detector.DefaultCBInnerRadius,
			TAPSZPosition: detector.DefaultTAPSZPosition,
		},
	}
}

// Validate checks all fields and returns an error wrapping ErrInvalid.
func (s *Settings) Validate() error {
	if err := s.SolverSettings().Validate(); err != nil {
		return fmt.Errorf("%w: solver: %w", ErrInvalid, err)
	}
	if !(s.ZVertex.Sigma >= 0) || math.IsInf(s.ZVertex.Sigma, 0) {
		return fmt.Errorf("%w: zVertex.sigma=%g", ErrInvalid, s.ZVertex.Sigma)
	}
	if s.IterationFilter.MaxIterations < 0 {
		return fmt.Errorf("%w: iterationFilter.maxIterations=%d", ErrInvalid, s.IterationFilter.MaxIterations)
	}
	if !slices.Contains(modelNames, s.Uncertainty.Model) {
		return fmt.Errorf("%w: uncertainty.model=%q, want one of %v", ErrInvalid, s.Uncertainty.Model, modelNames)
	}
	if s.Uncertainty.Model == ModelTheoretical {
		if _, err := parseBeamtime(s.Uncertainty.Beamtime); err != nil {
			return err
		}
	}
	if s.Uncertainty.BeamSigma < 0 {
		return fmt.Errorf("%w: uncertainty.beamSigma=%g", ErrInvalid, s.Uncertainty.BeamSigma)
	}
	if !(s.Geometry.CBInnerRadius > 0) || !(s.Geometry.TAPSZPosition > 0) {
		return fmt.Errorf("%w: geometry must be positive", ErrInvalid)
	}
	if s.Logging.Level < 0 {
		return fmt.Errorf("%w: logging.level=%d", ErrInvalid, s.Logging.Level)
	}

	return nil
}

func parseBeamtime(name string) (uncertainty.Beamtime, error) {
	for _, b := range []uncertainty.Beamtime{uncertainty.EPT2014, uncertainty.Eta2007} {
		if b.String() == name {
			return b, nil
		}
	}

	return 0, fmt.Errorf("%w: uncertainty.beamtime=%q", ErrInvalid, name)
}

// SolverSettings translates the solver section.
func (s *Settings) SolverSettings() solver.Settings {
	return solver.Settings{
		MaxIterations:      s.Solver.MaxIterations,
		ConstraintAccuracy: s.Solver.ConstraintAccuracy,
		ChiSquareEpsilon:   s.Solver.ChiSquareEpsilon,
		StepFactor:         s.Solver.StepFactor,
	}
}

// DetectorGeometry returns the default geometry with the configured
// placement.
func (s *Settings) DetectorGeometry() detector.Geometry {
	g := detector.DefaultGeometry()
	g.CBInnerRadius = s.Geometry.CBInnerRadius
	g.TAPSZPosition = s.Geometry.TAPSZPosition

	return g
}

func (s Sigmas) uncertainties() uncertainty.Uncertainties {
	return uncertainty.Uncertainties{
		SigmaEk:    s.Ek,
		SigmaTheta: s.Theta * math.Pi / 180,
		SigmaPhi:   s.Phi * math.Pi / 180,
	}
}

// UncertaintyModel builds the configured model. Settings must be valid.
func (s *Settings) UncertaintyModel() (uncertainty.Model, error) {
	u := s.Uncertainty
	constant := uncertainty.Constant{
		PhotonCB:   u.PhotonCB.uncertainties(),
		PhotonTAPS: u.PhotonTAPS.uncertainties(),
		ProtonCB:   u.ProtonCB.uncertainties(),
		ProtonTAPS: u.ProtonTAPS.uncertainties(),
		BeamSigma:  u.BeamSigma,
	}
	switch u.Model {
	case ModelConstant:
		return &constant, nil
	case ModelRelative:
		return &uncertainty.ConstantRelativeE{Constant: constant}, nil
	case ModelMCLongTarget:
		return uncertainty.NewMCLongTarget(), nil
	case ModelTheoretical:
		b, err := parseBeamtime(u.Beamtime)
		if err != nil {
			return nil, err
		}
		m := uncertainty.NewTheoretical(b)
		m.Geometry = s.DetectorGeometry()

		return m, nil
	default:
		return nil, fmt.Errorf("%w: uncertainty.model=%q", ErrInvalid, u.Model)
	}
}

// FitterOptions returns the fitter options for these settings, logging
// to log.
func (s *Settings) FitterOptions(log logr.Logger) []fitter.Option {
	opts := []fitter.Option{
		fitter.WithLogger(log),
		fitter.WithSolverSettings(s.SolverSettings()),
		fitter.WithGeometry(s.DetectorGeometry()),
	}
	if s.ZVertex.Enabled {
		opts = append(opts, fitter.WithZVertexSigma(s.ZVertex.Sigma))
	}

	return opts
}
