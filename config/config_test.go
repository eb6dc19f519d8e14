package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/katalvlaran/kinfit/config"
	"github.com/katalvlaran/kinfit/detector"
	"github.com/katalvlaran/kinfit/fitter"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/katalvlaran/kinfit/uncertainty"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "kinfit.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func TestLoad_Defaults(t *testing.T) {
	s, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), *s)
	assert.Equal(t, solver.DefaultSettings(), s.SolverSettings())
	assert.Equal(t, detector.DefaultGeometry(), s.DetectorGeometry())
}

func TestLoad_FileEnvFlags(t *testing.T) {
	p := writeFile(t, `
solver:
  maxIterations: 50
zVertex:
  enabled: true
  sigma: 2.5
uncertainty:
  model: theoretical
  beamtime: Eta_2007
`)
	t.Setenv("KINFIT_SOLVER_STEPFACTOR", "0.001")
	t.Setenv("KINFIT_ITERATIONFILTER_MAXITERATIONS", "7")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--max-iterations=60", "-v", "2"}))

	s, err := config.Load(p, fs)
	require.NoError(t, err)
	assert.Equal(t, 60, s.Solver.MaxIterations)
	assert.Equal(t, 0.001, s.Solver.StepFactor)
	assert.Equal(t, 7, s.IterationFilter.MaxIterations)
	assert.True(t, s.ZVertex.Enabled)
	assert.Equal(t, 2.5, s.ZVertex.Sigma)
	assert.Equal(t, 2, s.Logging.Level)
	// untouched keys keep their defaults
	assert.Equal(t, config.Default().Solver.ConstraintAccuracy, s.Solver.ConstraintAccuracy)

	m, err := s.UncertaintyModel()
	require.NoError(t, err)
	th, ok := m.(*uncertainty.Theoretical)
	require.True(t, ok)
	assert.Equal(t, uncertainty.Eta2007, th.Beamtime)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"model":     "uncertainty:\n  model: magic\n",
		"beamtime":  "uncertainty:\n  model: theoretical\n  beamtime: 1999\n",
		"solver":    "solver:\n  maxIterations: 0\n",
		"zvertex":   "zVertex:\n  sigma: -1\n",
		"geometry":  "geometry:\n  cbInnerRadius: 0\n",
		"filter":    "iterationFilter:\n  maxIterations: -2\n",
		"beamSigma": "uncertainty:\n  beamSigma: -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, content), nil)
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestUncertaintyModel_Constant(t *testing.T) {
	s := config.Default()
	s.Uncertainty.Model = config.ModelConstant
	s.Uncertainty.PhotonCB = config.Sigmas{Ek: 10, Theta: 2, Phi: 3}
	s.Uncertainty.BeamSigma = 2
	require.NoError(t, s.Validate())

	m, err := s.UncertaintyModel()
	require.NoError(t, err)
	c, ok := m.(*uncertainty.Constant)
	require.True(t, ok)
	assert.Equal(t, 10.0, c.PhotonCB.SigmaEk)
	assert.InDelta(t, 0.0349066, c.PhotonCB.SigmaTheta, 1e-6)
	assert.Equal(t, 2.0, m.BeamEnergySigma(1000))

	s.Uncertainty.Model = config.ModelRelative
	m, err = s.UncertaintyModel()
	require.NoError(t, err)
	assert.IsType(t, &uncertainty.ConstantRelativeE{}, m)
}

func TestFitterOptions(t *testing.T) {
	s := config.Default()
	s.ZVertex = config.ZVertex{Enabled: true, Sigma: 1.5}
	o := fitter.DefaultOptions()
	for _, opt := range s.FitterOptions(logr.Discard()) {
		opt(&o)
	}
	assert.True(t, o.ZVertexFit)
	assert.Equal(t, 1.5, o.ZVertexSigma)
	assert.Equal(t, s.SolverSettings(), o.Solver)
}

func TestMarshal_RoundTrip(t *testing.T) {
	s := config.Default()
	s.ZVertex.Enabled = true
	out, err := config.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), "maxIterations: 30")

	var back config.Settings
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, s, back)

	loaded, err := config.Load(writeFile(t, string(out)), nil)
	require.NoError(t, err)
	assert.Equal(t, s, *loaded)
}
