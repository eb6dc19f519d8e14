// Package logging builds the logr.Logger handed to the fitters: zap in
// production and the demo, testr in tests.
package logging

import (
	"io"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels used with logr.Logger.V.
const (
	INFO  = 0
	DEBUG = 1 // per-fit results
	TRACE = 2
)

// Options select the zap configuration.
type Options struct {
	// Development switches to console output with caller and stack traces.
	Development bool
	// Level is the highest logr verbosity written.
	Level int
}

// New returns a zap-backed logger writing to stderr.
func New(o Options) (logr.Logger, error) {
	cfg := zap.NewProductionConfig()
	if o.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-o.Level))
	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), err
	}

	return zapr.NewLogger(z), nil
}

// NewWriter returns a JSON logger writing to w.
func NewWriter(w io.Writer, o Options) logr.Logger {
	enc := zap.NewProductionEncoderConfig()
	if o.Development {
		enc = zap.NewDevelopmentEncoderConfig()
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), zap.NewAtomicLevelAt(zapcore.Level(-o.Level)))

	return zapr.NewLogger(zap.New(core))
}

// NewTestLogger logs through t up to TRACE.
func NewTestLogger(t testing.TB) logr.Logger {
	return testr.NewWithInterface(t, testr.Options{Verbosity: TRACE})
}
