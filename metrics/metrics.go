// Package metrics exports fit statistics to Prometheus. Recorder
// implements fitter.Observer.
package metrics

import (
	"fmt"
	"io"
	"math"

	"github.com/katalvlaran/kinfit/fitter"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Label values of kinfit_tree_iterations_total.
const (
	StagePrepared = "prepared"
	StageKept     = "kept"
)

// Recorder counts fits, their iterations and probabilities.
type Recorder struct {
	fits        *prometheus.CounterVec
	iterations  *prometheus.HistogramVec
	probability *prometheus.HistogramVec
	tree        *prometheus.CounterVec
}

var _ fitter.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kinfit_fits_total",
				Help: "Number of solver runs by fitter and status",
			},
			[]string{"fitter", "status"},
		),
		iterations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kinfit_fit_iterations",
				Help:    "Solver iterations per fit",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
			[]string{"fitter"},
		),
		probability: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kinfit_fit_probability",
				Help:    "χ² probability of successful fits",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
			[]string{"fitter"},
		),
		tree: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kinfit_tree_iterations_total",
				Help: "Tree fitter iterations prepared and kept after filtering",
			},
			[]string{"fitter", "stage"},
		),
	}
	for _, c := range []prometheus.Collector{r.fits, r.iterations, r.probability, r.tree} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("NewRecorder: %w", err)
		}
	}

	return r, nil
}

// ObserveFit implements fitter.Observer.
func (r *Recorder) ObserveFit(name string, res solver.Result) {
	r.fits.WithLabelValues(name, res.Status.String()).Inc()
	r.iterations.WithLabelValues(name).Observe(float64(res.NIterations))
	if res.Success() && !math.IsNaN(res.Probability) {
		r.probability.WithLabelValues(name).Observe(res.Probability)
	}
}

// ObserveIterations implements fitter.Observer.
func (r *Recorder) ObserveIterations(name string, prepared, kept int) {
	r.tree.WithLabelValues(name, StagePrepared).Add(float64(prepared))
	r.tree.WithLabelValues(name, StageKept).Add(float64(kept))
}

// WriteText writes everything gathered by g in the text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}

	return nil
}
