// Command kinfit-demo generates events for a decay channel, selects the
// proton among all candidates and runs the tree fitter on every
// proton/photon combination. It prints a summary and the collected
// metrics in Prometheus text format.
//
// Usage:
//
//	kinfit-demo --channel EtaPrime_3Pi0_6g --events 200 --beam 1550 --zvertex --zvertex-sigma 3
package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-logr/logr"
	"github.com/katalvlaran/kinfit/config"
	"github.com/katalvlaran/kinfit/decaytree"
	"github.com/katalvlaran/kinfit/fitter"
	"github.com/katalvlaran/kinfit/logging"
	"github.com/katalvlaran/kinfit/mcgun"
	"github.com/katalvlaran/kinfit/metrics"
	"github.com/katalvlaran/kinfit/particle"
	"github.com/katalvlaran/kinfit/selection"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, nil); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "kinfit-demo:", err)
		}
		os.Exit(1)
	}
}

// summary of one run.
type summary struct {
	events, fitted, protonFound int
	probSum                     float64
}

// run executes the demo. A nil logger builds one from the settings.
func run(args []string, out io.Writer, log *logr.Logger) error {
	// 1. Flags and settings.
	fs := flag.NewFlagSet("kinfit-demo", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "YAML settings file")
	channelName := fs.String("channel", decaytree.Direct2Pi0_4g.String(), "decay channel")
	events := fs.Int("events", 100, "number of events")
	beam := fs.Float64("beam", 1500, "beam energy in MeV")
	seed := fs.Uint64("seed", 1, "generator seed")
	showMetrics := fs.Bool("metrics", true, "print metrics")
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(*cfgPath, fs)
	if err != nil {
		return err
	}
	channel, err := decaytree.Lookup(*channelName)
	if err != nil {
		return err
	}

	// 2. Components.
	var logger logr.Logger
	if log != nil {
		logger = *log
	} else if logger, err = logging.New(logging.Options{Development: cfg.Logging.Development, Level: cfg.Logging.Level}); err != nil {
		return err
	}
	model, err := cfg.UncertaintyModel()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return err
	}
	opts := append(cfg.FitterOptions(logger), fitter.WithObserver(rec))
	tf, err := fitter.NewTreeFitter(channel.String(), decaytree.Get(channel), model, opts...)
	if err != nil {
		return err
	}
	if n := cfg.IterationFilter.MaxIterations; n > 0 {
		tf.SetIterationFilter(imQuality(tf), n)
	}
	gun := mcgun.New(mcgun.WithSeed(*seed), mcgun.WithModel(model), mcgun.WithGeometry(cfg.DetectorGeometry()))

	// 3. Event loop.
	var sum summary
	for range *events {
		ev, err := gun.GenerateAccepted(decaytree.Get(channel), *beam, 1000)
		if err != nil {
			return err
		}
		sum.events++
		best, proton, err := fitEvent(tf, ev)
		if err != nil {
			return err
		}
		if math.IsNaN(best) {
			continue
		}
		sum.fitted++
		sum.probSum += best
		if proton == ev.Proton.Candidate {
			sum.protonFound++
		}
	}
	logger.Info("done", "events", sum.events, "fitted", sum.fitted)

	// 4. Report.
	fmt.Fprintf(out, "channel:        %s\n", decaytree.DecayString(decaytree.Get(channel)))
	fmt.Fprintf(out, "events:         %d\n", sum.events)
	fmt.Fprintf(out, "fitted:         %d\n", sum.fitted)
	if sum.fitted > 0 {
		fmt.Fprintf(out, "proton found:   %.1f%%\n", 100*float64(sum.protonFound)/float64(sum.fitted))
		fmt.Fprintf(out, "mean best prob: %.3f\n", sum.probSum/float64(sum.fitted))
	}
	if *showMetrics {
		fmt.Fprintln(out)

		return metrics.WriteText(out, reg)
	}

	return nil
}

// fitEvent tries every candidate as proton and returns the best
// probability with the candidate chosen as proton, NaN if no fit succeeded.
func fitEvent(tf *fitter.TreeFitter, ev *mcgun.Event) (float64, *particle.Candidate, error) {
	cands := []*particle.Candidate{ev.Proton.Candidate}
	for _, g := range ev.Photons {
		cands = append(cands, g.Candidate)
	}
	combs := selection.NewProtonPhotonCombs(cands).Combinations().
		FilterMult(tf.NumLeaves(), math.Inf(1))

	best := math.NaN()
	var proton *particle.Candidate
	tf.SetEgammaBeam(ev.BeamE)
	for _, c := range combs.All() {
		if err := tf.SetProton(c.Proton); err != nil {
			return 0, nil, err
		}
		if err := tf.SetPhotons(c.Photons); err != nil {
			return 0, nil, err
		}
		var r solver.Result
		for tf.NextFit(&r) {
			if r.Success() && (math.IsNaN(best) || r.Probability > best) {
				best, proton = r.Probability, c.Proton.Candidate
			}
		}
		if err := tf.Err(); err != nil {
			return 0, nil, err
		}
	}

	return best, proton, nil
}

// imQuality ranks iterations by how close the measured invariant masses
// of all constrained nodes are to their nominal values.
func imQuality(tf *fitter.TreeFitter) func() float64 {
	return func() float64 {
		q := 0.0
		tf.Tree().Walk(func(n fitter.Tree) {
			if r := n.Get().IMResidual; !math.IsNaN(r) {
				q += r * r
			}
		})

		return 1 / (1 + q)
	}
}
