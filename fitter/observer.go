package fitter

import "github.com/katalvlaran/kinfit/solver"

// Observer receives fit statistics, e.g. for metrics.
type Observer interface {
	// ObserveFit is called after every solver run.
	ObserveFit(fitter string, r solver.Result)
	// ObserveIterations is called once per TreeFitter.SetPhotons with the
	// number of prepared iterations and of those kept by the filter.
	ObserveIterations(fitter string, prepared, kept int)
}
