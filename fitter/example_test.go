package fitter_test

import (
	"fmt"

	"github.com/katalvlaran/kinfit/decaytree"
	"github.com/katalvlaran/kinfit/fitter"
	"github.com/katalvlaran/kinfit/mcgun"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/katalvlaran/kinfit/uncertainty"
)

// ExampleTreeFitter fits an unsmeared γp → p π0π0 event against all
// pairings of its four photons and keeps the most probable one.
func ExampleTreeFitter() {
	model := uncertainty.NewMCLongTarget()
	ev, err := mcgun.New(mcgun.WithSeed(9), mcgun.WithoutSmearing()).
		GenerateAccepted(decaytree.Get(decaytree.Direct2Pi0_4g), 1200, 1000)
	if err != nil {
		fmt.Println(err)
		return
	}

	tf, err := fitter.NewTreeFitter("2pi0", decaytree.Get(decaytree.Direct2Pi0_4g), model)
	if err != nil {
		fmt.Println(err)
		return
	}
	tf.SetEgammaBeam(ev.BeamE)
	_ = tf.SetProton(ev.Proton)
	_ = tf.SetPhotons(ev.Photons)

	best, bestProb := -1, -1.0
	var r solver.Result
	for i := 0; tf.NextFit(&r); i++ {
		if r.Success() && r.Probability > bestProb {
			best, bestProb = i, r.Probability
		}
	}
	fmt.Println("permutations:", tf.Permutations())
	fmt.Println("best iteration:", best)
	fmt.Printf("probability: %.3f\n", bestProb)
	// Output:
	// permutations: 3
	// best iteration: 0
	// probability: 1.000
}

// ExampleKinFitter shows the convenience Fit on an exact event.
func ExampleKinFitter() {
	ev, err := mcgun.New(mcgun.WithSeed(4), mcgun.WithoutSmearing()).
		GenerateAccepted(decaytree.Get(decaytree.Eta_2g), 1400, 1000)
	if err != nil {
		fmt.Println(err)
		return
	}
	k, err := fitter.NewKinFitter("eta", 2, uncertainty.NewMCLongTarget())
	if err != nil {
		fmt.Println(err)
		return
	}
	r, err := k.Fit(ev.BeamE, ev.Proton, ev.Photons)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(r.Status, r.NDoF)
	// Output:
	// Success 3
}
