package fitter_test

import (
	"testing"

	"github.com/katalvlaran/kinfit/decaytree"
	"github.com/katalvlaran/kinfit/fitter"
	"github.com/katalvlaran/kinfit/mcgun"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/katalvlaran/kinfit/uncertainty"
)

// BenchmarkKinFitter_Eta measures one energy-momentum fit of γp → p γγ.
func BenchmarkKinFitter_Eta(b *testing.B) {
	model := uncertainty.NewMCLongTarget()
	ev, err := mcgun.New(mcgun.WithSeed(1), mcgun.WithModel(model)).
		GenerateAccepted(decaytree.Get(decaytree.Eta_2g), 1400, 1000)
	if err != nil {
		b.Fatal(err)
	}
	k, err := fitter.NewKinFitter("bench", 2, model)
	if err != nil {
		b.Fatal(err)
	}
	k.SetEgammaBeam(ev.BeamE)
	_ = k.SetProton(ev.Proton)
	_ = k.SetPhotons(ev.Photons)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = k.DoFit()
	}
}

// BenchmarkTreeFitter_3Pi0 runs all 15 iterations of η' → 3π0 → 6γ.
func BenchmarkTreeFitter_3Pi0(b *testing.B) {
	model := uncertainty.NewMCLongTarget()
	ev, err := mcgun.New(mcgun.WithSeed(1), mcgun.WithModel(model)).
		GenerateAccepted(decaytree.Get(decaytree.EtaPrime_3Pi0_6g), 1600, 1000)
	if err != nil {
		b.Fatal(err)
	}
	tf, err := fitter.NewTreeFitter("bench", decaytree.Get(decaytree.EtaPrime_3Pi0_6g), model)
	if err != nil {
		b.Fatal(err)
	}
	tf.SetEgammaBeam(ev.BeamE)
	_ = tf.SetProton(ev.Proton)

	b.ReportAllocs()
	b.ResetTimer()
	var r solver.Result
	for i := 0; i < b.N; i++ {
		_ = tf.SetPhotons(ev.Photons)
		for tf.NextFit(&r) {
		}
	}
}
