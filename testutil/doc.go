// Package testutil provides testing utilities for pixload.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic image fixtures, a recorder for delivered images
// and store wrappers that let a test control when sources open.
//
// # Fixtures
//
//	rng := testutil.NewRNG(seed)
//	data, err := testutil.EncodePNG(rng.NoiseImage(640, 480))
//
// # Recording deliveries
//
//	rec := testutil.NewRecorder()
//	target := display.NewTarget("t", display.Inline{}, nil, rec.Apply)
//	rec.WaitFor(t, 1, time.Second)
package testutil
