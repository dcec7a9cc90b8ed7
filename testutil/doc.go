// Package testutil provides testing utilities for orthoset.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating seeded random matrices, planting an
// orthogonal block into noise, and computing exhaustive reference rankings.
//
// # Random Matrix Generation
//
//	rng := testutil.NewRNG(seed)
//	m := rng.UniformMatrix(6, 5)             // values in [0, 1)
//	m = rng.PlantedMatrix(8, 6, 2, 1000)     // orthogonal block hidden in noise
//
// # Reference Ranking
//
//	want := testutil.BruteForce(m, selection.Shape{Rows: 2, Cols: 2}, kernel.Direct)
package testutil
