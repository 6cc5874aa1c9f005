// Package testutil provides testing utilities for the arena packages.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded random allocation sizes and byte patterns for
// detecting overlapping or clobbered allocations.
//
// # Random Allocation Sizes
//
//	rng := testutil.NewRNG(seed)
//	sizes := rng.UniformSizes(1000, 4096) // uniform [1, 4096]
//	sizes = rng.ZipfSizes(1000, 64, 1.5) // mostly small, heavy tail
//
// # Overlap Detection
//
//	testutil.FillPattern(buf, id)
//	ok := testutil.CheckPattern(buf, id)
package testutil
