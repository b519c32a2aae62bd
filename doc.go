// Package mimic generates 2D grids that look like a small example grid.
//
// What is mimic?
//
//	A pure-Go implementation of the overlapping Wave Function Collapse model:
//		• Pattern catalog: every N×N window of the sample, with rotations and reflections
//		• Compatibility relation: which patterns may touch in each direction
//		• Solver: minimum-entropy observe + support-counting propagation
//		• Rendering of collapsed outputs and previews of partial ones
//		• Seed retries and concurrent batch generation over a shared catalog
//
// Why use it?
//
//   - Deterministic: a seed fully determines the output.
//   - Observable: slog records, OpenTelemetry spans/metrics, ban/observe hooks.
//   - Configurable from code (functional options) or YAML files.
//
// Packages:
//
//	wfc/       Catalog, Propagator, Model, Source, Config, Generate/GenerateBatch
//	palette/   dense symbol mapping for runes, colors or any comparable type
//	examples/  runnable programs (dungeon floor plans, batched island chunks)
//
// Quick start:
//
//	runes, sample, _ := palette.FromStrings([]string{"#.", ".#"})
//	m, _ := wfc.New(sample, 8, 8, wfc.WithPeriodicOutput(true))
//	grid, _, _ := m.Generate(42, 0)
//	rows, _ := palette.ToStrings(runes, grid)
package mimic
