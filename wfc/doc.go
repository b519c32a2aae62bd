// Package wfc synthesizes large 2D grids that locally resemble a small
// sample grid, using the overlapping model of Wave Function Collapse.
//
// What:
//
//   - Catalog extracts every N×N window ("pattern") of the sample, expands it
//     by up to 8 rotations/reflections, deduplicates by content and counts
//     occurrences as weights.
//   - Propagator precomputes, per direction and pattern, which patterns may
//     sit next to it (pixel agreement on the overlap).
//   - Model holds one possibility domain per output cell with incrementally
//     maintained aggregates (count, Σw, Σw·log w, entropy) and runs the
//     observe/propagate loop until every cell is decided or one is emptied.
//   - Result, Observed and Preview read the state back out as symbols.
//
// Why:
//
//   - Procedural maps, textures and level layouts that "look like" a
//     hand-made example without hand-written adjacency rules.
//
// Algorithm outline:
//  1. clear: every cell admits every pattern; support counters are set to
//     the size of each compatibility list; optional ground row is forced.
//  2. observe: pick the undetermined cell of minimum entropy (+ noise in
//     [0, 1e-6) to break ties), draw one of its patterns by weight, ban the
//     rest.
//  3. propagate: pop (cell, pattern) bans from a work stack; each ban removes
//     one unit of support from the compatible patterns of each neighbor; a
//     pattern whose support in some direction reaches zero is banned in turn.
//  4. Repeat 2–3 until collapsed, contradicted or out of iterations.
//
// Complexity:
//
//   - NewCatalog:    O(S·sym·N²) for S sample offsets.
//   - NewPropagator: O(4·T²·N²).
//   - Run:           O(steps·W·H) for observation scans plus
//     O(W·H·T·4·T) worst case for propagation; memory O(W·H·T·4).
//
// Options:
//
//   - WithOrder(n), WithSymmetry(s), WithPeriodicInput(b), WithPeriodicOutput(b),
//     WithGround(t) shape the model.
//   - WithLogger, WithTracerProvider, WithMeterProvider, WithOnBan,
//     WithOnObserve attach observability.
//   - WithAttempts, WithWorkers tune Generate and GenerateBatch.
//
// Errors:
//
//   - Configuration problems are reported at construction as wrapped
//     sentinels (ErrBadOrder, ErrSampleTooSmall, ErrBadSymmetry, …).
//   - Contradiction is not an error: Run reports it as an Outcome and the
//     caller retries with another seed (or uses Generate).
//
// Concurrency:
//
//   - Catalog and Propagator are immutable after construction and safe to
//     share between goroutines. A Model is single-threaded; give every
//     goroutine its own Model (GenerateBatch does exactly that).
package wfc
