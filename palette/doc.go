// Package palette maps arbitrary application symbols (runes, colors, tile
// names) to dense small integers and back.
//
// What:
//
//   - Palette[T] assigns indices 0..Len()-1 to values in first-seen order.
//   - Encode/Decode convert whole rectangular grids through a palette.
//   - FromStrings/ToStrings are shortcuts for character maps.
//
// Why:
//
//   - Synthesis engines compare symbols by equality only; dense indices keep
//     their keys small and their tables flat.
//   - Insertion order makes index assignment reproducible run to run.
//
// Complexity:
//
//   - Add, IndexOf, Value: O(1) average.
//   - Encode, Decode:      O(W×H).
//
// Errors:
//
//   - ErrEmptyGrid:      input grid has no rows or no columns.
//   - ErrNonRectangular: rows have differing lengths.
//   - ErrUnknownIndex:   Decode met an index the palette never assigned.
//
// A Palette is not safe for concurrent mutation; share it read-only once
// it has been filled.
package palette
