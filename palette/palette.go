package palette

import (
	"errors"
	"fmt"
)

// Sentinel errors for palette operations.
var (
	// ErrEmptyGrid indicates the input grid has no rows or no columns.
	ErrEmptyGrid = errors.New("palette: input grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("palette: all rows must have the same length")
	// ErrUnknownIndex indicates an index outside [0, Len()).
	ErrUnknownIndex = errors.New("palette: index out of range")
)

// Palette is an insertion-ordered bijection between values of T and the
// dense indices 0..Len()-1.
type Palette[T comparable] struct {
	index  map[T]int
	values []T
}

// New returns an empty palette with room for capHint values.
func New[T comparable](capHint int) *Palette[T] {
	if capHint < 0 {
		capHint = 0
	}
	return &Palette[T]{
		index:  make(map[T]int, capHint),
		values: make([]T, 0, capHint),
	}
}

// Add returns the index of v, assigning the next free index if v is new.
// Complexity: O(1) average.
func (p *Palette[T]) Add(v T) int {
	if i, ok := p.index[v]; ok {
		return i
	}
	i := len(p.values)
	p.index[v] = i
	p.values = append(p.values, v)
	return i
}

// IndexOf reports the index of v without adding it.
func (p *Palette[T]) IndexOf(v T) (int, bool) {
	i, ok := p.index[v]
	return i, ok
}

// Value returns the value stored at index i.
func (p *Palette[T]) Value(i int) (T, error) {
	if i < 0 || i >= len(p.values) {
		var zero T
		return zero, fmt.Errorf("%w: %d (len %d)", ErrUnknownIndex, i, len(p.values))
	}
	return p.values[i], nil
}

// Len returns the number of distinct values seen so far.
func (p *Palette[T]) Len() int { return len(p.values) }

// Values returns a copy of the values in index order.
func (p *Palette[T]) Values() []T {
	out := make([]T, len(p.values))
	copy(out, p.values)
	return out
}

// Encode maps every cell of grid through p, adding unseen values.
// grid is row-major ([y][x]) and must be non-empty and rectangular.
// Complexity: O(W×H).
func Encode[T comparable](p *Palette[T], grid [][]T) ([][]int, error) {
	if err := checkShape(grid); err != nil {
		return nil, err
	}
	out := make([][]int, len(grid))
	for y, row := range grid {
		out[y] = make([]int, len(row))
		for x, v := range row {
			out[y][x] = p.Add(v)
		}
	}
	return out, nil
}

// Decode maps dense indices back to values. It fails on the first index the
// palette never assigned.
// Complexity: O(W×H).
func Decode[T comparable](p *Palette[T], grid [][]int) ([][]T, error) {
	if err := checkShape(grid); err != nil {
		return nil, err
	}
	out := make([][]T, len(grid))
	for y, row := range grid {
		out[y] = make([]T, len(row))
		for x, i := range row {
			v, err := p.Value(i)
			if err != nil {
				return nil, fmt.Errorf("decode (%d,%d): %w", x, y, err)
			}
			out[y][x] = v
		}
	}
	return out, nil
}

// checkShape validates that grid is non-empty and rectangular.
func checkShape[T any](grid [][]T) error {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return ErrEmptyGrid
	}
	w := len(grid[0])
	for _, row := range grid {
		if len(row) != w {
			return ErrNonRectangular
		}
	}
	return nil
}
