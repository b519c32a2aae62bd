package wfc

// lattice is the geometry of the output grid: dimensions, wrap mode and the
// boundary band that cannot anchor a full pattern.
type lattice struct {
	width, height int
	order         int
	periodic      bool
}

// index maps (x,y) to a row-major index: y*width + x.
// Complexity: O(1).
func (l lattice) index(x, y int) int {
	return y*l.width + x
}

// coordinate converts a row-major index back to (x,y).
// Complexity: O(1).
func (l lattice) coordinate(i int) (x, y int) {
	return i % l.width, i / l.width
}

// contains reports whether (x,y) lies on the grid.
func (l lattice) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.width && y < l.height
}

// onBoundary reports whether (x,y) cannot host a pattern anchor: outside the
// grid, or within order-1 of the right/bottom edge of a bounded output.
// Periodic outputs have no boundary.
func (l lattice) onBoundary(x, y int) bool {
	return !l.periodic && (x < 0 || y < 0 || x+l.order > l.width || y+l.order > l.height)
}

// neighbor returns the cell one step in direction d from (x,y), wrapping on
// a periodic output. ok is false when the step leaves a bounded output or
// lands in its boundary band.
func (l lattice) neighbor(x, y int, d Direction) (i int, ok bool) {
	nx, ny := x+dirDX[d], y+dirDY[d]
	if l.onBoundary(nx, ny) {
		return 0, false
	}
	if nx < 0 {
		nx += l.width
	} else if nx >= l.width {
		nx -= l.width
	}
	if ny < 0 {
		ny += l.height
	} else if ny >= l.height {
		ny -= l.height
	}
	return l.index(nx, ny), true
}

// anchor returns the cell whose pattern covers (x,y) together with the offset
// of (x,y) inside that pattern. In a bounded output cells past the last
// anchor column or row read from the nearest anchor, clamped to
// width-order and height-order.
func (l lattice) anchor(x, y int) (cell, dx, dy int) {
	ax, ay := x, y
	if !l.periodic {
		ax = min(x, l.width-l.order)
		ay = min(y, l.height-l.order)
	}
	return l.index(ax, ay), x - ax, y - ay
}
