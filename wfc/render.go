package wfc

// Result returns the collapsed output as rows of sample symbols, or
// (nil, false) unless the last run collapsed.
//
// Each cell takes the symbol at its offset inside the pattern of its anchor
// cell; in a bounded output the rows and columns past the last anchor read
// from the nearest one.
//
// Complexity: O(W·H).
func (m *Model) Result() ([][]int, bool) {
	if m.phase != phaseDone || m.outcome != Collapsed {
		return nil, false
	}
	n := m.catalog.order
	out := make([][]int, m.lat.height)
	for y := range out {
		row := make([]int, m.lat.width)
		for x := range row {
			cell, dx, dy := m.lat.anchor(x, y)
			row[x] = m.catalog.symbol(m.catalog.patterns[m.observed[cell]][dx+dy*n])
		}
		out[y] = row
	}
	return out, true
}

// Observed returns a copy of the committed pattern id of every cell
// (index y*width + x), or (nil, false) unless the last run collapsed.
func (m *Model) Observed() ([]int, bool) {
	if m.phase != phaseDone || m.outcome != Collapsed {
		return nil, false
	}
	out := make([]int, len(m.observed))
	copy(out, m.observed)
	return out, true
}

// Preview renders a best guess of the current wave. A collapsed wave renders
// as Result. Otherwise every cell draws one symbol from src, weighted by the
// catalog weights of the patterns its anchor still allows; cells whose anchor
// has an empty domain get fill. Before the first run it returns nil.
//
// Preview is for inspection only: it never changes the wave. A nil src
// draws from NewSource(0).
//
// Complexity: O(W·H·T).
func (m *Model) Preview(src Source, fill int) [][]int {
	switch m.phase {
	case phaseUninitialized, phaseInitialized:
		return nil
	}
	if grid, ok := m.Result(); ok {
		return grid
	}
	if src == nil {
		src = NewSource(0)
	}

	c := m.catalog
	n := c.order
	colorWeights := make([]float64, c.colors.Len())
	out := make([][]int, m.lat.height)
	for y := range out {
		row := make([]int, m.lat.width)
		for x := range row {
			cell, dx, dy := m.lat.anchor(x, y)
			for k := range colorWeights {
				colorWeights[k] = 0
			}
			for t := 0; t < m.patterns; t++ {
				if m.possibleAt(cell, t) {
					colorWeights[c.patterns[t][dx+dy*n]] += c.weights[t]
				}
			}
			if k := src.WeightedIndex(colorWeights); k >= 0 && k < len(colorWeights) {
				row[x] = c.symbol(k)
			} else {
				row[x] = fill
			}
		}
		out[y] = row
	}
	return out
}
