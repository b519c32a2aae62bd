package wfc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mimic/palette"
	"github.com/katalvlaran/mimic/wfc"
)

// Shared samples.
var (
	// checkerboard has exactly two order-2 patterns, each the other's only neighbor.
	checkerboard = [][]int{{0, 1}, {1, 0}}
	// uniform3 is a 3×3 field of one symbol.
	uniform3 = [][]int{{5, 5, 5}, {5, 5, 5}, {5, 5, 5}}
	// cycle3 read periodically with order 2 and symmetry 1 yields three
	// patterns that must repeat A→B→C along every row.
	cycle3 = [][]int{{0, 1, 2}}
	// coin read with order 1 yields two patterns compatible with everything.
	coin = [][]int{{0, 1}}
	// island is a small character map with a few local features.
	island = []string{
		"........",
		"..##....",
		".####...",
		"..##..~.",
		".....~~~",
		"......~.",
		"........",
		"........",
	}
)

// islandSample densifies island.
func islandSample(t testing.TB) [][]int {
	t.Helper()
	_, grid, err := palette.FromStrings(island)
	require.NoError(t, err)
	return grid
}

// cycleModel returns a periodic width×2 output over cycle3.
func cycleModel(t testing.TB, width int, opts ...wfc.Option) *wfc.Model {
	t.Helper()
	base := []wfc.Option{
		wfc.WithOrder(2),
		wfc.WithSymmetry(1),
		wfc.WithPeriodicInput(true),
		wfc.WithPeriodicOutput(true),
	}
	m, err := wfc.New(cycle3, width, 2, append(base, opts...)...)
	require.NoError(t, err)
	return m
}

// checkerModel returns a periodic width×height output over checkerboard.
func checkerModel(t testing.TB, width, height int, opts ...wfc.Option) *wfc.Model {
	t.Helper()
	base := []wfc.Option{
		wfc.WithOrder(2),
		wfc.WithPeriodicInput(true),
		wfc.WithPeriodicOutput(true),
	}
	m, err := wfc.New(checkerboard, width, height, append(base, opts...)...)
	require.NoError(t, err)
	return m
}

// scriptedSource always returns the same draws.
type scriptedSource struct {
	noise float64
	pick  int
}

func (s scriptedSource) Float64() float64 { return s.noise }
func (s scriptedSource) WeightedIndex(w []float64) int { return s.pick }

// requireAdjacent checks that every pair of neighbouring anchor cells holds
// compatible patterns.
func requireAdjacent(t *testing.T, m *wfc.Model, periodic bool) {
	t.Helper()
	obs, ok := m.Observed()
	require.True(t, ok)
	w, h, n := m.Width(), m.Height(), m.Catalog().Order()
	anchor := func(x, y int) bool {
		return periodic || (x >= 0 && y >= 0 && x+n <= w && y+n <= h)
	}
	p := m.Propagator()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !anchor(x, y) {
				continue
			}
			for _, d := range wfc.Directions {
				dx, dy := d.Offset()
				x2, y2 := x+dx, y+dy
				if !periodic && !anchor(x2, y2) {
					continue
				}
				x2, y2 = (x2+w)%w, (y2+h)%h
				t1, t2 := obs[y*w+x], obs[y2*w+x2]
				require.Truef(t, p.Allows(d, t1, t2),
					"(%d,%d)=%d and its %s neighbor %d disagree", x, y, t1, d, t2)
			}
		}
	}
}
