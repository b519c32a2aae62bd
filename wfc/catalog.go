package wfc

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/katalvlaran/mimic/palette"
)

// Catalog is the immutable set of distinct N×N patterns found in a sample,
// with their occurrence weights. Pattern ids are dense in [0, Len()) and
// follow first-seen order.
type Catalog struct {
	order         int
	symmetry      int
	periodicInput bool

	colors   *palette.Palette[int] // sample symbol ⇄ dense index
	patterns [][]int               // id → N·N dense indices, row-major
	ids      map[string]int        // content key → id

	weights          []float64
	weightLogWeights []float64
	sumWeights       float64
	sumWeightLogs    float64
	startingEntropy  float64
}

// NewCatalog extracts the pattern catalog of sample using the Order,
// Symmetry and PeriodicInput options.
//
// Steps:
//  1. Validate shape, order and symmetry.
//  2. Densify sample symbols through a palette (first-seen order).
//  3. For every window offset (all offsets when periodic, in-bounds ones
//     otherwise; y outer, x inner) build the 8 dihedral variants and
//     register the first Symmetry of them, counting repeats as weight.
//
// Errors: ErrEmptyGrid, ErrNonRectangular, ErrBadOrder, ErrBadSymmetry,
// ErrSampleTooSmall.
//
// Complexity: O(S·sym·N²) time, O(T·N²) memory.
func NewCatalog(sample [][]int, opts ...Option) (*Catalog, error) {
	cfg := resolveOptions(opts)
	return newCatalog(sample, cfg)
}

func newCatalog(sample [][]int, cfg Options) (*Catalog, error) {
	if len(sample) == 0 || len(sample[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	sh, sw := len(sample), len(sample[0])
	for _, row := range sample {
		if len(row) != sw {
			return nil, ErrNonRectangular
		}
	}
	n := cfg.Order
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadOrder, n)
	}
	switch cfg.Symmetry {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrBadSymmetry, cfg.Symmetry)
	}
	if !cfg.PeriodicInput && (sw < n || sh < n) {
		return nil, fmt.Errorf("%w: %dx%d sample, order %d", ErrSampleTooSmall, sw, sh, n)
	}

	colors := palette.New[int](8)
	dense, err := palette.Encode(colors, sample)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		order:         n,
		symmetry:      cfg.Symmetry,
		periodicInput: cfg.PeriodicInput,
		colors:        colors,
		ids:           make(map[string]int),
	}

	ymax, xmax := sh, sw
	if !cfg.PeriodicInput {
		ymax, xmax = sh-n+1, sw-n+1
	}
	var counts []int
	var variants [8][]int
	key := make([]byte, 0, 4*n*n)
	for y := 0; y < ymax; y++ {
		for x := 0; x < xmax; x++ {
			variants[0] = c.window(dense, x, y)
			variants[1] = c.reflect(variants[0])
			variants[2] = c.rotate(variants[0])
			variants[3] = c.reflect(variants[2])
			variants[4] = c.rotate(variants[2])
			variants[5] = c.reflect(variants[4])
			variants[6] = c.rotate(variants[4])
			variants[7] = c.reflect(variants[6])

			for k := 0; k < cfg.Symmetry; k++ {
				key = patternKey(key[:0], variants[k])
				if id, ok := c.ids[string(key)]; ok {
					counts[id]++
					continue
				}
				c.ids[string(key)] = len(c.patterns)
				c.patterns = append(c.patterns, variants[k])
				counts = append(counts, 1)
			}
		}
	}

	t := len(c.patterns)
	c.weights = make([]float64, t)
	c.weightLogWeights = make([]float64, t)
	for id, cnt := range counts {
		w := float64(cnt)
		c.weights[id] = w
		c.weightLogWeights[id] = w * math.Log(w)
		c.sumWeights += w
		c.sumWeightLogs += c.weightLogWeights[id]
	}
	c.startingEntropy = entropyOf(t, c.sumWeights, c.sumWeightLogs)

	cfg.Logger.Debug("wfc catalog built",
		"patterns", t,
		"order", n,
		"symmetry", cfg.Symmetry,
		"periodic_input", cfg.PeriodicInput,
		"colors", colors.Len(),
	)
	return c, nil
}

// window copies the N×N block at (x,y), wrapping around the sample.
func (c *Catalog) window(sample [][]int, x, y int) []int {
	n := c.order
	sh, sw := len(sample), len(sample[0])
	p := make([]int, n*n)
	for dy := 0; dy < n; dy++ {
		row := sample[(y+dy)%sh]
		for dx := 0; dx < n; dx++ {
			p[dx+dy*n] = row[(x+dx)%sw]
		}
	}
	return p
}

// rotate turns p by 90°.
func (c *Catalog) rotate(p []int) []int {
	n := c.order
	out := make([]int, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out[x+y*n] = p[n-1-y+x*n]
		}
	}
	return out
}

// reflect mirrors p horizontally.
func (c *Catalog) reflect(p []int) []int {
	n := c.order
	out := make([]int, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out[x+y*n] = p[n-1-x+y*n]
		}
	}
	return out
}

// patternKey appends the fixed-width encoding of p to dst.
func patternKey(dst []byte, p []int) []byte {
	for _, v := range p {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(v))
	}
	return dst
}

// entropyOf evaluates log(Σw) - Σw·log(w)/Σw for a domain of count
// patterns. Domains with at most one pattern have zero entropy; tiny negative
// rounding is clamped to zero.
func entropyOf(count int, sumW, sumWLogW float64) float64 {
	if count <= 1 || sumW <= 0 {
		return 0
	}
	e := math.Log(sumW) - sumWLogW/sumW
	if e < 0 {
		return 0
	}
	return e
}

// Len returns the number of distinct patterns T.
func (c *Catalog) Len() int { return len(c.patterns) }

// Order returns the pattern side length N.
func (c *Catalog) Order() int { return c.order }

// Symmetry returns the number of dihedral variants registered per window.
func (c *Catalog) Symmetry() int { return c.symmetry }

// PeriodicInput reports whether windows wrapped around the sample.
func (c *Catalog) PeriodicInput() bool { return c.periodicInput }

// Colors returns the number of distinct sample symbols.
func (c *Catalog) Colors() int { return c.colors.Len() }

// Palette returns the mapping between sample symbols and the dense indices
// patterns are stored in. It is shared; callers must not Add to it.
func (c *Catalog) Palette() *palette.Palette[int] { return c.colors }

// Weight returns the occurrence count of pattern id.
func (c *Catalog) Weight(id int) float64 { return c.weights[id] }

// Weights returns a copy of all weights indexed by id.
func (c *Catalog) Weights() []float64 {
	out := make([]float64, len(c.weights))
	copy(out, c.weights)
	return out
}

// Pattern returns pattern id in sample symbols, row-major N·N.
func (c *Catalog) Pattern(id int) []int {
	p := c.patterns[id]
	out := make([]int, len(p))
	for i, v := range p {
		out[i] = c.symbol(v)
	}
	return out
}

// Lookup returns the id of the pattern whose content (in sample symbols,
// row-major N·N) equals symbols.
func (c *Catalog) Lookup(symbols []int) (int, bool) {
	if len(symbols) != c.order*c.order {
		return 0, false
	}
	dense := make([]int, len(symbols))
	for i, s := range symbols {
		v, ok := c.colors.IndexOf(s)
		if !ok {
			return 0, false
		}
		dense[i] = v
	}
	id, ok := c.ids[string(patternKey(nil, dense))]
	return id, ok
}

// symbol maps a dense color index back to the sample's symbol.
func (c *Catalog) symbol(v int) int {
	s, err := c.colors.Value(v)
	if err != nil {
		// dense values come from the same palette; unreachable.
		return v
	}
	return s
}

// agrees reports whether p2, shifted by (dx,dy) relative to p1, matches p1
// on every overlapping cell.
func (c *Catalog) agrees(p1, p2 []int, dx, dy int) bool {
	n := c.order
	xmin, xmax := dx, n
	if dx < 0 {
		xmin, xmax = 0, dx+n
	}
	ymin, ymax := dy, n
	if dy < 0 {
		ymin, ymax = 0, dy+n
	}
	for y := ymin; y < ymax; y++ {
		for x := xmin; x < xmax; x++ {
			if p1[x+n*y] != p2[x-dx+n*(y-dy)] {
				return false
			}
		}
	}
	return true
}
