package wfc

import (
	"fmt"
	"sort"
)

// Propagator is the immutable compatibility relation of a Catalog:
// for each direction d and pattern t, the ascending list of patterns t2 that
// may sit one step in direction d from t.
//
// The relation is direction-symmetric by construction: t2 ∈ Compatible(d, t)
// exactly when t ∈ Compatible(d.Opposite(), t2), because both tests compare
// the same overlap cells.
type Propagator struct {
	catalog *Catalog
	lists   [4][][]int
}

// NewPropagator precomputes the compatibility lists of c.
//
// Complexity: O(4·T²·N²) time, O(4·T²) memory worst case.
func NewPropagator(c *Catalog, opts ...Option) (*Propagator, error) {
	if c == nil {
		return nil, ErrNilCatalog
	}
	cfg := resolveOptions(opts)
	t := c.Len()
	p := &Propagator{catalog: c}
	var pairs int
	buf := make([]int, 0, t)
	for _, d := range Directions {
		dx, dy := d.Offset()
		p.lists[d] = make([][]int, t)
		for t1 := 0; t1 < t; t1++ {
			buf = buf[:0]
			for t2 := 0; t2 < t; t2++ {
				if c.agrees(c.patterns[t1], c.patterns[t2], dx, dy) {
					buf = append(buf, t2)
				}
			}
			list := make([]int, len(buf))
			copy(list, buf)
			p.lists[d][t1] = list
			pairs += len(list)
		}
	}
	cfg.Logger.Debug("wfc propagator built", "patterns", t, "pairs", pairs)
	return p, nil
}

// Catalog returns the catalog the relation was built from.
func (p *Propagator) Catalog() *Catalog { return p.catalog }

// Compatible returns the patterns allowed one step in direction d from
// pattern t. The slice is shared; callers must not modify it.
func (p *Propagator) Compatible(d Direction, t int) []int {
	return p.lists[d][t]
}

// Allows reports whether t2 may sit one step in direction d from t1.
// Complexity: O(log |Compatible(d, t1)|).
func (p *Propagator) Allows(d Direction, t1, t2 int) bool {
	list := p.lists[d][t1]
	i := sort.SearchInts(list, t2)
	return i < len(list) && list[i] == t2
}

// String summarizes the relation for debugging.
func (p *Propagator) String() string {
	var n int
	for _, d := range Directions {
		for _, l := range p.lists[d] {
			n += len(l)
		}
	}
	return fmt.Sprintf("wfc.Propagator{patterns: %d, pairs: %d}", p.catalog.Len(), n)
}
