package wfc

import (
	"fmt"
	"log/slog"
	"math/bits"
)

// phase tracks the life cycle of a Model.
type phase int

const (
	phaseUninitialized phase = iota // no storage yet
	phaseInitialized                // storage allocated, wave not cleared
	phaseCollapsing                 // a run is in progress or was stopped by its limit
	phaseDone                       // the last run collapsed or contradicted
)

// banEntry is one pending propagation: pattern was removed from cell.
type banEntry struct {
	cell, pattern int
}

// Model is one output grid being synthesized from a Catalog.
//
// The Catalog and Propagator are shared read-only; everything else (wave
// domains, support counters, aggregates, work stack) belongs to this Model.
// A Model is NOT safe for concurrent use.
type Model struct {
	catalog *Catalog
	prop    *Propagator
	lat     lattice

	patterns int // T
	words    int // uint64 words per cell domain
	ground   int // resolved ground pattern, 0 = none

	wave       []uint64  // cell*words + t/64
	compatible []int32   // (cell*T + t)*4 + d
	possible   []int     // per cell
	weightSums []float64 // Σw per cell
	wlwSums    []float64 // Σw·log(w) per cell
	entropies  []float64 // per cell
	stack      []banEntry
	observed   []int
	dist       []float64 // scratch for weighted draws

	phase   phase
	outcome Outcome
	src     Source
	steps   int // observations since the last clear
	bans    int // bans since the last clear

	opts   Options
	logger *slog.Logger
	tel    *telemetry
}

// NewModel prepares a width×height output over catalog c and relation p.
// Storage is allocated lazily by the first Run.
//
// Errors: ErrNilCatalog, ErrBadTargetSize, ErrTargetTooSmall, ErrBadGround.
func NewModel(c *Catalog, p *Propagator, width, height int, opts ...Option) (*Model, error) {
	cfg := resolveOptions(opts)
	return newModel(c, p, width, height, cfg)
}

func newModel(c *Catalog, p *Propagator, width, height int, cfg Options) (*Model, error) {
	if c == nil || p == nil || p.catalog != c {
		return nil, ErrNilCatalog
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrBadTargetSize, width, height)
	}
	n := c.Order()
	if !cfg.PeriodicOutput && (width < n || height < n) {
		return nil, fmt.Errorf("%w: %dx%d output, order %d", ErrTargetTooSmall, width, height, n)
	}
	t := c.Len()
	ground := cfg.Ground
	if ground < -t || ground >= t {
		return nil, fmt.Errorf("%w: %d with %d patterns", ErrBadGround, ground, t)
	}
	if ground < 0 {
		ground += t
	}

	return &Model{
		catalog:  c,
		prop:     p,
		lat:      lattice{width: width, height: height, order: n, periodic: cfg.PeriodicOutput},
		patterns: t,
		words:    (t + 63) / 64,
		ground:   ground,
		opts:     cfg,
		logger:   cfg.Logger,
		tel:      newTelemetry(cfg.TracerProvider, cfg.MeterProvider),
	}, nil
}

// New extracts a catalog from sample, builds its relation and returns a
// width×height Model, all with the same options.
func New(sample [][]int, width, height int, opts ...Option) (*Model, error) {
	cfg := resolveOptions(opts)
	c, err := newCatalog(sample, cfg)
	if err != nil {
		return nil, err
	}
	p, err := NewPropagator(c, opts...)
	if err != nil {
		return nil, err
	}
	return newModel(c, p, width, height, cfg)
}

// init allocates the wave storage.
func (m *Model) init() {
	cells := m.lat.width * m.lat.height
	m.wave = make([]uint64, cells*m.words)
	m.compatible = make([]int32, cells*m.patterns*4)
	m.possible = make([]int, cells)
	m.weightSums = make([]float64, cells)
	m.wlwSums = make([]float64, cells)
	m.entropies = make([]float64, cells)
	m.observed = make([]int, cells)
	m.dist = make([]float64, m.patterns)
	m.stack = make([]banEntry, 0, cells)
	m.phase = phaseInitialized
}

// clear resets every cell to the full domain and applies the ground
// constraint, if any.
func (m *Model) clear() {
	t := m.patterns
	c := m.catalog

	var support [4][]int32
	for _, d := range Directions {
		support[d] = make([]int32, t)
		for p := 0; p < t; p++ {
			support[d][p] = int32(len(m.prop.lists[d.Opposite()][p]))
		}
	}

	full := make([]uint64, m.words)
	for w := range full {
		full[w] = ^uint64(0)
	}
	if r := t % 64; r != 0 {
		full[m.words-1] = 1<<r - 1
	}

	for i := range m.possible {
		copy(m.wave[i*m.words:(i+1)*m.words], full)
		base := i * t * 4
		for p := 0; p < t; p++ {
			for _, d := range Directions {
				m.compatible[base+p*4+int(d)] = support[d][p]
			}
		}
		m.possible[i] = t
		m.weightSums[i] = c.sumWeights
		m.wlwSums[i] = c.sumWeightLogs
		m.entropies[i] = c.startingEntropy
	}
	m.stack = m.stack[:0]
	m.steps, m.bans = 0, 0
	m.outcome = Incomplete
	m.phase = phaseCollapsing

	if m.ground != 0 {
		bottom := m.lat.height - 1
		for x := 0; x < m.lat.width; x++ {
			i := m.lat.index(x, bottom)
			for p := 0; p < t; p++ {
				if p != m.ground && m.possibleAt(i, p) {
					m.ban(i, p)
				}
			}
			for y := 0; y < bottom; y++ {
				if i := m.lat.index(x, y); m.possibleAt(i, m.ground) {
					m.ban(i, m.ground)
				}
			}
		}
		m.propagate()
	}
}

// possibleAt reports whether pattern t is still in the domain of cell i.
func (m *Model) possibleAt(i, t int) bool {
	return m.wave[i*m.words+t>>6]&(1<<(uint(t)&63)) != 0
}

// ban removes pattern t from cell i, queues the removal for propagation
// and updates the cell aggregates. t must still be possible in i.
func (m *Model) ban(i, t int) {
	m.wave[i*m.words+t>>6] &^= 1 << (uint(t) & 63)
	base := (i*m.patterns + t) * 4
	m.compatible[base] = 0
	m.compatible[base+1] = 0
	m.compatible[base+2] = 0
	m.compatible[base+3] = 0
	m.stack = append(m.stack, banEntry{cell: i, pattern: t})

	m.possible[i]--
	m.weightSums[i] -= m.catalog.weights[t]
	m.wlwSums[i] -= m.catalog.weightLogWeights[t]
	m.entropies[i] = entropyOf(m.possible[i], m.weightSums[i], m.wlwSums[i])
	m.bans++
	m.opts.OnBan(i, t)
}

// firstPossible returns the lowest pattern id left in cell i, or -1.
func (m *Model) firstPossible(i int) int {
	ws := m.wave[i*m.words : (i+1)*m.words]
	for w, word := range ws {
		if word != 0 {
			return w*64 + bits.TrailingZeros64(word)
		}
	}
	return -1
}

// Catalog returns the pattern catalog the model draws from.
func (m *Model) Catalog() *Catalog { return m.catalog }

// Propagator returns the compatibility relation the model propagates with.
func (m *Model) Propagator() *Propagator { return m.prop }

// Width returns the output width.
func (m *Model) Width() int { return m.lat.width }

// Height returns the output height.
func (m *Model) Height() int { return m.lat.height }

// Outcome returns the result of the last Run or Continue; Incomplete
// before the first run.
func (m *Model) Outcome() Outcome { return m.outcome }

// Steps returns how many cells observe committed since the last Run.
func (m *Model) Steps() int { return m.steps }

// Bans returns how many patterns were removed since the last Run.
func (m *Model) Bans() int { return m.bans }

// Cell returns the aggregates of cell (x,y). Before the first run every
// cell reports the full catalog. Coordinates off the grid report the zero
// CellState.
func (m *Model) Cell(x, y int) CellState {
	if !m.lat.contains(x, y) {
		return CellState{}
	}
	if m.phase == phaseUninitialized || m.phase == phaseInitialized {
		c := m.catalog
		return CellState{
			Possible:           m.patterns,
			WeightSum:          c.sumWeights,
			WeightLogWeightSum: c.sumWeightLogs,
			Entropy:            c.startingEntropy,
		}
	}
	i := m.lat.index(x, y)
	return CellState{
		Possible:           m.possible[i],
		WeightSum:          m.weightSums[i],
		WeightLogWeightSum: m.wlwSums[i],
		Entropy:            m.entropies[i],
	}
}

// IsPossible reports whether pattern t is still allowed at (x,y); false off
// the grid.
func (m *Model) IsPossible(x, y, t int) bool {
	if t < 0 || t >= m.patterns || !m.lat.contains(x, y) {
		return false
	}
	if m.phase == phaseUninitialized || m.phase == phaseInitialized {
		return true
	}
	return m.possibleAt(m.lat.index(x, y), t)
}
