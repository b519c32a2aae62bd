package wfc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/mimic/wfc"
)

// SolverSuite exercises Run/Continue on samples with known outcomes.
type SolverSuite struct {
	suite.Suite
}

// TestCheckerboard: a 4×4 torus over the checkerboard always collapses into
// a checkerboard after a single observation.
func (s *SolverSuite) TestCheckerboard() {
	m := checkerModel(s.T(), 4, 4)
	for seed := int64(1); seed <= 10; seed++ {
		out, err := m.Run(seed, 0)
		s.Require().NoError(err)
		s.Require().Equal(wfc.Collapsed, out, "seed %d", seed)
		s.Equal(1, m.Steps())

		grid, ok := m.Result()
		s.Require().True(ok)
		s.Require().Len(grid, 4)
		for y, row := range grid {
			s.Require().Len(row, 4)
			for x, v := range row {
				s.Equal((grid[0][0]+x+y)%2, v, "seed %d at (%d,%d)", seed, x, y)
			}
		}
	}
}

// TestUniform: a single pattern leaves nothing to decide.
func (s *SolverSuite) TestUniform() {
	m, err := wfc.New(uniform3, 4, 3,
		wfc.WithOrder(2), wfc.WithSymmetry(1), wfc.WithPeriodicInput(false))
	s.Require().NoError(err)
	s.Require().Equal(1, m.Catalog().Len())
	s.Equal(4.0, m.Catalog().Weight(0))

	out, err := m.Run(3, 0)
	s.Require().NoError(err)
	s.Require().Equal(wfc.Collapsed, out)
	s.Zero(m.Steps())
	grid, ok := m.Result()
	s.Require().True(ok)
	s.Equal([][]int{{5, 5, 5, 5}, {5, 5, 5, 5}, {5, 5, 5, 5}}, grid)

	tiny, err := wfc.New(uniform3, 1, 1, wfc.WithOrder(2), wfc.WithPeriodicOutput(true))
	s.Require().NoError(err)
	out, err = tiny.Run(0, 0)
	s.Require().NoError(err)
	s.Require().Equal(wfc.Collapsed, out)
	grid, _ = tiny.Result()
	s.Equal([][]int{{5}}, grid)
}

// TestContradiction: rows of period 3 cannot close a torus of width 4,
// while width 6 always works.
func (s *SolverSuite) TestContradiction() {
	bad := cycleModel(s.T(), 4)
	for seed := int64(1); seed <= 10; seed++ {
		out, err := bad.Run(seed, 0)
		s.Require().NoError(err)
		s.Require().Equal(wfc.Contradiction, out, "seed %d", seed)
		s.Equal(wfc.Contradiction, bad.Outcome())
		grid, ok := bad.Result()
		s.False(ok)
		s.Nil(grid)
		_, ok = bad.Observed()
		s.False(ok)

		again, err := bad.Continue(0)
		s.Require().NoError(err)
		s.Equal(wfc.Contradiction, again, "finished runs stay finished")
	}

	steps, bans := bad.Steps(), bad.Bans()
	out, err := bad.Run(10, 0)
	s.Require().NoError(err)
	s.Equal(wfc.Contradiction, out)
	s.Equal(steps, bad.Steps(), "a fresh run repeats exactly")
	s.Equal(bans, bad.Bans())

	good := cycleModel(s.T(), 6)
	for seed := int64(1); seed <= 10; seed++ {
		out, err := good.Run(seed, 0)
		s.Require().NoError(err)
		s.Require().Equal(wfc.Collapsed, out, "seed %d", seed)
		grid, ok := good.Result()
		s.Require().True(ok)
		for y := range grid {
			for x := range grid[y] {
				s.Equal((grid[0][0]+x)%3, grid[y][x], "seed %d at (%d,%d)", seed, x, y)
			}
		}
	}
}

// TestIncompleteThenContinue: 16 independent cells need 16 observations.
func (s *SolverSuite) TestIncompleteThenContinue() {
	m, err := wfc.New(coin, 4, 4, wfc.WithOrder(1))
	s.Require().NoError(err)

	out, err := m.Run(7, 3)
	s.Require().NoError(err)
	s.Equal(wfc.Incomplete, out)
	s.Equal(3, m.Steps())
	_, ok := m.Result()
	s.False(ok, "no result before collapse")

	out, err = m.Continue(5)
	s.Require().NoError(err)
	s.Equal(wfc.Incomplete, out)
	s.Equal(8, m.Steps())

	out, err = m.Continue(0)
	s.Require().NoError(err)
	s.Equal(wfc.Collapsed, out)
	s.Equal(16, m.Steps())
	grid, ok := m.Result()
	s.Require().True(ok)
	for _, row := range grid {
		for _, v := range row {
			s.Contains([]int{0, 1}, v)
		}
	}

	// A limit that is used up exactly by the last observation still collapses.
	out, err = m.Run(7, 16)
	s.Require().NoError(err)
	s.Equal(wfc.Collapsed, out)
	out, err = m.Run(7, 15)
	s.Require().NoError(err)
	s.Equal(wfc.Incomplete, out)
}

// TestMisuse covers the error returns of Run, RunWith and Continue.
func (s *SolverSuite) TestMisuse() {
	m := checkerModel(s.T(), 4, 4)
	_, err := m.Continue(0)
	s.ErrorIs(err, wfc.ErrNotStarted)
	_, err = m.Run(1, -1)
	s.ErrorIs(err, wfc.ErrBadLimit)
	_, err = m.RunWith(nil, 0)
	s.ErrorIs(err, wfc.ErrNilSource)
	_, err = m.RunWith(wfc.NewSource(1), -2)
	s.ErrorIs(err, wfc.ErrBadLimit)

	_, err = m.Run(1, 0)
	s.Require().NoError(err)
	_, err = m.Continue(-1)
	s.ErrorIs(err, wfc.ErrBadLimit)
}

// TestScriptedSource: with zero noise the first cell is observed, and an
// out-of-range pick falls back to its first possible pattern.
func (s *SolverSuite) TestScriptedSource() {
	m := checkerModel(s.T(), 4, 4)
	for _, tc := range []struct {
		pick, phase int
	}{{-5, 0}, {99, 0}, {0, 0}, {1, 1}} {
		out, err := m.RunWith(scriptedSource{pick: tc.pick}, 0)
		s.Require().NoError(err)
		s.Require().Equal(wfc.Collapsed, out)
		grid, _ := m.Result()
		for y, row := range grid {
			for x, v := range row {
				s.Equal((x+y+tc.phase)%2, v, "pick %d at (%d,%d)", tc.pick, x, y)
			}
		}
		obs, ok := m.Observed()
		s.Require().True(ok)
		s.Equal(tc.phase, obs[0])
	}
}

// TestGround forces the bottom row without any observation.
func (s *SolverSuite) TestGround() {
	for _, g := range []int{1, -1} {
		m, err := wfc.New(coin, 3, 3, wfc.WithOrder(1), wfc.WithGround(g))
		s.Require().NoError(err)
		out, err := m.Run(1, 0)
		s.Require().NoError(err)
		s.Require().Equal(wfc.Collapsed, out)
		s.Zero(m.Steps())
		grid, _ := m.Result()
		s.Equal([][]int{{0, 0, 0}, {0, 0, 0}, {1, 1, 1}}, grid, "ground %d", g)
	}
}

// TestHooks counts callbacks against the model counters.
func (s *SolverSuite) TestHooks() {
	var observed, banned int
	m, err := wfc.New(coin, 5, 5, wfc.WithOrder(1),
		wfc.WithOnObserve(func(cell, pattern int) {
			observed++
			s.Less(cell, 25)
		}),
		wfc.WithOnBan(func(cell, pattern int) {
			banned++
			s.Less(pattern, 2)
		}),
	)
	s.Require().NoError(err)
	out, err := m.Run(11, 0)
	s.Require().NoError(err)
	s.Require().Equal(wfc.Collapsed, out)
	s.Equal(m.Steps(), observed)
	s.Equal(m.Bans(), banned)
	s.Equal(25, banned, "one ban per observed cell")
}

// TestCellState reads aggregates before and after a run.
func (s *SolverSuite) TestCellState() {
	m := checkerModel(s.T(), 4, 4)
	before := m.Cell(0, 0)
	s.Equal(2, before.Possible)
	s.Equal(32.0, before.WeightSum)
	s.InDelta(0.6931471805599453, before.Entropy, 1e-12)
	s.True(m.IsPossible(1, 1, 0))
	s.False(m.IsPossible(1, 1, 2))

	_, err := m.RunWith(scriptedSource{}, 0)
	s.Require().NoError(err)
	after := m.Cell(0, 0)
	s.Equal(1, after.Possible)
	s.Equal(16.0, after.WeightSum)
	s.Zero(after.Entropy)
	s.True(m.IsPossible(0, 0, 0))
	s.False(m.IsPossible(0, 0, 1))
	s.True(m.IsPossible(1, 0, 1))
}

// TestCellState_OffGrid: coordinates outside the output read as empty.
func (s *SolverSuite) TestCellState_OffGrid() {
	m := checkerModel(s.T(), 4, 4)
	off := [][2]int{{4, 0}, {0, 4}, {-1, 0}, {0, -1}, {7, 9}}
	for _, p := range off {
		s.Equal(wfc.CellState{}, m.Cell(p[0], p[1]), "before run %v", p)
		s.False(m.IsPossible(p[0], p[1], 0), "before run %v", p)
	}

	_, err := m.RunWith(scriptedSource{}, 0)
	s.Require().NoError(err)
	for _, p := range off {
		s.Equal(wfc.CellState{}, m.Cell(p[0], p[1]), "after run %v", p)
		s.False(m.IsPossible(p[0], p[1], 0), "after run %v", p)
		s.False(m.IsPossible(p[0], p[1], 1), "after run %v", p)
	}
	s.Equal(1, m.Cell(3, 3).Possible)
}

func TestSolverSuite(t *testing.T) {
	suite.Run(t, new(SolverSuite))
}

// TestNewModel_Errors verifies construction-time validation.
func TestNewModel_Errors(t *testing.T) {
	c, err := wfc.NewCatalog(checkerboard, wfc.WithOrder(2))
	require.NoError(t, err)
	p, err := wfc.NewPropagator(c)
	require.NoError(t, err)
	other, err := wfc.NewCatalog(uniform3)
	require.NoError(t, err)

	cases := []struct {
		name string
		c    *wfc.Catalog
		p    *wfc.Propagator
		w, h int
		opts []wfc.Option
		err  error
	}{
		{"NilCatalog", nil, p, 4, 4, nil, wfc.ErrNilCatalog},
		{"NilPropagator", c, nil, 4, 4, nil, wfc.ErrNilCatalog},
		{"MismatchedPropagator", other, p, 4, 4, nil, wfc.ErrNilCatalog},
		{"ZeroWidth", c, p, 0, 4, nil, wfc.ErrBadTargetSize},
		{"NegativeHeight", c, p, 4, -1, nil, wfc.ErrBadTargetSize},
		{"BoundedTooSmall", c, p, 1, 4, nil, wfc.ErrTargetTooSmall},
		{"GroundTooLarge", c, p, 4, 4, []wfc.Option{wfc.WithGround(2)}, wfc.ErrBadGround},
		{"GroundTooNegative", c, p, 4, 4, []wfc.Option{wfc.WithGround(-3)}, wfc.ErrBadGround},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := wfc.NewModel(tc.c, tc.p, tc.w, tc.h, tc.opts...)
			assert.ErrorIs(t, err, tc.err)
			assert.Nil(t, m)
		})
	}

	m, err := wfc.NewModel(c, p, 1, 1, wfc.WithPeriodicOutput(true))
	require.NoError(t, err, "a torus may be smaller than the order")
	assert.Equal(t, 1, m.Width())
	assert.Equal(t, 1, m.Height())
	assert.Same(t, c, m.Catalog())
	assert.Same(t, p, m.Propagator())

	_, err = wfc.New(uniform3, 4, 4, wfc.WithOrder(4), wfc.WithPeriodicInput(false))
	assert.ErrorIs(t, err, wfc.ErrSampleTooSmall)
}

// TestDeterminism: equal seeds give equal assignments, whether the wave is
// reused or freshly built.
func TestDeterminism(t *testing.T) {
	sample := islandSample(t)
	build := func() *wfc.Model {
		m, err := wfc.New(sample, 16, 16, wfc.WithOrder(2), wfc.WithPeriodicOutput(true))
		require.NoError(t, err)
		return m
	}
	a, b := build(), build()
	for _, seed := range []int64{1, 2, 42, -9} {
		outA, err := a.Run(seed, 0)
		require.NoError(t, err)
		obsA, okA := a.Observed()
		stepsA := a.Steps()

		outB, err := b.Run(seed, 0)
		require.NoError(t, err)
		obsB, okB := b.Observed()
		assert.Equal(t, outA, outB, "seed %d", seed)
		assert.Equal(t, okA, okB)
		assert.Equal(t, obsA, obsB)
		assert.Equal(t, stepsA, b.Steps())

		outA2, err := a.Run(seed, 0)
		require.NoError(t, err)
		obsA2, _ := a.Observed()
		assert.Equal(t, outA, outA2)
		assert.Equal(t, obsA, obsA2)
	}
}

// TestSeedZero is the same stream as the default seed.
func TestSeedZero(t *testing.T) {
	m := cycleModel(t, 6)
	_, err := m.Run(0, 0)
	require.NoError(t, err)
	zero, _ := m.Observed()
	_, err = m.Run(1, 0)
	require.NoError(t, err)
	one, _ := m.Observed()
	assert.Equal(t, zero, one)
}

// TestAdjacency: every pair of neighbouring anchors in a collapsed output is
// allowed by the compatibility relation.
func TestAdjacency(t *testing.T) {
	sample := islandSample(t)

	torus, err := wfc.New(sample, 12, 12, wfc.WithOrder(2), wfc.WithPeriodicOutput(true), wfc.WithAttempts(20))
	require.NoError(t, err)
	_, _, err = torus.Generate(5, 0)
	require.NoError(t, err)
	requireAdjacent(t, torus, true)

	bounded, err := wfc.New(sample, 12, 10, wfc.WithOrder(3), wfc.WithAttempts(20))
	require.NoError(t, err)
	_, _, err = bounded.Generate(5, 0)
	require.NoError(t, err)
	requireAdjacent(t, bounded, false)
}

// TestRoundTrip: re-extracting a collapsed torus finds no pattern the
// source catalog lacks.
func TestRoundTrip(t *testing.T) {
	sample := islandSample(t)
	m, err := wfc.New(sample, 10, 10, wfc.WithOrder(2), wfc.WithPeriodicOutput(true), wfc.WithAttempts(20))
	require.NoError(t, err)
	grid, _, err := m.Generate(17, 0)
	require.NoError(t, err)

	again, err := wfc.NewCatalog(grid, wfc.WithOrder(2), wfc.WithSymmetry(1), wfc.WithPeriodicInput(true))
	require.NoError(t, err)
	for id := 0; id < again.Len(); id++ {
		_, ok := m.Catalog().Lookup(again.Pattern(id))
		assert.True(t, ok, "pattern %v not in the source catalog", again.Pattern(id))
	}
}
