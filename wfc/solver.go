package wfc

import (
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Run clears the wave and runs the observe/propagate loop with a Source
// seeded from seed, for at most limit observations (0 = until done).
//
// Collapsed and Contradiction are final; Incomplete means the limit was
// reached and Continue may resume. Errors are reserved for misuse.
//
// Errors: ErrBadLimit.
func (m *Model) Run(seed int64, limit int) (Outcome, error) {
	if limit < 0 {
		return Incomplete, fmt.Errorf("%w: got %d", ErrBadLimit, limit)
	}
	return m.run("Run", NewSource(seed), limit, true, attribute.Int64("wfc.seed", seed))
}

// RunWith is Run with a caller-supplied Source.
//
// Errors: ErrNilSource, ErrBadLimit.
func (m *Model) RunWith(src Source, limit int) (Outcome, error) {
	if src == nil {
		return Incomplete, ErrNilSource
	}
	if limit < 0 {
		return Incomplete, fmt.Errorf("%w: got %d", ErrBadLimit, limit)
	}
	return m.run("Run", src, limit, true)
}

// Continue resumes an Incomplete run for at most limit more observations,
// without clearing. On a finished run it returns the final outcome again.
//
// Errors: ErrNotStarted, ErrBadLimit.
func (m *Model) Continue(limit int) (Outcome, error) {
	if limit < 0 {
		return Incomplete, fmt.Errorf("%w: got %d", ErrBadLimit, limit)
	}
	switch m.phase {
	case phaseUninitialized, phaseInitialized:
		return Incomplete, ErrNotStarted
	case phaseDone:
		return m.outcome, nil
	}
	return m.run("Continue", m.src, limit, false)
}

// run wraps loop with telemetry and logging.
func (m *Model) run(op string, src Source, limit int, reset bool, attrs ...attribute.KeyValue) (Outcome, error) {
	ctx, span := m.tel.startRun(op, m, append(attrs, attribute.Int("wfc.limit", limit))...)
	start := time.Now()

	if m.phase == phaseUninitialized {
		m.init()
	}
	m.src = src
	steps0, bans0 := 0, 0
	if reset {
		m.clear()
	} else {
		steps0, bans0 = m.steps, m.bans
	}

	out := m.loop(limit)
	m.outcome = out
	if out != Incomplete {
		m.phase = phaseDone
	}

	elapsed := time.Since(start)
	m.tel.endRun(ctx, span, out, m.steps-steps0, m.bans-bans0, elapsed)
	m.logger.Debug("wfc run finished",
		"op", op,
		"outcome", out.String(),
		"steps", m.steps,
		"bans", m.bans,
		"duration", elapsed,
	)
	return out, nil
}

// loop alternates observe and propagate until the wave settles or limit
// observations have been made.
func (m *Model) loop(limit int) Outcome {
	for l := 0; limit == 0 || l < limit; l++ {
		if out, done := m.observe(); done {
			return out
		}
		m.propagate()
	}
	return m.settle()
}

// observe picks the undetermined cell of least noisy entropy and commits
// it to a weighted random pattern. done is true when the wave contradicted
// or has no undetermined cell left.
func (m *Model) observe() (out Outcome, done bool) {
	best := math.MaxFloat64
	argmin := -1
	for i, n := range m.possible {
		if m.lat.onBoundary(m.lat.coordinate(i)) {
			continue
		}
		if n == 0 {
			return Contradiction, true
		}
		e := m.entropies[i]
		if n > 1 && e <= best {
			if noisy := e + 1e-6*m.src.Float64(); noisy < best {
				best, argmin = noisy, i
			}
		}
	}
	if argmin == -1 {
		m.commit()
		return Collapsed, true
	}

	for t := range m.dist {
		if m.possibleAt(argmin, t) {
			m.dist[t] = m.catalog.weights[t]
		} else {
			m.dist[t] = 0
		}
	}
	r := m.src.WeightedIndex(m.dist)
	if r < 0 || r >= m.patterns || m.dist[r] == 0 {
		r = m.firstPossible(argmin)
	}
	for t := 0; t < m.patterns; t++ {
		if t != r && m.possibleAt(argmin, t) {
			m.ban(argmin, t)
		}
	}
	m.steps++
	m.opts.OnObserve(argmin, r)
	return Incomplete, false
}

// propagate drains the work stack, removing patterns that lost all support
// from some direction.
func (m *Model) propagate() {
	t := m.patterns
	for len(m.stack) > 0 {
		e := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]

		x, y := m.lat.coordinate(e.cell)
		for _, d := range Directions {
			i2, ok := m.lat.neighbor(x, y, d)
			if !ok {
				continue
			}
			base := i2 * t * 4
			for _, t2 := range m.prop.lists[d][e.pattern] {
				k := base + t2*4 + int(d)
				m.compatible[k]--
				if m.compatible[k] == 0 && m.possibleAt(i2, t2) {
					m.ban(i2, t2)
				}
			}
		}
	}
}

// settle classifies the wave after the limit ran out: an emptied cell is a
// contradiction, a fully determined wave is collapsed, anything else is
// incomplete.
func (m *Model) settle() Outcome {
	undecided := false
	for i, n := range m.possible {
		if m.lat.onBoundary(m.lat.coordinate(i)) {
			continue
		}
		switch {
		case n == 0:
			return Contradiction
		case n > 1:
			undecided = true
		}
	}
	if undecided {
		return Incomplete
	}
	m.commit()
	return Collapsed
}

// commit records the first possible pattern of every cell as observed.
// Boundary cells of a bounded output keep their full domain and take its
// first pattern.
func (m *Model) commit() {
	for i := range m.observed {
		if t := m.firstPossible(i); t >= 0 {
			m.observed[i] = t
		} else {
			m.observed[i] = 0
		}
	}
}
