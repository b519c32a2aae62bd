package wfc

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Generate runs the model until it collapses, trying up to Attempts seeds:
// seed itself first, then seeds derived from it. It returns the output grid
// and the seed that produced it.
//
// Errors: ErrBadLimit, ErrNoSolution.
func (m *Model) Generate(seed int64, limit int) ([][]int, int64, error) {
	s := seed
	var last Outcome
	for a := 0; a < m.opts.Attempts; a++ {
		if a > 0 {
			s = deriveSeed(seed, uint64(a))
		}
		out, err := m.Run(s, limit)
		if err != nil {
			return nil, 0, err
		}
		if out == Collapsed {
			grid, _ := m.Result()
			return grid, s, nil
		}
		last = out
		m.logger.Debug("wfc attempt failed", "attempt", a+1, "seed", s, "outcome", out.String())
	}
	return nil, 0, fmt.Errorf("%w: %d attempts, last %s", ErrNoSolution, m.opts.Attempts, last)
}

// GenerateBatch produces count independent outputs of width×height over the
// shared catalog c and relation p. Output k is Generate(deriveSeed(seed, k), 0)
// on a fresh Model, so results do not depend on scheduling. At most Workers
// models run at once, each on its own goroutine.
//
// The first failing output cancels the rest. Every worker shares the OnBan
// and OnObserve hooks from opts, so they must be safe for concurrent use.
//
// Errors: ErrBadCount, the NewModel errors, ErrNoSolution (wrapped with
// the failing index), ctx.Err().
func GenerateBatch(ctx context.Context, c *Catalog, p *Propagator, width, height, count int, seed int64, opts ...Option) ([][][]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadCount, count)
	}
	cfg := resolveOptions(opts)
	if _, err := newModel(c, p, width, height, cfg); err != nil {
		return nil, err
	}
	results := make([][][]int, count)
	if count == 0 {
		return results, nil
	}

	workers := min(max(cfg.Workers, 1), count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var next atomic.Int64
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			m, err := newModel(c, p, width, height, cfg)
			if err != nil {
				return err
			}
			for {
				k := int(next.Add(1) - 1)
				if k >= count {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				grid, _, err := m.Generate(deriveSeed(seed, uint64(k)), 0)
				if err != nil {
					return fmt.Errorf("output %d: %w", k, err)
				}
				results[k] = grid
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	cfg.Logger.Debug("wfc batch generated", "count", count, "workers", workers)
	return results, nil
}
