package wfc

import (
	"io"
	"log/slog"
	"runtime"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures catalog extraction, model construction and generation.
//
// Shape options (order, symmetry, periodicity, ground) are validated when the
// Catalog or Model is built and surface as sentinel errors there. Options that
// cannot be meaningful (nil logger, attempts < 1) panic in the constructor,
// so that misuse is caught where it is written.
type Option func(*Options)

// Options holds the resolved configuration.
type Options struct {
	// Order is the side length N of a pattern window.
	Order int
	// Symmetry bounds how many of the 8 dihedral variants are registered (1, 2, 4 or 8).
	Symmetry int
	// PeriodicInput wraps sample windows around the sample edges.
	PeriodicInput bool
	// PeriodicOutput makes the output a torus.
	PeriodicOutput bool
	// Ground forces a pattern onto the bottom row; 0 disables it and
	// negative values count from the end of the catalog.
	Ground int

	// Attempts is how many seeds Generate tries before giving up.
	Attempts int
	// Workers bounds the goroutines GenerateBatch runs at once.
	Workers int

	// Logger receives debug records; the default discards them.
	Logger *slog.Logger
	// TracerProvider and MeterProvider override the global otel providers.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider

	// OnBan is called after pattern is removed from cell (cell = y*width + x).
	// GenerateBatch calls it from several goroutines.
	OnBan func(cell, pattern int)
	// OnObserve is called when cell is committed to pattern. Same
	// concurrency rule as OnBan.
	OnObserve func(cell, pattern int)
}

// DefaultOptions returns the defaults: order 2, full symmetry, periodic
// input, bounded output, no ground, 10 attempts, GOMAXPROCS workers,
// silent logger, global otel providers and no-op hooks.
func DefaultOptions() Options {
	return Options{
		Order:         2,
		Symmetry:      8,
		PeriodicInput: true,
		Attempts:      10,
		Workers:       runtime.GOMAXPROCS(0),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnBan:         func(int, int) {},
		OnObserve:     func(int, int) {},
	}
}

// resolveOptions applies opts over DefaultOptions.
func resolveOptions(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithOrder sets the pattern side length.
func WithOrder(n int) Option {
	return func(o *Options) { o.Order = n }
}

// WithSymmetry sets how many dihedral variants of each window are registered.
func WithSymmetry(s int) Option {
	return func(o *Options) { o.Symmetry = s }
}

// WithPeriodicInput toggles wrapping of sample windows.
func WithPeriodicInput(periodic bool) Option {
	return func(o *Options) { o.PeriodicInput = periodic }
}

// WithPeriodicOutput toggles toroidal output.
func WithPeriodicOutput(periodic bool) Option {
	return func(o *Options) { o.PeriodicOutput = periodic }
}

// WithGround forces pattern id t onto the bottom row (0 = off, negative
// values index from the end).
func WithGround(t int) Option {
	return func(o *Options) { o.Ground = t }
}

// WithAttempts sets how many seeds Generate tries. Panics if n < 1.
func WithAttempts(n int) Option {
	if n < 1 {
		panic("wfc: WithAttempts(n<1)")
	}
	return func(o *Options) { o.Attempts = n }
}

// WithWorkers bounds GenerateBatch concurrency. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("wfc: WithWorkers(n<1)")
	}
	return func(o *Options) { o.Workers = n }
}

// WithLogger routes debug records to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("wfc: WithLogger(nil)")
	}
	return func(o *Options) { o.Logger = l }
}

// WithTracerProvider overrides the global tracer provider. Panics on nil.
func WithTracerProvider(tp trace.TracerProvider) Option {
	if tp == nil {
		panic("wfc: WithTracerProvider(nil)")
	}
	return func(o *Options) { o.TracerProvider = tp }
}

// WithMeterProvider overrides the global meter provider. Panics on nil.
func WithMeterProvider(mp metric.MeterProvider) Option {
	if mp == nil {
		panic("wfc: WithMeterProvider(nil)")
	}
	return func(o *Options) { o.MeterProvider = mp }
}

// WithOnBan registers a callback run after every ban. nil is ignored.
// The callback must not call back into the Model.
func WithOnBan(fn func(cell, pattern int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnBan = fn
		}
	}
}

// WithOnObserve registers a callback run when a cell is committed. nil is ignored.
func WithOnObserve(fn func(cell, pattern int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnObserve = fn
		}
	}
}
