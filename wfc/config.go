package wfc

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mimic/palette"
)

var validate = validator.New()

// Config is the file form of a generation job.
//
// Precedence when loading: environment > file > DefaultConfig.
type Config struct {
	// Order is the pattern side length N.
	Order int `yaml:"order" validate:"min=1"`
	// Symmetry is how many dihedral variants are registered per window.
	Symmetry int `yaml:"symmetry" validate:"oneof=1 2 4 8"`
	// PeriodicInput wraps sample windows.
	PeriodicInput bool `yaml:"periodic_input"`
	// PeriodicOutput makes the output a torus.
	PeriodicOutput bool `yaml:"periodic_output"`
	// Ground forces a pattern onto the bottom row (0 = off).
	Ground int `yaml:"ground"`

	Width  int `yaml:"width" validate:"min=1"`
	Height int `yaml:"height" validate:"min=1"`

	// Seed and Limit are passed to Generate.
	Seed  int64 `yaml:"seed"`
	Limit int   `yaml:"limit" validate:"min=0"`

	Attempts int `yaml:"attempts" validate:"min=1"`
	// Workers bounds GenerateBatch; 0 keeps the default.
	Workers int `yaml:"workers" validate:"min=0"`

	// Sample is a character map, one string per row.
	Sample []string `yaml:"sample"`
}

// DefaultConfig returns a 48×48 job over the option defaults, with no sample.
func DefaultConfig() Config {
	d := DefaultOptions()
	return Config{
		Order:         d.Order,
		Symmetry:      d.Symmetry,
		PeriodicInput: d.PeriodicInput,
		Width:         48,
		Height:        48,
		Attempts:      d.Attempts,
	}
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfig merges DefaultConfig, the YAML file at path (optional; a
// missing file is not an error) and WFC_* environment overrides, then
// validates the result.
//
// Recognized variables: WFC_ORDER, WFC_WIDTH, WFC_HEIGHT, WFC_SEED,
// WFC_LIMIT, WFC_ATTEMPTS, WFC_SYMMETRY. Values that do not parse are
// ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("load config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
			}
		}
	}
	loadConfigFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadConfigFromEnv(cfg *Config) {
	ints := []struct {
		key string
		dst *int
	}{
		{"WFC_ORDER", &cfg.Order},
		{"WFC_WIDTH", &cfg.Width},
		{"WFC_HEIGHT", &cfg.Height},
		{"WFC_LIMIT", &cfg.Limit},
		{"WFC_ATTEMPTS", &cfg.Attempts},
		{"WFC_SYMMETRY", &cfg.Symmetry},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				*e.dst = i
			}
		}
	}
	if v := os.Getenv("WFC_SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = i
		}
	}
}

// Validate checks field ranges.
//
// Errors: ErrInvalidConfig wrapping the validator's field errors.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Options converts the shape fields to Options.
func (c Config) Options() []Option {
	opts := []Option{
		WithOrder(c.Order),
		WithSymmetry(c.Symmetry),
		WithPeriodicInput(c.PeriodicInput),
		WithPeriodicOutput(c.PeriodicOutput),
		WithGround(c.Ground),
	}
	if c.Attempts > 0 {
		opts = append(opts, WithAttempts(c.Attempts))
	}
	if c.Workers > 0 {
		opts = append(opts, WithWorkers(c.Workers))
	}
	return opts
}

// Build validates c, densifies Sample and returns the Model together with
// the rune palette that decodes its Result (see palette.ToStrings).
// extra options are applied after the ones derived from c.
//
// Errors: ErrInvalidConfig, ErrEmptyGrid, palette errors, NewCatalog and
// NewModel errors.
func (c Config) Build(extra ...Option) (*Model, *palette.Palette[rune], error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	if len(c.Sample) == 0 {
		return nil, nil, fmt.Errorf("%w: config has no sample", ErrEmptyGrid)
	}
	runes, sample, err := palette.FromStrings(c.Sample)
	if err != nil {
		return nil, nil, fmt.Errorf("config sample: %w", err)
	}
	m, err := New(sample, c.Width, c.Height, append(c.Options(), extra...)...)
	if err != nil {
		return nil, nil, err
	}
	return m, runes, nil
}
