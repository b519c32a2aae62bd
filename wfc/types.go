package wfc

import "errors"

// Sentinel errors for wfc construction and execution.
var (
	// ErrEmptyGrid indicates the sample has no rows or no columns.
	ErrEmptyGrid = errors.New("wfc: sample must have at least one row and one column")
	// ErrNonRectangular indicates sample rows of differing lengths.
	ErrNonRectangular = errors.New("wfc: all sample rows must have the same length")
	// ErrBadOrder indicates a pattern order below 1.
	ErrBadOrder = errors.New("wfc: order must be at least 1")
	// ErrSampleTooSmall indicates a non-periodic sample narrower or shorter than the order.
	ErrSampleTooSmall = errors.New("wfc: sample is smaller than the pattern order")
	// ErrBadSymmetry indicates a symmetry count outside {1, 2, 4, 8}.
	ErrBadSymmetry = errors.New("wfc: symmetry must be 1, 2, 4 or 8")
	// ErrBadTargetSize indicates an output width or height below 1.
	ErrBadTargetSize = errors.New("wfc: output width and height must be at least 1")
	// ErrTargetTooSmall indicates a non-periodic output smaller than the order.
	ErrTargetTooSmall = errors.New("wfc: output is smaller than the pattern order")
	// ErrBadGround indicates a ground pattern id outside [-T, T).
	ErrBadGround = errors.New("wfc: ground pattern out of range")
	// ErrNilCatalog indicates a nil Catalog or Propagator, or a Propagator
	// built from a different Catalog.
	ErrNilCatalog = errors.New("wfc: catalog and propagator are required and must match")
	// ErrBadLimit indicates a negative iteration limit.
	ErrBadLimit = errors.New("wfc: iteration limit must be non-negative")
	// ErrBadCount indicates a negative batch size.
	ErrBadCount = errors.New("wfc: batch count must be non-negative")
	// ErrNilSource indicates a nil random source.
	ErrNilSource = errors.New("wfc: random source is nil")
	// ErrNotStarted indicates Continue was called before any Run.
	ErrNotStarted = errors.New("wfc: model has not been run")
	// ErrInvalidConfig indicates a Config that failed validation.
	ErrInvalidConfig = errors.New("wfc: invalid config")
	// ErrNoSolution indicates every attempt of a retrying generator contradicted
	// or stayed incomplete.
	ErrNoSolution = errors.New("wfc: no solution within the allowed attempts")
)

// Outcome is the result of a Run or Continue call.
type Outcome int

const (
	// Incomplete means the iteration limit was reached first; Continue may resume.
	Incomplete Outcome = iota
	// Collapsed means every cell holds exactly one pattern; Result is available.
	Collapsed
	// Contradiction means some cell lost every pattern; the run cannot succeed.
	Contradiction
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Incomplete:
		return "incomplete"
	case Collapsed:
		return "collapsed"
	case Contradiction:
		return "contradiction"
	default:
		return "unknown"
	}
}

// Direction is one of the four lattice directions.
type Direction int

const (
	// West is (-1, 0).
	West Direction = iota
	// North is (0, -1); rows grow downward.
	North
	// East is (+1, 0).
	East
	// South is (0, +1).
	South
)

// Directions lists all directions in index order.
var Directions = [4]Direction{West, North, East, South}

var (
	dirDX = [4]int{-1, 0, 1, 0}
	dirDY = [4]int{0, -1, 0, 1}
)

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction { return (d + 2) & 3 }

// Offset returns the (dx, dy) step of d.
func (d Direction) Offset() (dx, dy int) { return dirDX[d], dirDY[d] }

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case West:
		return "west"
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	default:
		return "invalid"
	}
}

// CellState is a read-only snapshot of one wave cell.
type CellState struct {
	// Possible is the number of patterns still allowed here; 0 is a contradiction.
	Possible int
	// WeightSum is Σ weight over the allowed patterns.
	WeightSum float64
	// WeightLogWeightSum is Σ weight·log(weight) over the allowed patterns.
	WeightLogWeightSum float64
	// Entropy is log(WeightSum) - WeightLogWeightSum/WeightSum, or 0 when
	// at most one pattern remains.
	Entropy float64
}
