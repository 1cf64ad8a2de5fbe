package layout

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/conceptmap/pkg/concept"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
)

// Strategy names a placement algorithm.
type Strategy string

const (
	StrategyScatter Strategy = "scatter"
	StrategyGrid    Strategy = "grid"
)

// Defaults matching the 800×600 canvas.
const (
	DefaultWidth          = 800
	DefaultHeight         = 600
	DefaultScatterPadding = 100
	DefaultMargin         = 20
	DefaultPadding        = 10
	DefaultMaxRadius      = 50
)

// ParseStrategy converts a configuration string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyScatter, StrategyGrid:
		return Strategy(s), nil
	default:
		return "", cerrors.New(cerrors.ErrCodeInvalidLayout, "unknown layout %q (must be %q or %q)", s, StrategyScatter, StrategyGrid)
	}
}

// DefaultPolicy returns the registry policy that pairs with the strategy:
// scatter shows one circle per distinct word, grid one cell per occurrence.
func (s Strategy) DefaultPolicy() concept.Policy {
	if s == StrategyGrid {
		return concept.PolicyPerOccurrence
	}
	return concept.PolicyDeduplicate
}

// Layouter positions every node of a graph.
type Layouter interface {
	Place(g *concept.Graph) error
	Strategy() Strategy
}

// Options selects and parameterizes a Layouter.
type Options struct {
	Strategy       Strategy `toml:"strategy" json:"strategy"`
	Width          int      `toml:"-" json:"width"`
	Height         int      `toml:"-" json:"height"`
	ScatterPadding int      `toml:"scatter_padding" json:"scatter_padding"`
	Margin         int      `toml:"margin" json:"margin"`
	Padding        int      `toml:"padding" json:"padding"`
	MaxRadius      int      `toml:"-" json:"max_radius"`
	Seed           uint64   `toml:"seed" json:"seed"`
}

// DefaultOptions returns scatter layout on the default canvas.
func DefaultOptions() Options {
	return Options{
		Strategy:       StrategyScatter,
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		ScatterPadding: DefaultScatterPadding,
		Margin:         DefaultMargin,
		Padding:        DefaultPadding,
		MaxRadius:      DefaultMaxRadius,
	}
}

// Validate checks that the options describe a usable canvas.
func (o Options) Validate() error {
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	if o.Width <= 0 || o.Height <= 0 {
		return cerrors.New(cerrors.ErrCodeInvalidLayout, "canvas must be positive, got %dx%d", o.Width, o.Height)
	}
	switch o.Strategy {
	case StrategyScatter:
		if o.ScatterPadding < 0 || 2*o.ScatterPadding > o.Width || 2*o.ScatterPadding > o.Height {
			return cerrors.New(cerrors.ErrCodeInvalidLayout, "scatter padding %d leaves no room on a %dx%d canvas", o.ScatterPadding, o.Width, o.Height)
		}
	case StrategyGrid:
		if o.Margin < 0 || o.Padding < 0 || o.MaxRadius <= 0 {
			return cerrors.New(cerrors.ErrCodeInvalidLayout, "grid needs margin>=0, padding>=0, radius>0")
		}
	}
	return nil
}

// Deterministic reports whether two runs with the same input produce the
// same positions.
func (o Options) Deterministic() bool {
	return o.Strategy == StrategyGrid || o.Seed != 0
}

// New builds the Layouter described by opts.
func New(opts Options) (Layouter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Strategy == StrategyGrid {
		return &Grid{
			Width:     opts.Width,
			Height:    opts.Height,
			Margin:    opts.Margin,
			Padding:   opts.Padding,
			MaxRadius: opts.MaxRadius,
		}, nil
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Scatter{
		Width:   opts.Width,
		Height:  opts.Height,
		Padding: opts.ScatterPadding,
		Rand:    NewRand(seed),
	}, nil
}

// NewRand returns the PCG source used for seeded scatter layouts.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// =============================================================================
// Scatter
// =============================================================================

// Scatter places nodes uniformly at random in
// [Padding, Width-Padding] × [Padding, Height-Padding], bounds inclusive.
type Scatter struct {
	Width, Height int
	Padding       int
	Rand          *rand.Rand
}

// Place draws x then y for each node in creation order.
func (s *Scatter) Place(g *concept.Graph) error {
	spanX := s.Width - 2*s.Padding
	spanY := s.Height - 2*s.Padding
	if spanX < 0 || spanY < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidLayout, "scatter padding %d exceeds canvas %dx%d", s.Padding, s.Width, s.Height)
	}
	rng := s.Rand
	if rng == nil {
		rng = NewRand(uint64(time.Now().UnixNano()))
	}
	for _, n := range g.Nodes() {
		x := s.Padding + rng.IntN(spanX+1)
		y := s.Padding + rng.IntN(spanY+1)
		g.SetPos(n.ID, concept.Point{X: float64(x), Y: float64(y)})
	}
	return nil
}

func (s *Scatter) Strategy() Strategy { return StrategyScatter }

// =============================================================================
// Grid
// =============================================================================

// Grid packs nodes into fixed cells, left to right then top to bottom.
type Grid struct {
	Width, Height int
	Margin        int
	Padding       int
	MaxRadius     int
}

// Cell returns the side length of one grid cell.
func (gr *Grid) Cell() int { return 2*gr.MaxRadius + gr.Padding }

// Capacity returns how many columns and rows fit on the canvas.
func (gr *Grid) Capacity() (cols, rows int) {
	cell := gr.Cell()
	if cell <= 0 {
		return 0, 0
	}
	return (gr.Width - 2*gr.Margin) / cell, (gr.Height - 2*gr.Margin) / cell
}

// columns is the effective row width. A canvas too narrow for a single
// cell still stacks nodes in one column.
func (gr *Grid) columns() int {
	cols, _ := gr.Capacity()
	return max(cols, 1)
}

// Place assigns row = i / cols and column = i % cols to the i-th node.
func (gr *Grid) Place(g *concept.Graph) error {
	if gr.Cell() <= 0 {
		return fmt.Errorf("grid cell size %d must be positive", gr.Cell())
	}
	cols := gr.columns()
	for i, n := range g.Nodes() {
		g.SetPos(n.ID, gr.Position(i, cols))
	}
	return nil
}

// Position returns the center of cell index i in a grid of cols columns.
func (gr *Grid) Position(i, cols int) concept.Point {
	row, col := i/cols, i%cols
	origin := gr.Margin + gr.MaxRadius
	return concept.Point{
		X: float64(origin + col*gr.Cell()),
		Y: float64(origin + row*gr.Cell()),
	}
}

// Overflow returns how many of n nodes land in rows beyond the vertical
// capacity. Those nodes are still placed, below the visible canvas.
func (gr *Grid) Overflow(n int) int {
	_, rows := gr.Capacity()
	visible := gr.columns() * max(rows, 0)
	return max(n-visible, 0)
}

func (gr *Grid) Strategy() Strategy { return StrategyGrid }

var (
	_ Layouter = (*Scatter)(nil)
	_ Layouter = (*Grid)(nil)
)
