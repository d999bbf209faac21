package board

import (
	"fmt"
	"math"

	"github.com/gravitas-games/hexboard/pkg/hex"
)

// Params describe one board request
type Params struct {
	Radius  int     `json:"radius"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Columns int     `json:"columns"`
	Gap     float64 `json:"gap"`
}

// Validate rejects params that no board can be built from. maxRadius <= 0
// means no upper bound.
func (p Params) Validate(maxRadius int) error {
	if p.Radius < 0 {
		return fmt.Errorf("%w: radius %d must not be negative", hex.ErrInvalidArgument, p.Radius)
	}
	if maxRadius > 0 && p.Radius > maxRadius {
		return fmt.Errorf("%w: radius %d exceeds limit %d", hex.ErrInvalidArgument, p.Radius, maxRadius)
	}
	for _, v := range []struct {
		name string
		val  float64
	}{{"width", p.Width}, {"height", p.Height}, {"gap", p.Gap}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return fmt.Errorf("%w: %s must be a finite number", hex.ErrInvalidArgument, v.name)
		}
	}
	if p.Gap < 0 {
		return fmt.Errorf("%w: gap %g must not be negative", hex.ErrInvalidArgument, p.Gap)
	}
	return nil
}

// Cell is a single hex placed on the board
type Cell struct {
	Coord   hex.Cube  `json:"coord"`
	Key     string    `json:"key"`
	Ring    int       `json:"ring"`
	Center  hex.Point `json:"center"`
	TopLeft hex.Point `json:"top_left"`
}

// Board is the center hex plus Radius rings, each cell positioned by Layout
type Board struct {
	Radius    int        `json:"radius"`
	Layout    hex.Layout `json:"layout"`
	HexHeight float64    `json:"hex_height"`
	Cells     []Cell     `json:"cells"`

	index map[hex.Cube]int
}

// New builds the board described by p
func New(p Params) (*Board, error) {
	if err := p.Validate(0); err != nil {
		return nil, err
	}

	layout, err := hex.NewLayout(p.Width, p.Height, p.Columns)
	if err != nil {
		return nil, err
	}
	if layout, err = layout.WithGap(p.Gap); err != nil {
		return nil, err
	}

	coords, err := hex.Board(p.Radius)
	if err != nil {
		return nil, err
	}

	b := &Board{
		Radius:    p.Radius,
		Layout:    layout,
		HexHeight: layout.HexHeight(),
		Cells:     make([]Cell, 0, len(coords)),
	}
	for _, pl := range layout.Place(coords) {
		b.Cells = append(b.Cells, Cell{
			Coord:   pl.Coord,
			Key:     pl.Coord.Key(),
			Ring:    pl.Coord.Length(),
			Center:  pl.Center,
			TopLeft: pl.TopLeft,
		})
	}
	b.reindex()
	return b, nil
}

func (b *Board) reindex() {
	b.index = make(map[hex.Cube]int, len(b.Cells))
	for i, c := range b.Cells {
		b.index[c.Coord] = i
	}
}

// Cell retrieves the cell at c
func (b *Board) Cell(c hex.Cube) (Cell, bool) {
	i, ok := b.index[c]
	if !ok {
		return Cell{}, false
	}
	return b.Cells[i], true
}

// Contains reports whether c is on the board
func (b *Board) Contains(c hex.Cube) bool {
	_, ok := b.index[c]
	return ok
}

// Ring returns the cells on ring r in walk order
func (b *Board) Ring(r int) []Cell {
	if r < 0 || r > b.Radius {
		return nil
	}
	if r == 0 {
		return b.Cells[:1]
	}
	// Rings are stored back to back after the center.
	start := hex.BoardSize(r - 1)
	return b.Cells[start : start+hex.RingSize(r)]
}

// Locate returns the cell under pixel p, if any
func (b *Board) Locate(p hex.Point) (Cell, bool) {
	return b.Cell(b.Layout.CubeAt(p))
}

// CellCount returns the number of hexes on the board
func (b *Board) CellCount() int {
	return len(b.Cells)
}
