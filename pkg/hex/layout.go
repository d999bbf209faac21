package hex

import (
	"fmt"
	"math"
)

// DefaultColumns is how many hex widths fit across the board.
const DefaultColumns = 9

// Point is a pixel offset from the board's top-left corner.
type Point struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
}

// Layout maps cube coordinates to pixels for flat-top hexes centered on
// the board. Gap shrinks the spacing between centers without shrinking
// the hexes.
type Layout struct {
	BoardWidth  float64 `json:"board_width"`
	BoardHeight float64 `json:"board_height"`
	HexWidth    float64 `json:"hex_width"`
	Gap         float64 `json:"gap"`
}

// Placement is where a single hex's bounding box goes.
type Placement struct {
	Coord   Cube    `json:"coord"`
	Center  Point   `json:"center"`
	TopLeft Point   `json:"top_left"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// NewLayout derives the hex width from the board width and column count.
func NewLayout(boardWidth, boardHeight float64, columns int) (Layout, error) {
	if columns <= 0 {
		return Layout{}, fmt.Errorf("%w: columns %d must be positive", ErrInvalidArgument, columns)
	}
	if !positive(boardWidth) || !positive(boardHeight) {
		return Layout{}, fmt.Errorf("%w: board %gx%g must have positive finite size", ErrInvalidArgument, boardWidth, boardHeight)
	}
	return Layout{
		BoardWidth:  boardWidth,
		BoardHeight: boardHeight,
		HexWidth:    boardWidth / float64(columns),
	}, nil
}

// WithGap returns l with the given gap. The gap must stay below the hex
// height, otherwise neighboring centers would meet or swap sides.
func (l Layout) WithGap(gap float64) (Layout, error) {
	if gap < 0 || math.IsNaN(gap) || gap >= l.HexHeight() {
		return Layout{}, fmt.Errorf("%w: gap %g must be in [0, %g)", ErrInvalidArgument, gap, l.HexHeight())
	}
	l.Gap = gap
	return l, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// HexHeight is the flat-top height for HexWidth: width * sqrt(3) / 2.
// It is also the distance between neighboring centers when Gap is 0.
func (l Layout) HexHeight() float64 { return l.HexWidth * math.Sqrt(3) / 2 }

// columnStep is the horizontal move per unit of y; rowStep the vertical
// move per unit of (z - x).
func (l Layout) columnStep() float64 { return 0.75 * (l.HexWidth - l.Gap) }
func (l Layout) rowStep() float64    { return 0.5 * (l.HexHeight() - l.Gap) }

// Center returns the pixel center of c. The origin sits at the board
// center, +x points straight up and y moves one column left.
func (l Layout) Center(c Cube) Point {
	return Point{
		Horizontal: l.BoardWidth/2 - l.columnStep()*float64(c.Y),
		Vertical:   l.BoardHeight/2 + l.rowStep()*float64(c.Z-c.X),
	}
}

// TopLeft returns the top-left corner of c's bounding box.
func (l Layout) TopLeft(c Cube) Point {
	p := l.Center(c)
	p.Horizontal -= l.HexWidth / 2
	p.Vertical -= l.HexHeight() / 2
	return p
}

// Place computes a Placement for every coordinate, keeping order.
func (l Layout) Place(coords []Cube) []Placement {
	out := make([]Placement, 0, len(coords))
	w, h := l.HexWidth, l.HexHeight()
	for _, c := range coords {
		out = append(out, Placement{
			Coord:   c,
			Center:  l.Center(c),
			TopLeft: l.TopLeft(c),
			Width:   w,
			Height:  h,
		})
	}
	return out
}

// CubeAt returns the hex whose center is nearest to p.
func (l Layout) CubeAt(p Point) Cube {
	cs, rs := l.columnStep(), l.rowStep()
	if cs == 0 || rs == 0 {
		return Origin
	}
	y := -(p.Horizontal - l.BoardWidth/2) / cs
	d := (p.Vertical - l.BoardHeight/2) / rs // z - x
	z := (d - y) / 2
	x := -y - z
	return roundCube(x, y, z)
}

// roundCube snaps fractional cube coordinates to the nearest hex while
// keeping the zero sum.
func roundCube(x, y, z float64) Cube {
	rx, ry, rz := math.Round(x), math.Round(y), math.Round(z)
	dx, dy, dz := math.Abs(rx-x), math.Abs(ry-y), math.Abs(rz-z)
	switch {
	case dx > dy && dx > dz:
		rx = -ry - rz
	case dy > dz:
		ry = -rx - rz
	default:
		rz = -rx - ry
	}
	return Cube{X: int(rx), Y: int(ry), Z: int(rz)}
}
