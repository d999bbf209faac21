package hex

import (
	"fmt"
	"strconv"
)

// Axial represents axial coordinates (q, r).
type Axial struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Cube represents cube coordinates (x, y, z) with x+y+z=0.
type Cube struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Origin is the center hex.
var Origin = Cube{}

// Directions lists the six unit steps between neighboring hexes in ring
// walk order.
var Directions = []Cube{
	{+1, -1, 0}, {0, -1, +1}, {-1, 0, +1}, {-1, +1, 0}, {0, +1, -1}, {+1, 0, -1},
}

// NewCube returns the cube coordinate (x, y, z), rejecting triples that do
// not sum to zero.
func NewCube(x, y, z int) (Cube, error) {
	c := Cube{X: x, Y: y, Z: z}
	if !c.Valid() {
		return Cube{}, fmt.Errorf("%w: cube %s does not sum to zero", ErrInvalidArgument, c)
	}
	return c, nil
}

// Valid reports whether c satisfies x+y+z=0.
func (c Cube) Valid() bool { return c.X+c.Y+c.Z == 0 }

// Add returns c+o.
func (c Cube) Add(o Cube) Cube { return Cube{c.X + o.X, c.Y + o.Y, c.Z + o.Z} }

// Scale multiplies every component by k.
func (c Cube) Scale(k int) Cube { return Cube{c.X * k, c.Y * k, c.Z * k} }

// Neighbor returns the adjacent hex in direction d (0..5).
func (c Cube) Neighbor(d int) Cube { return c.Add(Directions[((d%6)+6)%6]) }

// Neighbors returns the six adjacent hexes.
func (c Cube) Neighbors() []Cube {
	out := make([]Cube, 0, len(Directions))
	for _, d := range Directions {
		out = append(out, c.Add(d))
	}
	return out
}

// Get returns the component on axis a.
func (c Cube) Get(a Axis) int {
	switch a {
	case AxisX:
		return c.X
	case AxisY:
		return c.Y
	default:
		return c.Z
	}
}

// with returns c with the component on axis a replaced by v.
func (c Cube) with(a Axis, v int) Cube {
	switch a {
	case AxisX:
		c.X = v
	case AxisY:
		c.Y = v
	default:
		c.Z = v
	}
	return c
}

// Key is the stable "x.y.z" identity used by renderers.
func (c Cube) Key() string {
	return strconv.Itoa(c.X) + "." + strconv.Itoa(c.Y) + "." + strconv.Itoa(c.Z)
}

func (c Cube) String() string { return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z) }

// ToCube converts axial to cube.
func (a Axial) ToCube() Cube {
	x := a.Q
	z := a.R
	y := -x - z
	return Cube{X: x, Y: y, Z: z}
}

// ToAxial converts cube to axial.
func (c Cube) ToAxial() Axial { return Axial{Q: c.X, R: c.Z} }

// Distance returns the hex distance between two cube coords.
func Distance(a, b Cube) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y), abs(a.Z-b.Z))
}

// Length is the distance from the origin, i.e. the ring c sits on.
func (c Cube) Length() int { return Distance(c, Origin) }

// Adjacent reports whether a and b are neighbors.
func Adjacent(a, b Cube) bool { return Distance(a, b) == 1 }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
