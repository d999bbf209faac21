package hex

import "fmt"

// EdgeSpec is one straight side of a ring: From drains toward zero while
// Into grows away from zero in its own sign.
type EdgeSpec struct {
	From Direction
	Into Direction
}

// RingEdges are the six sides of every ring in walk order. The walk starts
// at (0, r, -r) and each side ends on the next side's start corner.
var RingEdges = [6]EdgeSpec{
	{MustDirection("+y"), MustDirection("+x")},
	{MustDirection("-z"), MustDirection("-y")},
	{MustDirection("+x"), MustDirection("+z")},
	{MustDirection("-y"), MustDirection("-x")},
	{MustDirection("+z"), MustDirection("+y")},
	{MustDirection("-x"), MustDirection("-z")},
}

// RingSize is the number of hexes on ring r.
func RingSize(r int) int {
	if r == 0 {
		return 1
	}
	return 6 * r
}

// BoardSize is the number of hexes within distance n of the center.
func BoardSize(n int) int { return 1 + 3*n*(n+1) }

// Edge walks one side of the ring at radius. It returns radius coordinates:
// the start corner followed by radius-1 steps. The end corner is left to
// the following side.
func Edge(from, into Direction, radius int) ([]Cube, error) {
	if err := checkEdge(from, into); err != nil {
		return nil, err
	}
	if radius < 1 {
		return nil, fmt.Errorf("%w: edge radius %d must be positive", ErrInvalidArgument, radius)
	}
	return appendEdge(make([]Cube, 0, radius), from, into, radius), nil
}

// EdgeTokens is Edge with string direction tokens such as "+y" or "-z".
func EdgeTokens(from, into string, radius int) ([]Cube, error) {
	f, err := ParseDirection(from)
	if err != nil {
		return nil, err
	}
	i, err := ParseDirection(into)
	if err != nil {
		return nil, err
	}
	return Edge(f, i, radius)
}

func checkEdge(from, into Direction) error {
	if !from.Valid() {
		return fmt.Errorf("%w: from direction %v", ErrInvalidArgument, from)
	}
	if !into.Valid() {
		return fmt.Errorf("%w: into direction %v", ErrInvalidArgument, into)
	}
	if from.Axis == into.Axis {
		return fmt.Errorf("%w: edge %v->%v stays on one axis", ErrInvalidArgument, from, into)
	}
	// Opposite signs would move the sum off zero on every step.
	if from.Sign != into.Sign {
		return fmt.Errorf("%w: edge %v->%v breaks the zero sum", ErrInvalidArgument, from, into)
	}
	return nil
}

func appendEdge(dst []Cube, from, into Direction, radius int) []Cube {
	f := int(from.Sign) * radius
	cur := Cube{}.with(from.Axis, f)
	cur = cur.with(3-from.Axis-into.Axis, -f)
	for step := 0; step < radius; step++ {
		dst = append(dst, cur)
		cur = cur.with(from.Axis, cur.Get(from.Axis)-int(from.Sign))
		cur = cur.with(into.Axis, cur.Get(into.Axis)+int(into.Sign))
	}
	return dst
}

// Ring returns the 6*radius coordinates at exact distance radius from the
// origin. Consecutive entries are neighbors and the last wraps to the first.
func Ring(radius int) ([]Cube, error) {
	if radius < 1 {
		return nil, fmt.Errorf("%w: ring radius %d must be positive", ErrInvalidArgument, radius)
	}
	return appendRing(make([]Cube, 0, RingSize(radius)), radius), nil
}

func appendRing(dst []Cube, radius int) []Cube {
	for _, e := range RingEdges {
		dst = appendEdge(dst, e.From, e.Into, radius)
	}
	return dst
}

// Board returns the center followed by rings 1..maxRadius.
func Board(maxRadius int) ([]Cube, error) {
	if maxRadius < 0 {
		return nil, fmt.Errorf("%w: board radius %d must not be negative", ErrInvalidArgument, maxRadius)
	}
	res := make([]Cube, 0, BoardSize(maxRadius))
	res = append(res, Origin)
	for r := 1; r <= maxRadius; r++ {
		res = appendRing(res, r)
	}
	return res, nil
}

// Disk returns all coordinates at distance <= r from the origin in
// row order. It holds the same set as Board(r).
func Disk(r int) []Cube {
	if r < 0 {
		return nil
	}
	res := make([]Cube, 0, BoardSize(r))
	for q := -r; q <= r; q++ {
		for r2 := max(-r, -q-r); r2 <= min(r, -q+r); r2++ {
			res = append(res, Axial{q, r2}.ToCube())
		}
	}
	return res
}
