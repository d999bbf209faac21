package hex

import (
	"errors"
	"testing"
)

func TestNewCubeRequiresZeroSum(t *testing.T) {
	if _, err := NewCube(1, -1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewCube(1, 1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAxialRoundTrip(t *testing.T) {
	for _, c := range Disk(3) {
		if got := c.ToAxial().ToCube(); got != c {
			t.Fatalf("expected %v, got %v", c, got)
		}
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b Cube
		want int
	}{
		{Origin, Origin, 0},
		{Origin, Cube{1, -1, 0}, 1},
		{Cube{2, -1, -1}, Cube{-1, 2, -1}, 3},
		{Cube{0, 3, -3}, Cube{0, -3, 3}, 6},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Fatalf("Distance(%v, %v): expected %d, got %d", tt.a, tt.b, tt.want, got)
		}
	}
}

func TestNeighborsAreAdjacent(t *testing.T) {
	c := Cube{2, -3, 1}
	ns := c.Neighbors()
	if len(ns) != 6 {
		t.Fatalf("expected 6 neighbors, got %d", len(ns))
	}
	for i, n := range ns {
		if !n.Valid() || !Adjacent(c, n) {
			t.Fatalf("neighbor %d %v is not adjacent to %v", i, n, c)
		}
		if c.Neighbor(i) != n || c.Neighbor(i-6) != n {
			t.Fatalf("Neighbor(%d) disagrees with Neighbors()", i)
		}
	}
}

func TestKey(t *testing.T) {
	if got := (Cube{-2, 0, 2}).Key(); got != "-2.0.2" {
		t.Fatalf("expected -2.0.2, got %s", got)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		token string
		want  Direction
	}{
		{"x", Direction{AxisX, Positive}},
		{"+y", Direction{AxisY, Positive}},
		{"-z", Direction{AxisZ, Negative}},
		{"-x", Direction{AxisX, Negative}},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseDirection(tt.token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
	for _, bad := range []string{"", "xx", "+", "-q", "++x", "x+", "X"} {
		if _, err := ParseDirection(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("ParseDirection(%q): expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}

func TestDirectionString(t *testing.T) {
	for _, e := range RingEdges {
		back, err := ParseDirection(e.From.String())
		if err != nil || back != e.From {
			t.Fatalf("expected %v to round trip, got %v (%v)", e.From, back, err)
		}
	}
}
