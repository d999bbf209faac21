package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gravitas-games/hexboard/internal/board"
	"github.com/gravitas-games/hexboard/pkg/hex"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRingJSON(t *testing.T) {
	out, err := run(t, "ring", "2", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var coords []hex.Cube
	if err := json.Unmarshal([]byte(out), &coords); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(coords) != 12 {
		t.Fatalf("expected 12 coords, got %d", len(coords))
	}
	if coords[0] != (hex.Cube{X: 0, Y: 2, Z: -2}) {
		t.Fatalf("expected ring to start at (0,2,-2), got %v", coords[0])
	}
}

func TestRingSingleEdge(t *testing.T) {
	out, err := run(t, "ring", "3", "--from", "-x", "--into", "-z", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var coords []hex.Cube
	if err := json.Unmarshal([]byte(out), &coords); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []hex.Cube{{X: -3, Y: 3, Z: 0}, {X: -2, Y: 3, Z: -1}, {X: -1, Y: 3, Z: -2}}
	if len(coords) != len(want) {
		t.Fatalf("expected %d coords, got %d", len(want), len(coords))
	}
	for i := range want {
		if coords[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], coords[i])
		}
	}
}

func TestRingErrors(t *testing.T) {
	if _, err := run(t, "ring", "0"); !errors.Is(err, hex.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for radius 0, got %v", err)
	}
	if _, err := run(t, "ring", "2", "--from", "bad-direction", "--into", "x"); !errors.Is(err, hex.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for bad direction, got %v", err)
	}
	if _, err := run(t, "ring", "two"); err == nil {
		t.Fatalf("expected error for non-integer radius")
	}
}

func TestRingTable(t *testing.T) {
	out, err := run(t, "ring", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Ring 1", "key", "0.1.-1", "-1.1.0", "6 coordinates", "╭", "╯"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestBoardJSON(t *testing.T) {
	out, err := run(t, "board", "--radius", "3", "--width", "900", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var b board.Board
	if err := json.Unmarshal([]byte(out), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(b.Cells) != hex.BoardSize(3) {
		t.Fatalf("expected %d cells, got %d", hex.BoardSize(3), len(b.Cells))
	}
	if b.Layout.HexWidth != 100 {
		t.Fatalf("expected hex width 100, got %v", b.Layout.HexWidth)
	}
}

func TestBoardTable(t *testing.T) {
	out, err := run(t, "board", "-r", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "0.0.0") || !strings.Contains(out, "7 hexes") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestLocate(t *testing.T) {
	out, err := run(t, "locate", "--x", "300", "--y", "300", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var cell board.Cell
	if err := json.Unmarshal([]byte(out), &cell); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cell.Coord != hex.Origin {
		t.Fatalf("expected origin, got %v", cell.Coord)
	}

	if _, err := run(t, "locate", "--x=-5000", "--y=0"); err == nil {
		t.Fatalf("expected error for a point off the board")
	}
}
