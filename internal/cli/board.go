package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitas-games/hexboard/internal/board"
	"github.com/gravitas-games/hexboard/pkg/hex"
)

// boardFlags are shared by every command that builds a board.
type boardFlags struct {
	params board.Params
	asJSON bool
}

func (f *boardFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.params.Radius, "radius", "r", 5, "number of rings around the center")
	cmd.Flags().Float64Var(&f.params.Width, "width", 600, "board width in pixels")
	cmd.Flags().Float64Var(&f.params.Height, "height", 600, "board height in pixels")
	cmd.Flags().IntVar(&f.params.Columns, "columns", hex.DefaultColumns, "hex widths across the board")
	cmd.Flags().Float64Var(&f.params.Gap, "gap", 0, "pixels between neighboring hexes")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print JSON instead of a table")
}

func (f *boardFlags) build(cmd *cobra.Command) (*board.Board, error) {
	logger := loggerFromContext(cmd.Context())
	var b *board.Board
	err := timed(logger, "board built", func() error {
		var err error
		b, err = board.New(f.params)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("board", "radius", b.Radius, "cells", b.CellCount(), "hex_width", b.Layout.HexWidth)
	return b, nil
}

func newBoardCmd() *cobra.Command {
	var flags boardFlags

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print every hex of a board with its pixel placement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := flags.build(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.asJSON {
				return writeJSON(out, b)
			}

			title(out, "Board radius %d (%gx%g, hex %.2fx%.2f)",
				b.Radius, b.Layout.BoardWidth, b.Layout.BoardHeight, b.Layout.HexWidth, b.HexHeight)
			t := newTable("key", "ring", "center", "top", "left")
			for _, c := range b.Cells {
				t.add(c.Key, c.Ring,
					fmt.Sprintf("%.2f,%.2f", c.Center.Horizontal, c.Center.Vertical),
					c.TopLeft.Vertical, c.TopLeft.Horizontal)
			}
			if err := t.render(out); err != nil {
				return err
			}
			note(out, "%d hexes", b.CellCount())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newLocateCmd() *cobra.Command {
	var (
		flags boardFlags
		x, y  float64
	)

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Find the hex under a pixel position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := flags.build(cmd)
			if err != nil {
				return err
			}

			cell, ok := b.Locate(hex.Point{Horizontal: x, Vertical: y})
			if !ok {
				return fmt.Errorf("no hex at (%g, %g) on a radius %d board", x, y, b.Radius)
			}

			out := cmd.OutOrStdout()
			if flags.asJSON {
				return writeJSON(out, cell)
			}
			title(out, "Hex %s", cell.Key)
			t := newTable("x", "y", "z", "ring").style(0, styleX).style(1, styleY).style(2, styleZ)
			t.add(cell.Coord.X, cell.Coord.Y, cell.Coord.Z, cell.Ring)
			return t.render(out)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64VarP(&x, "x", "x", 0, "horizontal pixel offset from the board's left edge")
	cmd.Flags().Float64VarP(&y, "y", "y", 0, "vertical pixel offset from the board's top edge")
	return cmd
}
