package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gravitas-games/hexboard/pkg/hex"
)

func newRingCmd() *cobra.Command {
	var (
		asJSON bool
		from   string
		into   string
	)

	cmd := &cobra.Command{
		Use:   "ring <radius>",
		Short: "Print the coordinates of one ring in walk order",
		Long: `Print the 6*radius cube coordinates at exact distance radius from the
center. With --from and --into only that edge is walked, e.g.
  hexboard ring 3 --from +y --into +x`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			radius, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("radius must be an integer: %q", args[0])
			}
			logger := loggerFromContext(cmd.Context())

			var coords []hex.Cube
			err = timed(logger, "ring computed", func() error {
				if from != "" || into != "" {
					coords, err = hex.EdgeTokens(from, into, radius)
				} else {
					coords, err = hex.Ring(radius)
				}
				return err
			})
			if err != nil {
				return err
			}
			logger.Debug("ring", "radius", radius, "coords", len(coords))

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, coords)
			}

			title(out, "Ring %d", radius)
			t := newTable("#", "x", "y", "z", "key").style(1, styleX).style(2, styleY).style(3, styleZ)
			for i, c := range coords {
				t.add(i, c.X, c.Y, c.Z, c.Key())
			}
			if err := t.render(out); err != nil {
				return err
			}
			note(out, "%d coordinates", len(coords))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&from, "from", "", "walk a single edge draining this signed axis (x, -y, +z, ...)")
	cmd.Flags().StringVar(&into, "into", "", "signed axis the single edge grows into")
	return cmd
}
