package benchmarks

import (
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/ctrm-reach/grid"
	"github.com/zeu5/ctrm-reach/vi"
)

func GridCommand() *cobra.Command {
	var height int
	var width int
	var slip float64

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Delivery on a slippery grid with hazards",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario := grid.DefaultScenario(height, width)
			return runInstance(cmd.Context(), instance{
				name:    "grid",
				env:     scenario.Environment(height, width, slip),
				rm:      scenario.Machine(),
				horizon: horizon,
				epsilon: epsilon,
				sweep:   sweep,
				// following only the first movement misses most of the grid
				discovery: discoveryPolicy(cmd, vi.DiscoverAllActions.String()),
				after: func(engine *vi.Engine) error {
					if err := os.MkdirAll(saveFile, os.ModePerm); err != nil {
						return err
					}
					top := engine.NumSteps() - 1
					for _, u := range []string{grid.Searching, grid.Carrying} {
						values := grid.NewValueGrid(height, width, func(p *grid.Position) float64 {
							return engine.Value(p, u, top)
						})
						if err := values.Record(path.Join(saveFile, "grid_"+u+".json")); err != nil {
							return err
						}
						if err := grid.PlotHeatMap(values, u, path.Join(saveFile, "grid_"+u+".png")); err != nil {
							return err
						}
					}
					return nil
				},
			})
		},
	}
	cmd.PersistentFlags().IntVar(&height, "height", 5, "Height of the grid")
	cmd.PersistentFlags().IntVar(&width, "width", 5, "Width of the grid")
	cmd.PersistentFlags().Float64Var(&slip, "slip", 0.1, "Probability of slipping to a perpendicular direction")
	return cmd
}
