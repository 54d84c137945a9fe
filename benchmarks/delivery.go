package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/ctrm-reach/analysis"
	"github.com/zeu5/ctrm-reach/delivery"
)

func DeliveryCommand() *cobra.Command {
	var returnProb float64

	cmd := &cobra.Command{
		Use:   "delivery",
		Short: "The hurried delivery robot benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := delivery.NewEnvironment()
			env.ReturnProb = returnProb
			return runInstance(cmd.Context(), instance{
				name:    "delivery",
				env:     env,
				rm:      delivery.NewMachine(),
				horizon: horizon,
				epsilon: epsilon,
				sweep:   sweep,
				curves: []analysis.Curve{
					{State: delivery.Pickup, Automaton: delivery.HasPackage},
					{State: delivery.Goal, Automaton: delivery.HasPackage},
				},
			})
		},
	}
	cmd.PersistentFlags().Float64Var(&returnProb, "return-prob", 0.1, "Probability of going back to the start from the pickup")
	return cmd
}
