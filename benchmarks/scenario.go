package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/ctrm-reach/scenario"
)

func ScenarioCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "Run a scenario described in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			inst := instance{
				name:    s.Name,
				env:     s.NewEnvironment(),
				rm:      s.Machine(),
				horizon: horizon,
				epsilon: epsilon,
				sweep:   sweep,
			}
			if inst.name == "" {
				inst.name = "scenario"
			}
			// values of the file apply unless given on the command line
			flags := cmd.Flags()
			if s.Horizon > 0 && !flags.Changed("horizon-time") {
				inst.horizon = s.Horizon
			}
			if s.Epsilon > 0 && !flags.Changed("epsilon") {
				inst.epsilon = s.Epsilon
			}
			if len(s.Horizons) > 0 && !flags.Changed("sweep") {
				inst.sweep = s.Horizons
			}
			return runInstance(cmd.Context(), inst)
		},
	}
	return cmd
}
