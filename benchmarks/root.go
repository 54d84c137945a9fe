package benchmarks

import "github.com/spf13/cobra"

var (
	horizon     float64
	epsilon     float64
	workers     int
	discovery   string
	strict      bool
	maxSteps    int
	saveFile    string
	logLevel    string
	sweep       []float64
	simulate    int
	seed        uint64
	snapshot    int
	metricsAddr string
	cpuprofile  string
	memprofile  string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "ctrm-reach",
		Short:        "Time bounded reachability of CTMDPs with counterfactual temporal reward machines",
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().Float64VarP(&horizon, "horizon-time", "T", 8.0, "Time horizon")
	rootCommand.PersistentFlags().Float64VarP(&epsilon, "epsilon", "e", 0.1, "Accuracy parameter in (0,1]")
	rootCommand.PersistentFlags().IntVar(&workers, "workers", 1, "Workers computing one time layer")
	rootCommand.PersistentFlags().StringVar(&discovery, "discovery", "first", "State discovery policy: first or all")
	rootCommand.PersistentFlags().BoolVar(&strict, "strict", false, "Fail on successors outside the discovered states")
	rootCommand.PersistentFlags().IntVar(&maxSteps, "max-steps", 0, "Maximum number of time layers (0 for no limit)")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCommand.PersistentFlags().Float64SliceVar(&sweep, "sweep", nil, "Time horizons to sweep after the main run")
	rootCommand.PersistentFlags().IntVar(&simulate, "simulate", 0, "Number of simulated episodes to cross check the value")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 1, "Seed of the simulator")
	rootCommand.PersistentFlags().IntVar(&snapshot, "snapshot", 10, "Number of value table entries to print")
	rootCommand.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a CPU profile to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a memory profile to this file in the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(DeliveryCommand())
	rootCommand.AddCommand(GridCommand())
	rootCommand.AddCommand(ScenarioCommand())
	return rootCommand
}
