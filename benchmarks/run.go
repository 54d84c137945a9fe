package benchmarks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/gosuri/uilive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/zeu5/ctrm-reach/analysis"
	"github.com/zeu5/ctrm-reach/metrics"
	"github.com/zeu5/ctrm-reach/sim"
	"github.com/zeu5/ctrm-reach/types"
	"github.com/zeu5/ctrm-reach/vi"
)

// instance is one problem handed to the engine by a subcommand
type instance struct {
	name    string
	env     types.Environment
	rm      types.RewardMachine
	horizon float64
	epsilon float64
	sweep   []float64
	// discovery policy name, the --discovery flag when empty
	discovery string
	// extra curves to plot next to the initial product state
	curves []analysis.Curve
	// called after a successful run
	after func(*vi.Engine) error
}

// discoveryPolicy returns the --discovery flag when it is given on the command
// line and fallback otherwise
func discoveryPolicy(cmd *cobra.Command, fallback string) string {
	if cmd.Flags().Changed("discovery") {
		return discovery
	}
	return fallback
}

func engineConfig(policyName string, hooks vi.Hooks) (*vi.Config, error) {
	if policyName == "" {
		policyName = discovery
	}
	policy, err := vi.ParseDiscoveryPolicy(policyName)
	if err != nil {
		return nil, err
	}
	return &vi.Config{
		Discovery: policy,
		Workers:   workers,
		MaxSteps:  maxSteps,
		Strict:    strict,
		Hooks:     hooks,
	}, nil
}

func runInstance(ctx context.Context, inst instance) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	stopProfiling, err := startProfiling()
	if err != nil {
		return err
	}
	defer stopProfiling()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	if metricsAddr != "" {
		go func() {
			logger.Info("serving metrics", "addr", metricsAddr)
			if err := metrics.Serve(ctx, metricsAddr, registry); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	config, err := engineConfig(inst.discovery, vi.LoggingHooks(logger, 100).Merge(collector.Hooks()))
	if err != nil {
		return err
	}
	engine := vi.NewEngine(config)
	value, err := engine.Run(ctx, inst.env, inst.rm, inst.horizon, inst.epsilon)
	if err != nil {
		collector.RecordFailure(err)
		return fmt.Errorf("%s: %w", inst.name, err)
	}
	printResults(inst, engine, value)

	curves := append([]analysis.Curve{{State: inst.env.InitialState(), Automaton: inst.rm.InitialState()}}, inst.curves...)
	if err := analysis.PlotValueCurves(saveFile, inst.name, engine, curves...); err != nil {
		logger.Warn("could not plot value curves", "error", err)
	}
	if violations := analysis.CheckLayerMonotone(engine.Table(), 1e-12); len(violations) > 0 {
		logger.Warn("value decreases with more remaining time", "violations", len(violations), "first", violations[0])
	}

	if simulate > 0 {
		if err := runSimulation(ctx, logger, inst, engine, value); err != nil {
			return err
		}
	}
	if len(inst.sweep) > 0 {
		if err := runSweep(ctx, logger, inst); err != nil {
			return err
		}
	}
	if inst.after != nil {
		return inst.after(engine)
	}
	return nil
}

func printResults(inst instance, engine *vi.Engine, value float64) {
	sep := strings.Repeat("=", 60)
	fmt.Printf("\n%s\nRESULTS: %s\n%s\n", sep, inst.name, sep)
	rates := engine.RateModel()
	fmt.Printf("Maximum rate: %g at (%s, %s, %s)\n", rates.LambdaMax, rates.Automaton, rates.State.Hash(), rates.Action.Hash())
	fmt.Printf("Time Bound: %g\n", inst.horizon)
	fmt.Printf("Approximation Parameter: epsilon = %g\n", inst.epsilon)
	fmt.Printf("Discretization Step: delta = %.6f\n", engine.Delta())
	fmt.Printf("Number of Time Steps: %d\n", engine.NumSteps())
	fmt.Printf("Discovered States: %d\n", len(engine.States()))
	fmt.Printf("Optimal Success Probability: %.6f\n", value)

	top := engine.NumSteps() - 1
	if a, ok := engine.BestAction(inst.env.InitialState(), inst.rm.InitialState(), top); ok {
		fmt.Printf("Best initial action: %s\n", a.Hash())
	}
	if snapshot > 0 {
		fmt.Printf("\nValue table sample:\n")
		for _, e := range engine.Snapshot(snapshot) {
			fmt.Printf("V(%s, %s, %d) = %.6f\n", e.State.Hash(), e.Automaton, e.Time, e.Value)
		}
	}
}

func runSimulation(ctx context.Context, logger *slog.Logger, inst instance, engine *vi.Engine, value float64) error {
	simulator := sim.NewSimulator(engine, inst.env, inst.rm, seed)
	result, err := simulator.Run(ctx, sim.Config{Episodes: simulate, Seed: seed, RecordTraces: 10})
	if err != nil {
		return err
	}
	fmt.Printf("\nSimulated %d episodes: success rate %.6f (stderr %.6f, computed %.6f)\n", result.Episodes, result.Rate, result.StdErr, value)
	if err := sim.RecordTraces(saveFile, inst.name, result.Traces); err != nil {
		logger.Warn("could not record traces", "error", err)
	}
	return nil
}

func runSweep(ctx context.Context, logger *slog.Logger, inst instance) error {
	// the sweep stays quiet, only the progress line is shown
	quiet, err := engineConfig(inst.discovery, vi.Hooks{})
	if err != nil {
		return err
	}
	writer := uilive.New()
	writer.Start()
	result, err := analysis.RunSweep(ctx, inst.env, inst.rm, analysis.SweepConfig{
		Name:     inst.name,
		Horizons: inst.sweep,
		Epsilon:  inst.epsilon,
		NewConfig: func() *vi.Config {
			config := *quiet
			return &config
		},
		Progress: func(done, total int, pt analysis.SweepPoint) {
			fmt.Fprintf(writer, "Sweep %s: %d/%d horizons, last T=%g -> %.6f\n", inst.name, done, total, pt.Horizon, pt.Value)
		},
	})
	writer.Stop()
	if err != nil {
		return err
	}

	fmt.Printf("\nTesting with different time bounds (epsilon = %g)\n", inst.epsilon)
	for _, pt := range result.Points {
		fmt.Printf("T=%.1f -> Success Probability: %.6f (%d steps)\n", pt.Horizon, pt.Value, pt.NumSteps)
	}
	if err := result.CheckMonotone(1e-12); err != nil {
		logger.Warn("success probability is not monotone in the time horizon", "error", err)
	}
	if err := analysis.PlotSweeps(saveFile, inst.name, result); err != nil {
		logger.Warn("could not plot sweep", "error", err)
	}
	return analysis.WriteReport(saveFile, inst.name, result)
}
