// Package sim replays the discretized product process under the policy
// extracted by the value iteration engine.
package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"path"

	"github.com/zeu5/ctrm-reach/types"
	"github.com/zeu5/ctrm-reach/util"
	"github.com/zeu5/ctrm-reach/vi"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/sampleuv"
)

type Config struct {
	Episodes int
	Seed     uint64
	// number of episodes whose trace is kept in the result
	RecordTraces int
}

// Result of a batch of episodes
type Result struct {
	Episodes  int
	Successes int
	// empirical success probability and its standard error
	Rate   float64
	StdErr float64
	Traces []*types.Trace
}

// Simulator runs episodes of the product process: at every time layer the best
// action of the engine is taken, a jump fires with probability 1-exp(-rate*delta)
// and lands on a successor drawn from the environment distribution
type Simulator struct {
	engine *vi.Engine
	env    types.Environment
	rm     types.RewardMachine
	rand   *rand.Rand
}

// NewSimulator needs an engine that completed a run on env and rm
func NewSimulator(engine *vi.Engine, env types.Environment, rm types.RewardMachine, seed uint64) *Simulator {
	return &Simulator{
		engine: engine,
		env:    env,
		rm:     rm,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// Run the configured number of episodes
func (s *Simulator) Run(ctx context.Context, config Config) (*Result, error) {
	if s.engine.Table() == nil {
		return nil, fmt.Errorf("%w: engine has no value table", vi.ErrInvalidParameter)
	}
	if config.Episodes <= 0 {
		return nil, fmt.Errorf("%w: episodes must be positive", vi.ErrInvalidParameter)
	}
	result := &Result{
		Episodes: config.Episodes,
		Traces:   make([]*types.Trace, 0, config.RecordTraces),
	}
	outcomes := make([]float64, config.Episodes)
	for i := 0; i < config.Episodes; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		trace, success := s.runEpisode()
		if success {
			result.Successes += 1
			outcomes[i] = 1
		}
		if i < config.RecordTraces {
			result.Traces = append(result.Traces, trace)
		}
	}
	mean, std := stat.MeanStdDev(outcomes, nil)
	result.Rate = mean
	if config.Episodes > 1 {
		result.StdErr = stat.StdErr(std, float64(config.Episodes))
	}
	return result, nil
}

// run a single episode and return the resulting trace
func (s *Simulator) runEpisode() (*types.Trace, bool) {
	trace := types.NewTrace()
	delta := s.engine.Delta()
	state := s.env.InitialState()
	u := s.rm.InitialState()

	for k := s.engine.NumSteps() - 1; ; k-- {
		if s.rm.IsAccepting(u) {
			return trace, true
		}
		if k == 0 {
			return trace, false
		}
		action, ok := s.engine.BestAction(state, u, k)
		if !ok {
			// nothing is enabled, time passes
			trace.Append(types.Step{Time: k, State: state, AutomatonState: u, NextState: state})
			continue
		}
		rate := s.rm.Rate(u, state, action)
		if s.rand.Float64() >= 1-math.Exp(-rate*delta) {
			trace.Append(types.Step{Time: k, State: state, AutomatonState: u, Action: action, NextState: state})
			continue
		}

		next, ok := s.sample(s.env.NextState(state, action))
		if !ok {
			return trace, false
		}
		trace.Append(types.Step{Time: k, State: state, AutomatonState: u, Action: action, NextState: next, Jumped: true})
		u = s.rm.Transition(u, s.env.Label(state))
		state = next
		if _, known := s.engine.Table().Lookup(state, u, k-1); !known {
			// outside the discovered states the engine assumes failure
			return trace, false
		}
	}
}

func (s *Simulator) sample(dist types.Distribution) (types.State, bool) {
	if len(dist) == 0 {
		return nil, false
	}
	weights := make([]float64, len(dist))
	for i, o := range dist {
		weights[i] = o.Prob
	}
	i, ok := sampleuv.NewWeighted(weights, s.rand).Take()
	if !ok {
		return nil, false
	}
	return dist[i].State, true
}

// RecordTraces appends the traces as json lines to <dir>/<name>_traces.jsonl
func RecordTraces(dir, name string, traces []*types.Trace) error {
	tracesFile := path.Join(dir, name+"_traces.jsonl")
	lines := make([]string, len(traces))
	for i, trace := range traces {
		bs, err := json.Marshal(trace)
		if err != nil {
			return fmt.Errorf("trace %d: %w", i, err)
		}
		lines[i] = string(bs)
	}
	return util.AppendToFile(tracesFile, lines...)
}
