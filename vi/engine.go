package vi

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/zeu5/ctrm-reach/types"
	"golang.org/x/sync/errgroup"
)

// Config of the value iteration engine
type Config struct {
	// Discovery policy used to enumerate the environment states
	Discovery DiscoveryPolicy
	// Workers computing one time layer in parallel, 1 or less is sequential
	Workers int
	// MaxSteps bounds the number of time layers, 0 means no bound
	MaxSteps int
	// Strict turns successors outside the discovered states into ErrUnreachableState
	// instead of reading them as probability 0
	Strict bool
	Hooks  Hooks
}

func DefaultConfig() *Config {
	return &Config{
		Discovery: DiscoverFirstAction,
		Workers:   1,
	}
}

// Engine computes the maximum probability of reaching an accepting state of the
// reward machine within a time horizon by backward induction over a discretized
// product of environment states, automaton states and time indices.
// An engine owns its value table; run separate engines for concurrent runs
type Engine struct {
	config *Config

	disc    Discretization
	rates   RateModel
	actions []types.Action
	table   *ValueTable
	value   float64
}

func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		config: config,
	}
}

type successor struct {
	// pair index of (s', u'), -1 when s' was not discovered
	pair int
	prob float64
}

type actionPlan struct {
	action      int32
	transProb   float64
	noTransProb float64
	successors  []successor
}

type pairPlan struct {
	pair      int
	accepting bool
	// only actions with a nonzero rate, in the order of Environment.Actions
	actions []actionPlan
}

// Run computes V(initial state, initial automaton state, numSteps-1).
// No results are kept when an error is returned
func (e *Engine) Run(ctx context.Context, env types.Environment, rm types.RewardMachine, horizon, epsilon float64) (float64, error) {
	start := time.Now()
	hooks := e.config.Hooks

	rates, err := MaxRate(env, rm, hooks)
	if err != nil {
		return 0, err
	}
	disc, err := Discretize(horizon, epsilon, rates.LambdaMax, e.config.MaxSteps)
	if err != nil {
		return 0, err
	}
	emit(hooks.OnDiscretized, DiscretizationEvent{
		Horizon:   disc.Horizon,
		Epsilon:   disc.Epsilon,
		LambdaMax: disc.LambdaMax,
		Delta:     disc.Delta,
		NumSteps:  disc.NumSteps,
	})

	states, err := Discover(env, e.config.Discovery)
	if err != nil {
		return 0, err
	}
	table := NewValueTable(states, rm.States(), rm.IsAccepting, disc.NumSteps)

	plans, missing, err := e.compile(env, rm, table, disc.Delta)
	if err != nil {
		return 0, err
	}
	emit(hooks.OnDiscovered, DiscoveryEvent{
		Policy:            e.config.Discovery,
		States:            states,
		MissingSuccessors: missing,
	})

	if err := e.induction(ctx, table, plans); err != nil {
		return 0, err
	}

	value := table.Get(env.InitialState(), rm.InitialState(), disc.NumSteps-1)

	e.disc = disc
	e.rates = rates
	e.actions = env.Actions()
	e.table = table
	e.value = value

	emit(hooks.OnComplete, CompleteEvent{
		Value:         value,
		ProductStates: table.Size(),
		Duration:      time.Since(start),
	})
	return value, nil
}

// compile resolves every successor of every (s, u) pair to a pair index once,
// since neither the transitions nor the rates depend on the time index
func (e *Engine) compile(env types.Environment, rm types.RewardMachine, table *ValueTable, delta float64) ([]pairPlan, int, error) {
	actions := env.Actions()
	plans := make([]pairPlan, 0, table.pairs())
	missing := 0

	for si, s := range table.states {
		// the automaton observes the label of the state being left
		label := env.Label(s)
		for ui, u := range table.automata {
			plan := pairPlan{
				pair:      table.pair(si, ui),
				accepting: table.accepting[ui],
				actions:   make([]actionPlan, 0, len(actions)),
			}
			if plan.accepting {
				plans = append(plans, plan)
				continue
			}

			nextU := rm.Transition(u, label)
			nextUI, ok := table.autIndex[nextU]
			if !ok {
				return nil, 0, fmt.Errorf("%w: automaton state %q reached from (%s, %s) is not declared", ErrUnreachableState, nextU, u, s.Hash())
			}

			for ai, a := range actions {
				rate := rm.Rate(u, s, a)
				if rate < 0 || math.IsNaN(rate) {
					return nil, 0, fmt.Errorf("%w: rate %v at (%s, %s, %s)", ErrInvalidParameter, rate, u, s.Hash(), a.Hash())
				}
				if rate == 0 {
					continue
				}
				noTransProb := math.Exp(-rate * delta)
				ap := actionPlan{
					action:      int32(ai),
					transProb:   1 - noTransProb,
					noTransProb: noTransProb,
				}
				for _, o := range env.NextState(s, a) {
					next := successor{pair: -1, prob: o.Prob}
					if nextSI, ok := table.envIndex[o.State.Hash()]; ok {
						next.pair = table.pair(nextSI, nextUI)
					} else if e.config.Strict {
						return nil, 0, fmt.Errorf("%w: successor %s of (%s, %s) was not discovered", ErrUnreachableState, o.State.Hash(), s.Hash(), a.Hash())
					} else {
						missing++
					}
					ap.successors = append(ap.successors, next)
				}
				plan.actions = append(plan.actions, ap)
			}
			plans = append(plans, plan)
		}
	}
	return plans, missing, nil
}

// induction fills the layers 1..numSteps-1 in increasing order.
// Layer k only reads layer k-1, so the pairs of one layer are split between workers
func (e *Engine) induction(ctx context.Context, table *ValueTable, plans []pairPlan) error {
	workers := e.config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(plans) {
		workers = len(plans)
	}
	chunk := (len(plans) + workers - 1) / workers

	for k := 1; k < table.numSteps; k++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("induction stopped at layer %d: %w", k, err)
		}
		prev := table.layer(k - 1)
		cur := table.layer(k)
		best := table.bestLayer(k)

		if workers == 1 {
			updateLayer(plans, prev, cur, best)
		} else {
			var g errgroup.Group
			for lo := 0; lo < len(plans); lo += chunk {
				hi := lo + chunk
				if hi > len(plans) {
					hi = len(plans)
				}
				part := plans[lo:hi]
				g.Go(func() error {
					updateLayer(part, prev, cur, best)
					return nil
				})
			}
			_ = g.Wait()
		}
		emit(e.config.Hooks.OnLayer, LayerEvent{Index: k, NumSteps: table.numSteps})
	}
	return nil
}

func updateLayer(plans []pairPlan, prev, cur []float64, best []int32) {
	for _, p := range plans {
		if p.accepting {
			continue
		}
		maxValue := -1.0
		bestAction := int32(-1)
		same := prev[p.pair]
		for _, ap := range p.actions {
			actionValue := 0.0
			for _, next := range ap.successors {
				future := 0.0
				if next.pair >= 0 {
					future = prev[next.pair]
				}
				actionValue += next.prob * (ap.transProb*future + ap.noTransProb*same)
			}
			// first maximal action wins
			if actionValue > maxValue {
				maxValue = actionValue
				bestAction = ap.action
			}
		}
		if maxValue < 0 {
			maxValue = 0
		}
		cur[p.pair] = maxValue
		best[p.pair] = bestAction
	}
}

// Delta is the discretization step of the last successful run
func (e *Engine) Delta() float64 {
	return e.disc.Delta
}

// NumSteps is the number of time layers of the last successful run
func (e *Engine) NumSteps() int {
	return e.disc.NumSteps
}

func (e *Engine) LambdaMax() float64 {
	return e.disc.LambdaMax
}

func (e *Engine) Discretization() Discretization {
	return e.disc
}

func (e *Engine) RateModel() RateModel {
	return e.rates
}

// Result is the value computed by the last successful run
func (e *Engine) Result() float64 {
	return e.value
}

// Table is nil until a run succeeds
func (e *Engine) Table() *ValueTable {
	return e.table
}

// States discovered by the last successful run
func (e *Engine) States() []types.State {
	if e.table == nil {
		return nil
	}
	return e.table.States()
}

// Value returns V(s, u, k), 0 for product states outside the table
func (e *Engine) Value(s types.State, u string, k int) float64 {
	if e.table == nil {
		return 0
	}
	return e.table.Get(s, u, k)
}

// BestAction returns the maximizing action at (s, u, k).
// False when the product state is accepting, unknown or has no enabled action
func (e *Engine) BestAction(s types.State, u string, k int) (types.Action, bool) {
	if e.table == nil {
		return nil, false
	}
	i := e.table.BestActionIndex(s, u, k)
	if i < 0 || i >= len(e.actions) {
		return nil, false
	}
	return e.actions[i], true
}

// Snapshot returns at most max entries of the value table, for diagnostics
func (e *Engine) Snapshot(max int) []Entry {
	if e.table == nil {
		return nil
	}
	return e.table.Snapshot(max)
}
