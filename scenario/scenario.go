// Package scenario loads a finite CTMDP and its reward machine from a YAML file.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/zeu5/ctrm-reach/ctrm"
	"github.com/zeu5/ctrm-reach/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario wraps every validation failure of a scenario file
var ErrInvalidScenario = errors.New("invalid scenario")

// probabilities of one distribution must sum to 1 within this tolerance
const probTolerance = 1e-9

type Outcome struct {
	To   string  `yaml:"to"`
	Prob float64 `yaml:"prob"`
}

type StateSpec struct {
	Name   string   `yaml:"name"`
	Labels []string `yaml:"labels"`
	// action -> successors. A missing action has no successors
	Next map[string][]Outcome `yaml:"next"`
}

type EnvironmentSpec struct {
	Initial string      `yaml:"initial"`
	Actions []string    `yaml:"actions"`
	States  []StateSpec `yaml:"states"`
}

type TransitionSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	// propositions that must all be in the label
	On []string `yaml:"on"`
	// propositions that must not be in the label
	Unless []string `yaml:"unless"`
}

type RateOverride struct {
	Automaton string  `yaml:"automaton"`
	State     string  `yaml:"state"`
	Action    string  `yaml:"action"`
	Rate      float64 `yaml:"rate"`
}

type RatesSpec struct {
	// rate of every triple without an override, 1 when absent
	Default   *float64           `yaml:"default"`
	Env       map[string]float64 `yaml:"env"`
	Overrides []RateOverride     `yaml:"overrides"`
}

type AutomatonSpec struct {
	Initial     string           `yaml:"initial"`
	States      []string         `yaml:"states"`
	Accepting   []string         `yaml:"accepting"`
	Transitions []TransitionSpec `yaml:"transitions"`
	Rates       RatesSpec        `yaml:"rates"`
}

// Scenario as written in the file
type Scenario struct {
	Name        string          `yaml:"name"`
	Horizon     float64         `yaml:"horizon"`
	Epsilon     float64         `yaml:"epsilon"`
	Horizons    []float64       `yaml:"horizons"`
	Environment EnvironmentSpec `yaml:"environment"`
	Automaton   AutomatonSpec   `yaml:"automaton"`
}

// Load reads and validates the scenario file
func Load(path string) (*Scenario, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	return Parse(bs)
}

// Parse decodes and validates a scenario
func Parse(bs []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(bs, s); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidScenario, fmt.Sprintf(format, args...))
}

// Validate checks that every reference is declared, distributions sum to 1 and rates are not negative
func (s *Scenario) Validate() error {
	env := s.Environment
	if len(env.Actions) == 0 {
		return invalid("environment declares no actions")
	}
	actions := make(map[string]bool)
	for _, a := range env.Actions {
		if actions[a] {
			return invalid("duplicate action %q", a)
		}
		actions[a] = true
	}
	states := make(map[string]bool)
	for _, st := range env.States {
		if st.Name == "" {
			return invalid("environment state without a name")
		}
		if states[st.Name] {
			return invalid("duplicate environment state %q", st.Name)
		}
		states[st.Name] = true
	}
	if !states[env.Initial] {
		return invalid("initial environment state %q is not declared", env.Initial)
	}
	for _, st := range env.States {
		for action, outcomes := range st.Next {
			if !actions[action] {
				return invalid("state %q uses undeclared action %q", st.Name, action)
			}
			probs := make([]float64, len(outcomes))
			for i, o := range outcomes {
				if !states[o.To] {
					return invalid("state %q action %q leads to undeclared state %q", st.Name, action, o.To)
				}
				if o.Prob < 0 {
					return invalid("state %q action %q has negative probability", st.Name, action)
				}
				probs[i] = o.Prob
			}
			if len(probs) > 0 && !scalar.EqualWithinAbs(floats.Sum(probs), 1, probTolerance) {
				return invalid("state %q action %q probabilities sum to %v", st.Name, action, floats.Sum(probs))
			}
		}
	}

	aut := s.Automaton
	autStates := make(map[string]bool)
	for _, u := range aut.States {
		if autStates[u] {
			return invalid("duplicate automaton state %q", u)
		}
		autStates[u] = true
	}
	if !autStates[aut.Initial] {
		return invalid("initial automaton state %q is not declared", aut.Initial)
	}
	for _, u := range aut.Accepting {
		if !autStates[u] {
			return invalid("accepting state %q is not declared", u)
		}
	}
	for _, t := range aut.Transitions {
		if !autStates[t.From] || !autStates[t.To] {
			return invalid("transition %s -> %s uses undeclared automaton states", t.From, t.To)
		}
	}
	if err := s.rates().Validate(); err != nil {
		return invalid("%s", err)
	}
	for _, o := range aut.Rates.Overrides {
		if o.Automaton == "" || o.State == "" {
			return invalid("rate override needs an automaton and an environment state")
		}
	}
	if s.Horizon < 0 || s.Epsilon < 0 {
		return invalid("horizon and epsilon cannot be negative")
	}
	return nil
}

func (s *Scenario) rates() *ctrm.RateTable {
	spec := s.Automaton.Rates
	def := 1.0
	if spec.Default != nil {
		def = *spec.Default
	}
	table := ctrm.NewRateTable(def)
	for env, rate := range spec.Env {
		table.ForEnv(env, rate)
	}
	for _, o := range spec.Overrides {
		if o.Action != "" {
			table.ForAction(o.Automaton, o.State, o.Action, o.Rate)
		} else {
			table.For(o.Automaton, o.State, o.Rate)
		}
	}
	return table
}

func condition(t TransitionSpec) ctrm.Condition {
	cond := ctrm.Always()
	for _, p := range t.On {
		cond = cond.And(ctrm.Prop(p))
	}
	for _, p := range t.Unless {
		cond = cond.And(ctrm.Prop(p).Not())
	}
	return cond
}

// Machine builds the reward machine. Transitions keep the file order
func (s *Scenario) Machine() *ctrm.CTRM {
	aut := s.Automaton
	machine := ctrm.New(aut.Initial)
	for _, u := range aut.States {
		machine.At(u)
	}
	for _, u := range aut.Accepting {
		machine.At(u).MarkAccepting()
	}
	for _, t := range aut.Transitions {
		machine.At(t.From).On(condition(t), t.To)
	}
	return machine.WithRates(s.rates().Func())
}

// NewEnvironment builds the table environment
func (s *Scenario) NewEnvironment() *Environment {
	spec := s.Environment
	env := &Environment{
		initial: types.StringState(spec.Initial),
		states:  make([]types.State, len(spec.States)),
		actions: make([]types.Action, len(spec.Actions)),
		next:    make(map[string]map[string]types.Distribution),
		labels:  make(map[string]types.Label),
	}
	for i, a := range spec.Actions {
		env.actions[i] = types.StringAction(a)
	}
	for i, st := range spec.States {
		env.states[i] = types.StringState(st.Name)
		env.labels[st.Name] = types.NewLabel(st.Labels...)
		env.next[st.Name] = make(map[string]types.Distribution)
		for action, outcomes := range st.Next {
			dist := make(types.Distribution, len(outcomes))
			for j, o := range outcomes {
				dist[j] = types.Outcome{State: types.StringState(o.To), Prob: o.Prob}
			}
			env.next[st.Name][action] = dist
		}
	}
	return env
}

// Environment given by the tables of a scenario file
type Environment struct {
	initial types.State
	states  []types.State
	actions []types.Action
	next    map[string]map[string]types.Distribution
	labels  map[string]types.Label
}

var _ types.Environment = &Environment{}

func (e *Environment) States() []types.State {
	return e.states
}

func (e *Environment) Actions() []types.Action {
	return e.actions
}

func (e *Environment) InitialState() types.State {
	return e.initial
}

func (e *Environment) NextState(s types.State, a types.Action) types.Distribution {
	return e.next[s.Hash()][a.Hash()]
}

func (e *Environment) Label(s types.State) types.Label {
	if l, ok := e.labels[s.Hash()]; ok {
		return l
	}
	return types.NewLabel()
}
