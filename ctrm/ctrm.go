package ctrm

import (
	"github.com/zeu5/ctrm-reach/types"
)

// RateFunc is the counterfactual rate model of a reward machine
type RateFunc func(string, types.State, types.Action) float64

// MachineState is a state of the reward machine
// Use Builder to create states (do not instantiate directly)
type MachineState struct {
	Name      string
	Accepting bool
	// transitions are checked in the order they were added
	transitions []transition
}

type transition struct {
	cond Condition
	next string
}

// CTRM is a counterfactual temporal reward machine.
// Transitions are guarded by conditions on labels and a state without
// an enabled transition loops on itself
type CTRM struct {
	initial string
	order   []string
	states  map[string]*MachineState
	rates   RateFunc
}

var _ types.RewardMachine = &CTRM{}

// New creates a reward machine with the given initial state.
// All rates default to 1 until WithRates is called
func New(initial string) *CTRM {
	c := &CTRM{
		initial: initial,
		order:   make([]string, 0),
		states:  make(map[string]*MachineState),
		rates: func(string, types.State, types.Action) float64 {
			return 1
		},
	}
	c.add(initial)
	return c
}

func (c *CTRM) add(name string) *MachineState {
	if s, ok := c.states[name]; ok {
		return s
	}
	s := &MachineState{
		Name:        name,
		transitions: make([]transition, 0),
	}
	c.states[name] = s
	c.order = append(c.order, name)
	return s
}

// Build returns a Builder indexed at the initial state
func (c *CTRM) Build() *Builder {
	return c.At(c.initial)
}

// At returns a Builder indexed at the state, creating it if needed
func (c *CTRM) At(name string) *Builder {
	return &Builder{
		machine:  c,
		curState: c.add(name),
	}
}

// WithRates sets the counterfactual rate model
func (c *CTRM) WithRates(rates RateFunc) *CTRM {
	c.rates = rates
	return c
}

// States in the order they were declared
func (c *CTRM) States() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *CTRM) InitialState() string {
	return c.initial
}

func (c *CTRM) IsAccepting(name string) bool {
	s, ok := c.states[name]
	return ok && s.Accepting
}

// Transition takes the first transition whose condition holds on the label
func (c *CTRM) Transition(name string, label types.Label) string {
	s, ok := c.states[name]
	if !ok {
		return name
	}
	for _, t := range s.transitions {
		if t.cond(label) {
			return t.next
		}
	}
	return name
}

func (c *CTRM) Rate(name string, s types.State, a types.Action) float64 {
	return c.rates(name, s, a)
}

// Builder encodes a Builder pattern to create the reward machine.
// The builder is indexed at a particular state of the machine
type Builder struct {
	machine  *CTRM
	curState *MachineState
}

// On defines a transition from the current state to next guarded by cond and
// returns a new builder indexed at the next state.
// To construct a chain of states one can call b.On().On().On()...
// If `next` is not part of the machine it is created, otherwise the existing state is indexed
func (b *Builder) On(cond Condition, next string) *Builder {
	nextState := b.machine.add(next)
	b.curState.transitions = append(b.curState.transitions, transition{cond: cond, next: next})
	return &Builder{
		machine:  b.machine,
		curState: nextState,
	}
}

// MarkAccepting marks the state indexed at this builder as accepting
func (b *Builder) MarkAccepting() *Builder {
	b.curState.Accepting = true
	return b
}

// Machine returns the reward machine being built
func (b *Builder) Machine() *CTRM {
	return b.machine
}
