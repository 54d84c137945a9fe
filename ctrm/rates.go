package ctrm

import (
	"fmt"

	"github.com/zeu5/ctrm-reach/types"
)

type stateKey struct {
	automaton string
	env       string
}

type actionKey struct {
	automaton string
	env       string
	action    string
}

// RateTable is a RateFunc built from overrides.
// Lookups go from the most specific entry to the least specific one:
// (automaton, env, action), (automaton, env), env, default
type RateTable struct {
	def       float64
	perEnv    map[string]float64
	perState  map[stateKey]float64
	perAction map[actionKey]float64
}

// NewRateTable creates a table where every rate is def
func NewRateTable(def float64) *RateTable {
	return &RateTable{
		def:       def,
		perEnv:    make(map[string]float64),
		perState:  make(map[stateKey]float64),
		perAction: make(map[actionKey]float64),
	}
}

// ForEnv overrides the rate of every automaton state in the environment state
func (r *RateTable) ForEnv(env string, rate float64) *RateTable {
	r.perEnv[env] = rate
	return r
}

// For overrides the rate of the (automaton state, environment state) pair
func (r *RateTable) For(automaton, env string, rate float64) *RateTable {
	r.perState[stateKey{automaton, env}] = rate
	return r
}

// ForAction overrides the rate of a single (automaton state, environment state, action) triple
func (r *RateTable) ForAction(automaton, env, action string, rate float64) *RateTable {
	r.perAction[actionKey{automaton, env, action}] = rate
	return r
}

// Validate checks that no rate is negative
func (r *RateTable) Validate() error {
	if r.def < 0 {
		return fmt.Errorf("negative default rate %f", r.def)
	}
	for k, v := range r.perEnv {
		if v < 0 {
			return fmt.Errorf("negative rate %f for env state %s", v, k)
		}
	}
	for k, v := range r.perState {
		if v < 0 {
			return fmt.Errorf("negative rate %f for (%s, %s)", v, k.automaton, k.env)
		}
	}
	for k, v := range r.perAction {
		if v < 0 {
			return fmt.Errorf("negative rate %f for (%s, %s, %s)", v, k.automaton, k.env, k.action)
		}
	}
	return nil
}

func (r *RateTable) Rate(automaton string, s types.State, a types.Action) float64 {
	env := s.Hash()
	if rate, ok := r.perAction[actionKey{automaton, env, a.Hash()}]; ok {
		return rate
	}
	if rate, ok := r.perState[stateKey{automaton, env}]; ok {
		return rate
	}
	if rate, ok := r.perEnv[env]; ok {
		return rate
	}
	return r.def
}

// Func returns the table as a RateFunc
func (r *RateTable) Func() RateFunc {
	return r.Rate
}
