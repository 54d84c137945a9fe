package vi

import (
	"fmt"
	"math"

	"github.com/zeu5/ctrm-reach/types"
)

// RateModel is the result of the exhaustive rate search
type RateModel struct {
	LambdaMax float64
	// witness of the maximum
	Automaton string
	State     types.State
	Action    types.Action
}

// MaxRate reads the rate of every (automaton state, environment state, action)
// triple and returns the maximum. Negative or non finite rates are rejected
func MaxRate(env types.Environment, rm types.RewardMachine, hooks Hooks) (RateModel, error) {
	model := RateModel{}
	for _, u := range rm.States() {
		for _, s := range env.States() {
			for _, a := range env.Actions() {
				rate := rm.Rate(u, s, a)
				if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
					return RateModel{}, fmt.Errorf("%w: rate %v at (%s, %s, %s)", ErrInvalidParameter, rate, u, s.Hash(), a.Hash())
				}
				if rate > model.LambdaMax {
					model = RateModel{
						LambdaMax: rate,
						Automaton: u,
						State:     s,
						Action:    a,
					}
					emit(hooks.OnLambdaMax, LambdaMaxEvent{Rate: rate, Automaton: u, State: s, Action: a})
				}
			}
		}
	}
	return model, nil
}
