package vi_test

import (
	"github.com/zeu5/ctrm-reach/ctrm"
	"github.com/zeu5/ctrm-reach/types"
)

// tableEnv is an environment given by explicit tables
type tableEnv struct {
	states      []types.State
	actions     []types.Action
	initial     types.State
	transitions map[string]map[string]types.Distribution
	labels      map[string]types.Label
}

var _ types.Environment = &tableEnv{}

func (e *tableEnv) States() []types.State { return e.states }
func (e *tableEnv) Actions() []types.Action { return e.actions }
func (e *tableEnv) InitialState() types.State { return e.initial }
func (e *tableEnv) Label(s types.State) types.Label { return e.labels[s.Hash()] }

func (e *tableEnv) NextState(s types.State, a types.Action) types.Distribution {
	return e.transitions[s.Hash()][a.Hash()]
}

var (
	s0 = types.StringState("S0")
	s1 = types.StringState("S1")
	s2 = types.StringState("S2")

	left  = types.StringAction("left")
	right = types.StringAction("right")
)

func stay(s types.State) types.Distribution {
	return types.Distribution{{State: s, Prob: 1}}
}

// forkEnv: from S0 `left` leads to a dead end S1 and `right` to the goal S2
func forkEnv() *tableEnv {
	return &tableEnv{
		states:  []types.State{s0, s1, s2},
		actions: []types.Action{left, right},
		initial: s0,
		transitions: map[string]map[string]types.Distribution{
			"S0": {"left": stay(s1), "right": stay(s2)},
			"S1": {"left": stay(s1), "right": stay(s1)},
			"S2": {"left": stay(s2), "right": stay(s2)},
		},
		labels: map[string]types.Label{
			"S0": types.NewLabel(),
			"S1": types.NewLabel(),
			"S2": types.NewLabel("goal"),
		},
	}
}

// twinEnv: both actions lead to the goal in the same way
func twinEnv() *tableEnv {
	env := forkEnv()
	env.transitions["S0"] = map[string]types.Distribution{"left": stay(s2), "right": stay(s2)}
	return env
}

func goalMachine(rates ctrm.RateFunc) *ctrm.CTRM {
	m := ctrm.New("U0").Build().
		On(ctrm.Prop("goal"), "U1").
		MarkAccepting().
		Machine()
	if rates != nil {
		m.WithRates(rates)
	}
	return m
}

// ghostMachine moves to an automaton state it never declared
type ghostMachine struct {
	*ctrm.CTRM
}

func (g ghostMachine) Transition(string, types.Label) string {
	return "ghost"
}
