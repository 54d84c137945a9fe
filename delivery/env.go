package delivery

import (
	"github.com/zeu5/ctrm-reach/types"
)

var (
	Start  = types.StringState("S0")
	Pickup = types.StringState("S1")
	Goal   = types.StringState("S2")

	Move types.Action = types.StringAction("move")
)

// Environment of the hurried delivery robot.
// The robot moves from the start to the package pickup, from where it either
// reaches the goal or is sent back to the start
type Environment struct {
	// probability of going back to the start from the pickup
	ReturnProb float64
}

var _ types.Environment = &Environment{}

func NewEnvironment() *Environment {
	return &Environment{ReturnProb: 0.1}
}

func (e *Environment) States() []types.State {
	return []types.State{Start, Pickup, Goal}
}

func (e *Environment) Actions() []types.Action {
	return []types.Action{Move}
}

func (e *Environment) InitialState() types.State {
	return Start
}

func (e *Environment) NextState(s types.State, _ types.Action) types.Distribution {
	switch s.Hash() {
	case Start.Hash():
		return types.Distribution{{State: Pickup, Prob: 1.0}}
	case Pickup.Hash():
		return types.Distribution{
			{State: Start, Prob: e.ReturnProb},
			{State: Goal, Prob: 1 - e.ReturnProb},
		}
	case Goal.Hash():
		return types.Distribution{{State: Goal, Prob: 1.0}}
	}
	return types.Distribution{}
}

func (e *Environment) Label(s types.State) types.Label {
	switch s.Hash() {
	case Pickup.Hash():
		return types.NewLabel("package")
	case Goal.Hash():
		return types.NewLabel("goal")
	}
	return types.NewLabel()
}
