package grid

import (
	"github.com/zeu5/ctrm-reach/ctrm"
	"github.com/zeu5/ctrm-reach/types"
)

const (
	Searching = "Searching"
	Carrying  = "Carrying"
	Delivered = "Delivered"
	Crashed   = "Crashed"
)

// Scenario is a delivery task on the grid: pick up the package, bring it to the
// goal and never enter a hazard cell
type Scenario struct {
	Package Position
	Goal    Position
	Hazards []Position
	// cells where movements are slower
	Congested []Position
}

// DefaultScenario places the package and the goal in opposite corners
// with a hazard wall in between
func DefaultScenario(height, width int) Scenario {
	hazards := make([]Position, 0)
	for i := 1; i < height-1; i++ {
		hazards = append(hazards, Position{I: i, J: width / 2})
	}
	return Scenario{
		Package:   Position{I: height - 1, J: 0},
		Goal:      Position{I: height - 1, J: width - 1},
		Hazards:   hazards,
		Congested: []Position{{I: height - 1, J: width / 2}},
	}
}

// Environment builds the labelled grid of the scenario
func (s Scenario) Environment(height, width int, slip float64) *GridEnvironment {
	env := NewGridEnvironment(height, width, slip)
	env.Mark(s.Package, "package")
	env.Mark(s.Goal, "goal")
	for _, h := range s.Hazards {
		env.Mark(h, "hazard")
	}
	return env
}

// Machine builds the reward machine of the scenario.
// Movements are twice as fast once the package is collected,
// congested cells halve the rate and nothing happens after a crash
func (s Scenario) Machine() *ctrm.CTRM {
	hazard := ctrm.Prop("hazard")
	machine := ctrm.New(Searching)
	machine.At(Searching).On(hazard, Crashed)
	machine.At(Searching).On(ctrm.Prop("package"), Carrying)
	machine.At(Carrying).On(hazard, Crashed)
	machine.At(Carrying).On(ctrm.Prop("goal"), Delivered).MarkAccepting()

	congested := make(map[string]bool)
	for _, c := range s.Congested {
		congested[c.Hash()] = true
	}
	return machine.WithRates(func(u string, st types.State, _ types.Action) float64 {
		rate := 1.0
		switch u {
		case Carrying:
			rate = 2.0
		case Crashed:
			return 0
		}
		if congested[st.Hash()] {
			rate /= 2
		}
		return rate
	})
}
