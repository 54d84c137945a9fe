package grid

import (
	"fmt"

	"github.com/zeu5/ctrm-reach/types"
)

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// GridEnvironment is a slippery grid: a movement goes in the intended direction
// with probability 1-Slip and to one of the two perpendicular directions otherwise.
// Moving into a wall keeps the robot in place
type GridEnvironment struct {
	Height int
	Width  int
	Slip   float64
	Start  Position
	labels map[Position][]string
}

var _ types.Environment = &GridEnvironment{}

func NewGridEnvironment(height, width int, slip float64) *GridEnvironment {
	return &GridEnvironment{
		Height: height,
		Width:  width,
		Slip:   slip,
		Start:  Position{0, 0},
		labels: make(map[Position][]string),
	}
}

// Mark adds the propositions to the label of the cell
func (g *GridEnvironment) Mark(p Position, props ...string) *GridEnvironment {
	g.labels[p] = append(g.labels[p], props...)
	return g
}

func (g *GridEnvironment) States() []types.State {
	states := make([]types.State, 0, g.Height*g.Width)
	for i := 0; i < g.Height; i++ {
		for j := 0; j < g.Width; j++ {
			states = append(states, &Position{I: i, J: j})
		}
	}
	return states
}

func (g *GridEnvironment) Actions() []types.Action {
	return AllMovements
}

func (g *GridEnvironment) InitialState() types.State {
	return &Position{I: g.Start.I, J: g.Start.J}
}

func (g *GridEnvironment) Label(s types.State) types.Label {
	pos := s.(*Position)
	return types.NewLabel(g.labels[*pos]...)
}

func (g *GridEnvironment) move(p Position, direction string) Position {
	next := p
	switch direction {
	case "Up":
		next.I = min(g.Height-1, p.I+1)
	case "Down":
		next.I = max(0, p.I-1)
	case "Left":
		next.J = max(0, p.J-1)
	case "Right":
		next.J = min(g.Width-1, p.J+1)
	}
	return next
}

func (g *GridEnvironment) NextState(s types.State, a types.Action) types.Distribution {
	pos := *s.(*Position)
	movement := a.(*Movement)

	probs := make(map[Position]float64)
	order := make([]Position, 0, 3)
	add := func(p Position, prob float64) {
		if prob == 0 {
			return
		}
		if _, ok := probs[p]; !ok {
			order = append(order, p)
		}
		probs[p] += prob
	}
	add(g.move(pos, movement.Direction), 1-g.Slip)
	for _, side := range perpendicular[movement.Direction] {
		add(g.move(pos, side), g.Slip/2)
	}

	dist := make(types.Distribution, len(order))
	for i, p := range order {
		dist[i] = types.Outcome{State: &Position{I: p.I, J: p.J}, Prob: probs[p]}
	}
	return dist
}

type Position struct {
	I int
	J int
}

var _ types.State = &Position{}

func (p *Position) Hash() string {
	return fmt.Sprintf("(%d, %d)", p.I, p.J)
}

func (p *Position) Eq(other Position) bool {
	return p.I == other.I && p.J == other.J
}

type Movement struct {
	Direction string
}

var _ types.Action = &Movement{}

func (m *Movement) Hash() string {
	return m.Direction
}

var (
	MovementUp                   = &Movement{"Up"}
	MovementDown                 = &Movement{"Down"}
	MovementLeft                 = &Movement{"Left"}
	MovementRight                = &Movement{"Right"}
	AllMovements  []types.Action = []types.Action{
		MovementUp,
		MovementDown,
		MovementLeft,
		MovementRight,
	}

	perpendicular = map[string][]string{
		"Up":    {"Left", "Right"},
		"Down":  {"Left", "Right"},
		"Left":  {"Up", "Down"},
		"Right": {"Up", "Down"},
	}
)
