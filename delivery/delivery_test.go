package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeu5/ctrm-reach/types"
	"gonum.org/v1/gonum/floats"
)

func TestDistributions(t *testing.T) {
	env := NewEnvironment()
	for _, s := range env.States() {
		dist := env.NextState(s, Move)
		probs := make([]float64, len(dist))
		for i, o := range dist {
			probs[i] = o.Prob
		}
		assert.InDelta(t, 1.0, floats.Sum(probs), 1e-12, "state %s", s.Hash())
	}
	assert.Empty(t, env.NextState(types.StringState("S9"), Move))
}

func TestLabels(t *testing.T) {
	env := NewEnvironment()
	assert.Equal(t, "{}", env.Label(Start).String())
	assert.True(t, env.Label(Pickup).Has("package"))
	assert.True(t, env.Label(Goal).Has("goal"))
}

func TestMachine(t *testing.T) {
	env := NewEnvironment()
	m := NewMachine()
	assert.Equal(t, []string{Looking, HasPackage, Delivered}, m.States())
	assert.True(t, m.IsAccepting(Delivered))

	assert.Equal(t, HasPackage, m.Transition(Looking, env.Label(Pickup)))
	assert.Equal(t, Looking, m.Transition(Looking, env.Label(Goal)))
	assert.Equal(t, Delivered, m.Transition(HasPackage, env.Label(Goal)))
	assert.Equal(t, Delivered, m.Transition(Delivered, env.Label(Start)))

	assert.Equal(t, 0.5, m.Rate(Looking, Pickup, Move))
	assert.Equal(t, 0.5, m.Rate(HasPackage, Pickup, Move))
	assert.Equal(t, 2.0, m.Rate(HasPackage, Goal, Move))
	assert.Equal(t, 1.0, m.Rate(Looking, Goal, Move))
	assert.Equal(t, 1.0, m.Rate(Delivered, Start, Move))
}
