package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceSliceAndLast(t *testing.T) {
	trace := NewTrace()
	for i := 0; i < 4; i++ {
		trace.Append(Step{Time: i, State: StringState("S0"), AutomatonState: "U0", NextState: StringState("S1")})
	}
	assert.Equal(t, 4, trace.Len())

	sliced := trace.Slice(1, 3)
	require.Equal(t, 2, sliced.Len())
	first, ok := sliced.Get(0)
	require.True(t, ok)
	assert.Equal(t, 1, first.Time)

	last, ok := trace.Last()
	require.True(t, ok)
	assert.Equal(t, 3, last.Time)

	_, ok = trace.Get(10)
	assert.False(t, ok)
	_, ok = NewTrace().Last()
	assert.False(t, ok)
}

func TestTraceMarshal(t *testing.T) {
	trace := NewTrace()
	trace.Append(Step{Time: 5, State: StringState("S1"), AutomatonState: "U1", Action: StringAction("move"), NextState: StringState("S2"), Jumped: true})
	bs, err := json.Marshal(trace)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"time":5,"state":"S1","automaton_state":"U1","action":"move","next_state":"S2","jumped":true}]`, string(bs))
}

func TestLabel(t *testing.T) {
	l := NewLabel("goal", "package")
	assert.True(t, l.Has("goal"))
	assert.False(t, l.Has("start"))
	assert.Equal(t, []string{"goal", "package"}, l.Props())
	assert.Equal(t, "{goal,package}", l.String())
	assert.Equal(t, "{}", NewLabel().String())
}
