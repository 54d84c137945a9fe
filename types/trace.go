package types

import "encoding/json"

// Step of a simulated run of the product process
type Step struct {
	Time           int
	State          State
	AutomatonState string
	Action         Action
	NextState      State
	Jumped         bool
}

// Trace of an episode as a sequence of steps
type Trace struct {
	steps []Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]Step, 0),
	}
}

func (t *Trace) Append(step Step) {
	t.steps = append(t.steps, step)
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Get(i int) (Step, bool) {
	if i < 0 || i >= len(t.steps) {
		return Step{}, false
	}
	return t.steps[i], true
}

func (t *Trace) Last() (Step, bool) {
	if len(t.steps) < 1 {
		return Step{}, false
	}
	return t.steps[len(t.steps)-1], true
}

func (t *Trace) Slice(from, to int) *Trace {
	sliced := NewTrace()
	for i := from; i < to && i < len(t.steps); i++ {
		sliced.Append(t.steps[i])
	}
	return sliced
}

type jsonStep struct {
	Time           int    `json:"time"`
	State          string `json:"state"`
	AutomatonState string `json:"automaton_state"`
	Action         string `json:"action,omitempty"`
	NextState      string `json:"next_state"`
	Jumped         bool   `json:"jumped"`
}

// MarshalJSON records the trace by hashes
func (t *Trace) MarshalJSON() ([]byte, error) {
	out := make([]jsonStep, len(t.steps))
	for i, s := range t.steps {
		out[i] = jsonStep{
			Time:           s.Time,
			State:          s.State.Hash(),
			AutomatonState: s.AutomatonState,
			NextState:      s.NextState.Hash(),
			Jumped:         s.Jumped,
		}
		if s.Action != nil {
			out[i].Action = s.Action.Hash()
		}
	}
	return json.Marshal(out)
}
