package vi

import (
	"github.com/zeu5/ctrm-reach/types"
)

// ValueTable stores V(s, u, k) for every product state in a flat array.
// Layer k occupies a contiguous block so that one induction step reads one
// block and writes the next
type ValueTable struct {
	states    []types.State
	automata  []string
	envIndex  map[string]int
	autIndex  map[string]int
	accepting []bool
	numSteps  int

	values []float64
	// index of the maximizing action, -1 when none
	best []int32
}

// NewValueTable creates the table and sets the boundary values:
// 1 for accepting automaton states and 0 otherwise, at every time index
func NewValueTable(states []types.State, automata []string, isAccepting func(string) bool, numSteps int) *ValueTable {
	t := &ValueTable{
		states:    states,
		automata:  automata,
		envIndex:  make(map[string]int, len(states)),
		autIndex:  make(map[string]int, len(automata)),
		accepting: make([]bool, len(automata)),
		numSteps:  numSteps,
	}
	for i, s := range states {
		t.envIndex[s.Hash()] = i
	}
	for i, u := range automata {
		t.autIndex[u] = i
		t.accepting[i] = isAccepting(u)
	}

	size := t.pairs() * numSteps
	t.values = make([]float64, size)
	t.best = make([]int32, size)
	for i := range t.values {
		t.best[i] = -1
		if t.accepting[i%len(automata)] {
			t.values[i] = 1.0
		}
	}
	return t
}

func (t *ValueTable) pairs() int {
	return len(t.states) * len(t.automata)
}

func (t *ValueTable) pair(si, ui int) int {
	return si*len(t.automata) + ui
}

// layer returns the block of time index k
func (t *ValueTable) layer(k int) []float64 {
	n := t.pairs()
	return t.values[k*n : (k+1)*n]
}

func (t *ValueTable) bestLayer(k int) []int32 {
	n := t.pairs()
	return t.best[k*n : (k+1)*n]
}

func (t *ValueTable) index(s types.State, u string, k int) (int, bool) {
	if k < 0 || k >= t.numSteps {
		return 0, false
	}
	si, ok := t.envIndex[s.Hash()]
	if !ok {
		return 0, false
	}
	ui, ok := t.autIndex[u]
	if !ok {
		return 0, false
	}
	return k*t.pairs() + t.pair(si, ui), true
}

// Lookup returns the value of the product state if it is part of the table
func (t *ValueTable) Lookup(s types.State, u string, k int) (float64, bool) {
	i, ok := t.index(s, u, k)
	if !ok {
		return 0, false
	}
	return t.values[i], true
}

// Get returns the value of the product state, 0 when it is not part of the table
func (t *ValueTable) Get(s types.State, u string, k int) float64 {
	v, _ := t.Lookup(s, u, k)
	return v
}

// BestActionIndex returns the index of the maximizing action (in the order
// of Environment.Actions) at the product state, or -1
func (t *ValueTable) BestActionIndex(s types.State, u string, k int) int {
	i, ok := t.index(s, u, k)
	if !ok {
		return -1
	}
	return int(t.best[i])
}

func (t *ValueTable) NumSteps() int {
	return t.numSteps
}

func (t *ValueTable) States() []types.State {
	return t.states
}

func (t *ValueTable) AutomatonStates() []string {
	return t.automata
}

// Size is the number of product states
func (t *ValueTable) Size() int {
	return len(t.values)
}

// Entry of the value table
type Entry struct {
	State     types.State
	Automaton string
	Time      int
	Value     float64
}

// Snapshot returns at most max entries starting from the full time budget layer
func (t *ValueTable) Snapshot(max int) []Entry {
	if max > len(t.values) {
		max = len(t.values)
	}
	if max < 0 {
		max = 0
	}
	out := make([]Entry, 0, max)
	for k := t.numSteps - 1; k >= 0; k-- {
		layer := t.layer(k)
		for si, s := range t.states {
			for ui, u := range t.automata {
				if len(out) >= max {
					return out
				}
				out = append(out, Entry{
					State:     s,
					Automaton: u,
					Time:      k,
					Value:     layer[t.pair(si, ui)],
				})
			}
		}
	}
	return out
}

// Curve returns V(s, u, k) for k = 0..NumSteps-1
func (t *ValueTable) Curve(s types.State, u string) []float64 {
	if _, ok := t.index(s, u, 0); !ok {
		return nil
	}
	curve := make([]float64, t.numSteps)
	for k := range curve {
		curve[k] = t.Get(s, u, k)
	}
	return curve
}
