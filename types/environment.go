package types

// State of the environment (a CTMDP state)
type State interface {
	// Indexed by the Hash
	// Should be deterministic
	Hash() string
}

// An Action the controller can take
type Action interface {
	// Index of the action
	// Should be deterministic
	Hash() string
}

// Outcome is one successor of a (state, action) pair together with its probability
type Outcome struct {
	State State
	Prob  float64
}

// Distribution over successor states.
// Kept as a slice so that summation order is deterministic
type Distribution []Outcome

// Environment is a continuous time Markov decision process without the rates.
// The rates live in the RewardMachine since they depend on the automaton state
type Environment interface {
	// States declared by the environment
	States() []State
	// Actions available in every state
	Actions() []Action
	// InitialState of the environment
	InitialState() State
	// NextState returns the distribution over successors of (state, action).
	// Probabilities should sum to 1
	NextState(State, Action) Distribution
	// Label returns the atomic propositions true in the state
	Label(State) Label
}

// RewardMachine is a counterfactual temporal reward machine (CTRM).
// It observes the labels emitted by the environment and supplies
// the exit rates of the product process
type RewardMachine interface {
	// States of the automaton, declared up front
	States() []string
	InitialState() string
	IsAccepting(string) bool
	// Transition is deterministic
	Transition(string, Label) string
	// Rate is the counterfactual exit rate of (automaton state, environment state, action).
	// A rate of 0 disables the action in that configuration
	Rate(string, State, Action) float64
}

// StringState is a State identified by its name
type StringState string

var _ State = StringState("")

func (s StringState) Hash() string {
	return string(s)
}

// StringAction is an Action identified by its name
type StringAction string

var _ Action = StringAction("")

func (a StringAction) Hash() string {
	return string(a)
}
