package vi

import (
	"time"

	"github.com/zeu5/ctrm-reach/types"
)

// LambdaMaxEvent is emitted every time the rate search finds a new maximum
type LambdaMaxEvent struct {
	Rate      float64
	Automaton string
	State     types.State
	Action    types.Action
}

// DiscretizationEvent is emitted once the time step is known
type DiscretizationEvent struct {
	Horizon   float64
	Epsilon   float64
	LambdaMax float64
	Delta     float64
	NumSteps  int
}

// DiscoveryEvent is emitted after the reachable environment states are enumerated
type DiscoveryEvent struct {
	Policy DiscoveryPolicy
	States []types.State
	// successors outside the discovered set, read as probability 0
	MissingSuccessors int
}

// LayerEvent is emitted after a time layer is completed
type LayerEvent struct {
	Index    int
	NumSteps int
}

// CompleteEvent is emitted at the end of a successful run
type CompleteEvent struct {
	Value         float64
	ProductStates int
	Duration      time.Duration
}

// Hooks observe the progress of a run.
// Any of the callbacks can be nil. They are invoked from the goroutine calling Run
type Hooks struct {
	OnLambdaMax   func(LambdaMaxEvent)
	OnDiscretized func(DiscretizationEvent)
	OnDiscovered  func(DiscoveryEvent)
	OnLayer       func(LayerEvent)
	OnComplete    func(CompleteEvent)
}

// Merge returns hooks that call h first and then other
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnLambdaMax:   chain(h.OnLambdaMax, other.OnLambdaMax),
		OnDiscretized: chain(h.OnDiscretized, other.OnDiscretized),
		OnDiscovered:  chain(h.OnDiscovered, other.OnDiscovered),
		OnLayer:       chain(h.OnLayer, other.OnLayer),
		OnComplete:    chain(h.OnComplete, other.OnComplete),
	}
}

func chain[E any](first, second func(E)) func(E) {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(e E) {
		first(e)
		second(e)
	}
}

func emit[E any](f func(E), e E) {
	if f != nil {
		f(e)
	}
}
