package vi

import (
	"fmt"
	"strings"

	"github.com/zeu5/ctrm-reach/types"
)

// DiscoveryPolicy selects which actions are followed when enumerating states
type DiscoveryPolicy int

const (
	// DiscoverFirstAction follows only the first action of the environment.
	// States reachable only through other actions are missed
	DiscoverFirstAction DiscoveryPolicy = iota
	// DiscoverAllActions follows the union of the successors of every action
	DiscoverAllActions
)

func (p DiscoveryPolicy) String() string {
	switch p {
	case DiscoverFirstAction:
		return "first"
	case DiscoverAllActions:
		return "all"
	}
	return fmt.Sprintf("DiscoveryPolicy(%d)", int(p))
}

// ParseDiscoveryPolicy accepts "first" or "all"
func ParseDiscoveryPolicy(s string) (DiscoveryPolicy, error) {
	switch strings.ToLower(s) {
	case "first", "first-action":
		return DiscoverFirstAction, nil
	case "all", "all-actions":
		return DiscoverAllActions, nil
	}
	return 0, fmt.Errorf("%w: unknown discovery policy %q", ErrInvalidParameter, s)
}

// Discover enumerates the environment states reachable from the initial state
// by breadth first search over the support of the successor distributions.
// States are returned in the order they were discovered
func Discover(env types.Environment, policy DiscoveryPolicy) ([]types.State, error) {
	actions := env.Actions()
	if len(actions) == 0 {
		return nil, fmt.Errorf("%w: environment has no actions", ErrInvalidParameter)
	}
	if policy == DiscoverFirstAction {
		actions = actions[:1]
	}

	initial := env.InitialState()
	visited := map[string]bool{initial.Hash(): true}
	states := []types.State{initial}
	queue := []types.State{initial}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, a := range actions {
			for _, o := range env.NextState(cur, a) {
				key := o.State.Hash()
				if visited[key] {
					continue
				}
				visited[key] = true
				states = append(states, o.State)
				queue = append(queue, o.State)
			}
		}
	}
	return states, nil
}
