// Package analysis runs families of value iteration instances and checks and
// plots their results.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/zeu5/ctrm-reach/types"
	"github.com/zeu5/ctrm-reach/vi"
)

// SweepPoint is the outcome of one time horizon
type SweepPoint struct {
	Horizon  float64       `json:"horizon"`
	Value    float64       `json:"value"`
	Delta    float64       `json:"delta"`
	NumSteps int           `json:"num_steps"`
	Duration time.Duration `json:"duration_ns"`
}

// Sweep of the success probability over time horizons at a fixed epsilon
type Sweep struct {
	Name    string       `json:"name"`
	Epsilon float64      `json:"epsilon"`
	Points  []SweepPoint `json:"points"`
}

// SweepConfig configures RunSweep
type SweepConfig struct {
	Name     string
	Horizons []float64
	Epsilon  float64
	// NewConfig returns the engine configuration of each horizon.
	// Every horizon runs on its own engine
	NewConfig func() *vi.Config
	// Progress is called after every horizon
	Progress func(done, total int, point SweepPoint)
}

// RunSweep runs one engine per horizon, in the given order
func RunSweep(ctx context.Context, env types.Environment, rm types.RewardMachine, config SweepConfig) (*Sweep, error) {
	sweep := &Sweep{
		Name:    config.Name,
		Epsilon: config.Epsilon,
		Points:  make([]SweepPoint, 0, len(config.Horizons)),
	}
	for i, horizon := range config.Horizons {
		var engineConfig *vi.Config
		if config.NewConfig != nil {
			engineConfig = config.NewConfig()
		}
		engine := vi.NewEngine(engineConfig)
		start := time.Now()
		value, err := engine.Run(ctx, env, rm, horizon, config.Epsilon)
		if err != nil {
			return nil, fmt.Errorf("horizon %v: %w", horizon, err)
		}
		point := SweepPoint{
			Horizon:  horizon,
			Value:    value,
			Delta:    engine.Delta(),
			NumSteps: engine.NumSteps(),
			Duration: time.Since(start),
		}
		sweep.Points = append(sweep.Points, point)
		if config.Progress != nil {
			config.Progress(i+1, len(config.Horizons), point)
		}
	}
	return sweep, nil
}

// CheckMonotone returns an error if the value decreases by more than tol
// between consecutive increasing horizons
func (s *Sweep) CheckMonotone(tol float64) error {
	for i := 1; i < len(s.Points); i++ {
		prev, cur := s.Points[i-1], s.Points[i]
		if cur.Horizon < prev.Horizon {
			continue
		}
		if cur.Value < prev.Value-tol {
			return fmt.Errorf("value decreases from %v at T=%v to %v at T=%v", prev.Value, prev.Horizon, cur.Value, cur.Horizon)
		}
	}
	return nil
}

// Violation of monotonicity in the time index
type Violation struct {
	State     string
	Automaton string
	Time      int
	Drop      float64
}

// CheckLayerMonotone lists the product states whose value decreases by more
// than tol from one time index to the next
func CheckLayerMonotone(table *vi.ValueTable, tol float64) []Violation {
	violations := make([]Violation, 0)
	for _, s := range table.States() {
		for _, u := range table.AutomatonStates() {
			curve := table.Curve(s, u)
			for k := 1; k < len(curve); k++ {
				if curve[k] < curve[k-1]-tol {
					violations = append(violations, Violation{
						State:     s.Hash(),
						Automaton: u,
						Time:      k,
						Drop:      curve[k-1] - curve[k],
					})
				}
			}
		}
	}
	return violations
}
