package vi

import (
	"fmt"
	"math"
)

// Discretization of the time horizon into layers of width Delta
type Discretization struct {
	Horizon   float64
	Epsilon   float64
	LambdaMax float64
	Delta     float64
	// layers 0..NumSteps-1, index 0 means no time left
	NumSteps int
}

// Discretize computes delta = 2*epsilon / (lambdaMax * horizon) and
// numSteps = floor(horizon / delta) + 1.
// maxSteps bounds the number of layers when positive
func Discretize(horizon, epsilon, lambdaMax float64, maxSteps int) (Discretization, error) {
	if !(horizon > 0) || math.IsInf(horizon, 0) {
		return Discretization{}, fmt.Errorf("%w: time horizon must be positive, got %v", ErrInvalidParameter, horizon)
	}
	if !(epsilon > 0) || epsilon > 1 {
		return Discretization{}, fmt.Errorf("%w: epsilon must be in (0,1], got %v", ErrInvalidParameter, epsilon)
	}
	if lambdaMax == 0 {
		return Discretization{}, ErrDegenerateModel
	}
	if !(lambdaMax > 0) || math.IsInf(lambdaMax, 0) {
		return Discretization{}, fmt.Errorf("%w: maximum rate must be positive, got %v", ErrInvalidParameter, lambdaMax)
	}

	delta := (2 * epsilon) / (lambdaMax * horizon)
	steps := math.Floor(horizon/delta) + 1
	if steps > math.MaxInt32 || (maxSteps > 0 && steps > float64(maxSteps)) {
		return Discretization{}, fmt.Errorf("%w: %.0f time layers exceed the limit", ErrInvalidParameter, steps)
	}
	return Discretization{
		Horizon:   horizon,
		Epsilon:   epsilon,
		LambdaMax: lambdaMax,
		Delta:     delta,
		NumSteps:  int(steps),
	}, nil
}
