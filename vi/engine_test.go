package vi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/ctrm-reach/ctrm"
	"github.com/zeu5/ctrm-reach/delivery"
	"github.com/zeu5/ctrm-reach/types"
	"github.com/zeu5/ctrm-reach/vi"
)

func runDelivery(t *testing.T, config *vi.Config, horizon float64) (*vi.Engine, float64) {
	t.Helper()
	engine := vi.NewEngine(config)
	value, err := engine.Run(context.Background(), delivery.NewEnvironment(), delivery.NewMachine(), horizon, 0.1)
	require.NoError(t, err)
	return engine, value
}

func TestDeliveryBenchmark(t *testing.T) {
	engine, value := runDelivery(t, nil, 8.0)

	assert.Equal(t, 2.0, engine.LambdaMax())
	assert.InDelta(t, 0.0125, engine.Delta(), 1e-15)
	assert.Equal(t, 641, engine.NumSteps())
	assert.InDelta(t, 0.9256817669989338, value, 1e-9)
	assert.Equal(t, value, engine.Result())
	assert.Greater(t, value, 0.0)
	assert.Less(t, value, 1.0)

	witness := engine.RateModel()
	assert.Equal(t, delivery.HasPackage, witness.Automaton)
	assert.Equal(t, delivery.Goal, witness.State)

	assert.InDelta(t, 0.9564234174729744, engine.Value(delivery.Pickup, delivery.HasPackage, 640), 1e-9)
	assert.Len(t, engine.States(), 3)
}

func TestDeliveryHorizonSweep(t *testing.T) {
	expected := map[float64]float64{
		1.0:  0.05134942826925089,
		4.0:  0.6248276900970163,
		8.0:  0.9256817669989338,
		16.0: 0.9973011966110166,
		32.0: 0.9999964526824837,
	}
	prev := 0.0
	for _, horizon := range []float64{1.0, 4.0, 8.0, 16.0, 32.0} {
		_, value := runDelivery(t, nil, horizon)
		assert.InDelta(t, expected[horizon], value, 1e-9, "horizon %v", horizon)
		assert.Greater(t, value, prev, "horizon %v", horizon)
		assert.LessOrEqual(t, value, 1.0)
		prev = value
	}
}

func TestValueTableProperties(t *testing.T) {
	engine, _ := runDelivery(t, nil, 4.0)
	machine := delivery.NewMachine()
	table := engine.Table()
	require.NotNil(t, table)

	for _, s := range table.States() {
		for _, u := range table.AutomatonStates() {
			curve := table.Curve(s, u)
			require.Len(t, curve, engine.NumSteps())
			if machine.IsAccepting(u) {
				assert.Equal(t, 1.0, curve[0])
			} else {
				assert.Equal(t, 0.0, curve[0])
			}
			for k, v := range curve {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
				if machine.IsAccepting(u) {
					assert.Equal(t, 1.0, v)
				}
				if k > 0 {
					assert.GreaterOrEqual(t, v, curve[k-1]-1e-12, "(%s, %s) at %d", s.Hash(), u, k)
				}
			}
		}
	}
}

func TestIdempotentRuns(t *testing.T) {
	first, v1 := runDelivery(t, nil, 8.0)
	second, v2 := runDelivery(t, nil, 8.0)
	parallel, v3 := runDelivery(t, &vi.Config{Workers: 4}, 8.0)
	assert.Equal(t, v1, v2)
	assert.Equal(t, v1, v3)

	for _, s := range first.States() {
		for _, u := range first.Table().AutomatonStates() {
			c1 := first.Table().Curve(s, u)
			assert.Equal(t, c1, second.Table().Curve(s, u))
			assert.Equal(t, c1, parallel.Table().Curve(s, u))
		}
	}
}

func TestDegenerateModel(t *testing.T) {
	machine := delivery.NewMachine().WithRates(ctrm.NewRateTable(0).Func())
	engine := vi.NewEngine(nil)
	_, err := engine.Run(context.Background(), delivery.NewEnvironment(), machine, 8.0, 0.1)
	assert.ErrorIs(t, err, vi.ErrDegenerateModel)
	assert.Nil(t, engine.Table())
	assert.Equal(t, 0, engine.NumSteps())
}

func TestInvalidParameters(t *testing.T) {
	env := delivery.NewEnvironment()
	for _, c := range []struct{ horizon, epsilon float64 }{{0, 0.1}, {-3, 0.1}, {8, 0}, {8, 2}} {
		_, err := vi.NewEngine(nil).Run(context.Background(), env, delivery.NewMachine(), c.horizon, c.epsilon)
		assert.ErrorIs(t, err, vi.ErrInvalidParameter, "T=%v eps=%v", c.horizon, c.epsilon)
	}

	negative := delivery.NewMachine().WithRates(ctrm.NewRateTable(1).ForEnv("S2", -1).Func())
	_, err := vi.NewEngine(nil).Run(context.Background(), env, negative, 8, 0.1)
	assert.ErrorIs(t, err, vi.ErrInvalidParameter)
}

func TestDiscoveryPolicies(t *testing.T) {
	first, err := vi.Discover(forkEnv(), vi.DiscoverFirstAction)
	require.NoError(t, err)
	assert.Equal(t, []types.State{s0, s1}, first)

	all, err := vi.Discover(forkEnv(), vi.DiscoverAllActions)
	require.NoError(t, err)
	assert.Equal(t, []types.State{s0, s1, s2}, all)

	_, err = vi.Discover(&tableEnv{initial: s0}, vi.DiscoverAllActions)
	assert.ErrorIs(t, err, vi.ErrInvalidParameter)
}

func TestMissingSuccessorsReadAsZero(t *testing.T) {
	missing := -1
	config := &vi.Config{
		Discovery: vi.DiscoverFirstAction,
		Hooks: vi.Hooks{
			OnDiscovered: func(e vi.DiscoveryEvent) { missing = e.MissingSuccessors },
		},
	}
	engine := vi.NewEngine(config)
	value, err := engine.Run(context.Background(), forkEnv(), goalMachine(nil), 2.0, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, value)
	assert.Equal(t, 1, missing)

	conservative := vi.NewEngine(&vi.Config{Discovery: vi.DiscoverAllActions})
	value, err = conservative.Run(context.Background(), forkEnv(), goalMachine(nil), 2.0, 0.1)
	require.NoError(t, err)
	assert.Greater(t, value, 0.0)

	best, ok := conservative.BestAction(s0, "U0", conservative.NumSteps()-1)
	require.True(t, ok)
	assert.Equal(t, right.Hash(), best.Hash())
}

func TestStrictDiscovery(t *testing.T) {
	engine := vi.NewEngine(&vi.Config{Discovery: vi.DiscoverFirstAction, Strict: true})
	_, err := engine.Run(context.Background(), forkEnv(), goalMachine(nil), 2.0, 0.1)
	assert.ErrorIs(t, err, vi.ErrUnreachableState)
	assert.Nil(t, engine.Table())
}

func TestUndeclaredAutomatonState(t *testing.T) {
	engine := vi.NewEngine(nil)
	_, err := engine.Run(context.Background(), forkEnv(), ghostMachine{goalMachine(nil)}, 2.0, 0.1)
	assert.ErrorIs(t, err, vi.ErrUnreachableState)
}

func TestTieBreakFirstAction(t *testing.T) {
	engine := vi.NewEngine(nil)
	_, err := engine.Run(context.Background(), twinEnv(), goalMachine(nil), 2.0, 0.1)
	require.NoError(t, err)
	best, ok := engine.BestAction(s0, "U0", engine.NumSteps()-1)
	require.True(t, ok)
	assert.Equal(t, left.Hash(), best.Hash())

	_, ok = engine.BestAction(s2, "U1", engine.NumSteps()-1)
	assert.False(t, ok, "accepting states have no best action")
}

func TestDisabledActionIsSkipped(t *testing.T) {
	// only `right` is enabled in S0 and it leads to the goal
	rates := ctrm.NewRateTable(1).ForAction("U0", "S0", "left", 0)
	env := twinEnv()
	env.transitions["S0"]["left"] = stay(s1)

	engine := vi.NewEngine(&vi.Config{Discovery: vi.DiscoverAllActions})
	value, err := engine.Run(context.Background(), env, goalMachine(rates.Func()), 2.0, 0.1)
	require.NoError(t, err)
	assert.Greater(t, value, 0.0)
	best, ok := engine.BestAction(s0, "U0", engine.NumSteps()-1)
	require.True(t, ok)
	assert.Equal(t, right.Hash(), best.Hash())

	// with every action of S0 disabled nothing can happen there
	rates.ForAction("U0", "S0", "right", 0)
	value, err = engine.Run(context.Background(), env, goalMachine(rates.Func()), 2.0, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, value)
	_, ok = engine.BestAction(s0, "U0", engine.NumSteps()-1)
	assert.False(t, ok)
}

func TestHooks(t *testing.T) {
	layers := 0
	maxima := []float64{}
	var discretized vi.DiscretizationEvent
	var complete vi.CompleteEvent
	config := &vi.Config{
		Hooks: vi.Hooks{
			OnLambdaMax:   func(e vi.LambdaMaxEvent) { maxima = append(maxima, e.Rate) },
			OnDiscretized: func(e vi.DiscretizationEvent) { discretized = e },
			OnLayer:       func(vi.LayerEvent) { layers++ },
		}.Merge(vi.Hooks{
			OnComplete: func(e vi.CompleteEvent) { complete = e },
		}),
	}
	engine, value := runDelivery(t, config, 8.0)

	assert.Equal(t, engine.NumSteps()-1, layers)
	assert.Equal(t, []float64{1.0, 2.0}, maxima)
	assert.Equal(t, 641, discretized.NumSteps)
	assert.Equal(t, value, complete.Value)
	assert.Equal(t, 3*3*641, complete.ProductStates)
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine := vi.NewEngine(nil)
	_, err := engine.Run(ctx, delivery.NewEnvironment(), delivery.NewMachine(), 8.0, 0.1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, engine.Table())
}

func TestSnapshotAndReadOut(t *testing.T) {
	engine, value := runDelivery(t, nil, 4.0)
	entries := engine.Snapshot(5)
	require.Len(t, entries, 5)
	assert.Equal(t, engine.NumSteps()-1, entries[0].Time)
	assert.Equal(t, delivery.Start, entries[0].State)
	assert.Equal(t, delivery.Looking, entries[0].Automaton)
	assert.Equal(t, value, entries[0].Value)

	assert.Equal(t, 0.0, engine.Value(types.StringState("nowhere"), delivery.Looking, 3))
	assert.Equal(t, 0.0, engine.Value(delivery.Start, delivery.Looking, engine.NumSteps()))
	assert.Len(t, engine.Snapshot(engine.Table().Size()+10), 9*engine.NumSteps())
	assert.Empty(t, engine.Snapshot(0))
	assert.Empty(t, engine.Snapshot(-1))
}
