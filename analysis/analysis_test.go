package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/ctrm-reach/delivery"
	"github.com/zeu5/ctrm-reach/types"
	"github.com/zeu5/ctrm-reach/vi"
)

func TestDeliverySweep(t *testing.T) {
	progress := 0
	sweep, err := RunSweep(context.Background(), delivery.NewEnvironment(), delivery.NewMachine(), SweepConfig{
		Name:     "delivery",
		Horizons: []float64{4, 8, 16, 32},
		Epsilon:  0.1,
		NewConfig: func() *vi.Config {
			return &vi.Config{Workers: 2}
		},
		Progress: func(done, total int, _ SweepPoint) {
			progress = done
			assert.Equal(t, 4, total)
		},
	})
	require.NoError(t, err)
	require.Len(t, sweep.Points, 4)
	assert.Equal(t, 4, progress)
	assert.NoError(t, sweep.CheckMonotone(0))
	assert.Equal(t, 641, sweep.Points[1].NumSteps)
	assert.InDelta(t, 0.9256817669989338, sweep.Points[1].Value, 1e-9)
	for _, pt := range sweep.Points {
		assert.Less(t, pt.Value, 1.0)
	}
}

func TestSweepFailure(t *testing.T) {
	_, err := RunSweep(context.Background(), delivery.NewEnvironment(), delivery.NewMachine(), SweepConfig{
		Horizons: []float64{4, -1},
		Epsilon:  0.1,
	})
	assert.ErrorIs(t, err, vi.ErrInvalidParameter)
}

func TestCheckMonotone(t *testing.T) {
	sweep := &Sweep{Points: []SweepPoint{{Horizon: 1, Value: 0.5}, {Horizon: 2, Value: 0.4}}}
	assert.Error(t, sweep.CheckMonotone(0.01))
	assert.NoError(t, sweep.CheckMonotone(0.2))
}

func TestCheckLayerMonotone(t *testing.T) {
	engine := vi.NewEngine(nil)
	_, err := engine.Run(context.Background(), delivery.NewEnvironment(), delivery.NewMachine(), 4.0, 0.1)
	require.NoError(t, err)
	assert.Empty(t, CheckLayerMonotone(engine.Table(), 1e-12))

	table := vi.NewValueTable([]types.State{types.StringState("A")}, []string{"U"}, func(string) bool { return false }, 2)
	assert.Empty(t, CheckLayerMonotone(table, 0))
}

func TestPlotsAndReport(t *testing.T) {
	dir := t.TempDir()
	engine := vi.NewEngine(nil)
	_, err := engine.Run(context.Background(), delivery.NewEnvironment(), delivery.NewMachine(), 4.0, 0.1)
	require.NoError(t, err)

	sweep := &Sweep{Name: "delivery", Epsilon: 0.1, Points: []SweepPoint{{Horizon: 1, Value: 0.1}, {Horizon: 2, Value: 0.3}}}
	require.NoError(t, PlotSweeps(dir, "delivery", sweep))
	require.NoError(t, PlotValueCurves(dir, "delivery", engine,
		Curve{State: delivery.Start, Automaton: delivery.Looking},
		Curve{State: delivery.Pickup, Automaton: delivery.HasPackage},
		Curve{State: types.StringState("missing"), Automaton: delivery.Looking},
	))
	require.NoError(t, WriteReport(dir, "delivery", sweep))

	for _, f := range []string{"delivery_sweep.png", "delivery_values.png", "delivery_report.json"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}

	err = PlotValueCurves(dir, "none", vi.NewEngine(nil))
	assert.ErrorIs(t, err, vi.ErrInvalidParameter)
}

func TestPlotDirectoryError(t *testing.T) {
	// a regular file where the plot directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	sweep := &Sweep{Name: "delivery", Epsilon: 0.1, Points: []SweepPoint{{Horizon: 1, Value: 0.1}}}
	err := PlotSweeps(filepath.Join(blocker, "plots"), "delivery", sweep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not create")
}
