package analysis

import (
	"fmt"
	"os"
	"path"

	"github.com/zeu5/ctrm-reach/types"
	"github.com/zeu5/ctrm-reach/util"
	"github.com/zeu5/ctrm-reach/vi"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

func ensureDir(plotPath string) error {
	if _, err := os.Stat(plotPath); err != nil {
		if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
			return fmt.Errorf("could not create %s: %w", plotPath, err)
		}
	}
	return nil
}

// PlotSweeps draws the success probability against the time horizon, one line per sweep
func PlotSweeps(plotPath, name string, sweeps ...*Sweep) error {
	if err := ensureDir(plotPath); err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = "Success probability"
	p.X.Label.Text = "Time horizon"
	p.Y.Label.Text = "Probability"
	p.Y.Min = 0
	p.Y.Max = 1
	for i, sweep := range sweeps {
		points := make(plotter.XYs, len(sweep.Points))
		for j, pt := range sweep.Points {
			points[j] = plotter.XY{X: pt.Horizon, Y: pt.Value}
		}
		line, scatter, err := plotter.NewLinePoints(points)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		scatter.Color = plotutil.Color(i)
		p.Add(line, scatter)
		p.Legend.Add(fmt.Sprintf("%s (eps=%g)", sweep.Name, sweep.Epsilon), line)
	}
	return p.Save(8*vg.Inch, 6*vg.Inch, path.Join(plotPath, name+"_sweep.png"))
}

// Curve selects one (environment state, automaton state) pair of the value table
type Curve struct {
	State     types.State
	Automaton string
}

// PlotValueCurves draws V(s, u, k) against the remaining time k*delta
func PlotValueCurves(plotPath, name string, engine *vi.Engine, curves ...Curve) error {
	table := engine.Table()
	if table == nil {
		return fmt.Errorf("%w: engine has no value table", vi.ErrInvalidParameter)
	}
	if err := ensureDir(plotPath); err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = "Value by remaining time"
	p.X.Label.Text = "Remaining time"
	p.Y.Label.Text = "Probability"
	for i, c := range curves {
		values := table.Curve(c.State, c.Automaton)
		if values == nil {
			continue
		}
		points := make(plotter.XYs, len(values))
		for k, v := range values {
			points[k] = plotter.XY{X: float64(k) * engine.Delta(), Y: v}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			continue
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("(%s, %s)", c.State.Hash(), c.Automaton), line)
	}
	return p.Save(8*vg.Inch, 6*vg.Inch, path.Join(plotPath, name+"_values.png"))
}

// WriteReport saves the sweeps as json
func WriteReport(plotPath, name string, sweeps ...*Sweep) error {
	return util.WriteJSON(path.Join(plotPath, name+"_report.json"), sweeps)
}
