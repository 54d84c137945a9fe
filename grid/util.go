package grid

import (
	"encoding/json"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ValueGrid holds one value per cell of the grid, indexed by row and column
type ValueGrid struct {
	Values map[int]map[int]float64
	Height int
	Width  int
}

var _ plotter.GridXYZ = &ValueGrid{}

// NewValueGrid evaluates value on every cell
func NewValueGrid(height, width int, value func(*Position) float64) *ValueGrid {
	g := &ValueGrid{
		Values: make(map[int]map[int]float64),
		Height: height,
		Width:  width,
	}
	for i := 0; i < height; i++ {
		g.Values[i] = make(map[int]float64)
		for j := 0; j < width; j++ {
			g.Values[i][j] = value(&Position{I: i, J: j})
		}
	}
	return g
}

func (g *ValueGrid) Dims() (int, int) {
	return g.Width, g.Height
}

func (g *ValueGrid) Z(j, i int) float64 {
	return g.Values[i][j]
}

func (g *ValueGrid) X(j int) float64 {
	return float64(j)
}

func (g *ValueGrid) Y(i int) float64 {
	return float64(i)
}

func (g *ValueGrid) Min() float64 {
	min := 1.0
	for _, vals := range g.Values {
		for _, v := range vals {
			if v < min {
				min = v
			}
		}
	}
	return min
}

func (g *ValueGrid) Max() float64 {
	max := 0.0
	for _, vals := range g.Values {
		for _, v := range vals {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// Record writes the grid as json
func (g *ValueGrid) Record(filePath string) error {
	bs, err := json.Marshal(g)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, bs, 0644)
}

// PlotHeatMap saves a heat map of the grid
func PlotHeatMap(g *ValueGrid, title, figPath string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Column"
	p.Y.Label.Text = "Row"
	p.Add(plotter.NewHeatMap(g, palette.Heat(12, 1)))
	return p.Save(4*vg.Inch, 4*vg.Inch, figPath)
}
