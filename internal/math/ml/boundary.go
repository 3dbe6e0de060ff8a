package ml

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DefaultResolution is the number of grid steps per axis.
const DefaultResolution = 20

// Predictor evaluates the class 1 probability of a point.
type Predictor interface {
	Predict(x, y float64) float64
}

// Domain is the square area sampled by the boundary evaluation, as [Min, Max).
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultDomain covers the generated datasets with some margin.
var DefaultDomain = Domain{Min: -2, Max: 2}

// Cell is a sampled point of the decision boundary field.
type Cell struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Prediction float64 `json:"prediction"`
}

// Grid is the sampled prediction field.
type Grid struct {
	Resolution int    `json:"resolution"`
	Domain     Domain `json:"domain"`
	Cells      []Cell `json:"cells"`
}

// Evaluate samples the predictor over the default domain.
func Evaluate(predictor Predictor, resolution int) (Grid, error) {
	return EvaluateOn(predictor, DefaultDomain, resolution)
}

// EvaluateOn samples the predictor over the given domain, iterating on x first and y second.
// Nothing is cached, the grid reflects the predictor at call time.
func EvaluateOn(predictor Predictor, domain Domain, resolution int) (Grid, error) {
	if resolution < 1 {
		return Grid{}, fmt.Errorf("resolution must be positive '%d': %w", resolution, InvalidArgumentErr)
	}
	if !(domain.Max > domain.Min) {
		return Grid{}, fmt.Errorf("empty domain '%+v': %w", domain, InvalidArgumentErr)
	}
	width := domain.Max - domain.Min
	res := float64(resolution)
	cells := make([]Cell, 0, resolution*resolution)
	for i := 0; i < resolution; i++ {
		for j := 0; j < resolution; j++ {
			x := float64(i)/res*width + domain.Min
			y := float64(j)/res*width + domain.Min
			cells = append(cells, Cell{
				X:          x,
				Y:          y,
				Prediction: predictor.Predict(x, y),
			})
		}
	}
	return Grid{
		Resolution: resolution,
		Domain:     domain,
		Cells:      cells,
	}, nil
}

// At returns the cell for the x index i and the y index j.
func (g Grid) At(i, j int) Cell {
	return g.Cells[i*g.Resolution+j]
}

// Predictions returns the predictions in cell order.
func (g Grid) Predictions() []float64 {
	pp := make([]float64, len(g.Cells))
	for i, c := range g.Cells {
		pp[i] = c.Prediction
	}
	return pp
}

// Range returns the smallest and largest prediction of the grid.
func (g Grid) Range() (float64, float64) {
	pp := g.Predictions()
	if len(pp) == 0 {
		return 0, 0
	}
	return floats.Min(pp), floats.Max(pp)
}
