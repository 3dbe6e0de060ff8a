// Package dataset generates the synthetic 2D binary classification sets.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	nnmath "github.com/drakos74/nn-playground/internal/math"
)

var InvalidArgumentErr = errors.New("invalid argument")

// Point is a labeled sample of the dataset.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Class int     `json:"class"`
}

// Dataset is an ordered set of labeled points.
type Dataset []Point

// Copy returns an independent copy of the dataset.
func (ds Dataset) Copy() Dataset {
	cc := make(Dataset, len(ds))
	copy(cc, ds)
	return cc
}

// Balance returns the number of points for class 0 and class 1.
func (ds Dataset) Balance() (int, int) {
	var zero, one int
	for _, p := range ds {
		if p.Class == 0 {
			zero++
		} else {
			one++
		}
	}
	return zero, one
}

// Pattern is the geometric layout of the generated classes.
type Pattern string

const (
	Linear   Pattern = "linear"
	Circular Pattern = "circular"
	XOR      Pattern = "xor"
	Spiral   Pattern = "spiral"
)

// Patterns returns the supported patterns in display order.
func Patterns() []Pattern {
	return []Pattern{Linear, Circular, XOR, Spiral}
}

// ParsePattern resolves the pattern from its name.
func ParsePattern(s string) (Pattern, error) {
	p := Pattern(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := generators[p]; !ok {
		return "", fmt.Errorf("unknown pattern '%s': %w", s, InvalidArgumentErr)
	}
	return p, nil
}

// Preset holds the recommended network settings for a pattern.
type Preset struct {
	HiddenUnits  int                `json:"hidden_units"`
	LearningRate float64            `json:"learning_rate"`
	Activation   nnmath.Activation `json:"activation"`
}

var presets = map[Pattern]Preset{
	Linear:   {HiddenUnits: 6, LearningRate: 0.1, Activation: nnmath.ActivationSigmoid},
	Circular: {HiddenUnits: 12, LearningRate: 0.1, Activation: nnmath.ActivationReLU},
	XOR:      {HiddenUnits: 10, LearningRate: 0.1, Activation: nnmath.ActivationReLU},
	Spiral:   {HiddenUnits: 18, LearningRate: 0.05, Activation: nnmath.ActivationReLU},
}

// Preset returns the recommended settings for the pattern.
func (p Pattern) Preset() Preset {
	if preset, ok := presets[p]; ok {
		return preset
	}
	return presets[Linear]
}

type generator func(rnd *rand.Rand) Dataset

var generators = map[Pattern]generator{
	Linear:   linear,
	Circular: circular,
	XOR:      xor,
	Spiral:   spiral,
}

// Generate creates a new dataset for the given pattern.
// A nil source falls back to a time seeded one.
func Generate(pattern Pattern, rnd *rand.Rand) (Dataset, error) {
	gen, ok := generators[pattern]
	if !ok {
		return nil, fmt.Errorf("unknown pattern '%s': %w", pattern, InvalidArgumentErr)
	}
	if rnd == nil {
		rnd = nnmath.Random()
	}
	return gen(rnd), nil
}

const (
	clusterSize = 100
	xorRepeat   = 50
	spiralArm   = 100
)

// jitter places a sample uniformly within a square of the given width around the center.
func jitter(rnd *rand.Rand, center, width float64) float64 {
	return center + rnd.Float64()*width - width/2
}

func linear(rnd *rand.Rand) Dataset {
	ds := make(Dataset, 0, 2*clusterSize)
	for i := 0; i < clusterSize; i++ {
		ds = append(ds, Point{X: jitter(rnd, -0.5, 0.4), Y: jitter(rnd, -0.5, 0.4), Class: 0})
	}
	for i := 0; i < clusterSize; i++ {
		ds = append(ds, Point{X: jitter(rnd, 0.5, 0.4), Y: jitter(rnd, 0.5, 0.4), Class: 1})
	}
	return ds
}

func ring(rnd *rand.Rand, minRadius, width float64, class int) Point {
	angle := rnd.Float64() * 2 * math.Pi
	radius := nnmath.Uniform(rnd, minRadius, width)
	return Point{
		X:     radius * math.Cos(angle),
		Y:     radius * math.Sin(angle),
		Class: class,
	}
}

func circular(rnd *rand.Rand) Dataset {
	ds := make(Dataset, 0, 2*clusterSize)
	for i := 0; i < clusterSize; i++ {
		ds = append(ds, ring(rnd, 0, 0.3, 0))
	}
	for i := 0; i < clusterSize; i++ {
		ds = append(ds, ring(rnd, 0.7, 0.3, 1))
	}
	return ds
}

func xor(rnd *rand.Rand) Dataset {
	// quadrant offsets, the same sign on both axes is class 1
	quadrants := []struct {
		x, y  float64
		class int
	}{
		{x: 0.3, y: 0.3, class: 1},
		{x: -0.7, y: -0.7, class: 1},
		{x: -0.7, y: 0.3, class: 0},
		{x: 0.3, y: -0.7, class: 0},
	}
	ds := make(Dataset, 0, xorRepeat*len(quadrants))
	for i := 0; i < xorRepeat; i++ {
		for _, q := range quadrants {
			ds = append(ds, Point{
				X:     nnmath.Uniform(rnd, q.x, 0.4),
				Y:     nnmath.Uniform(rnd, q.y, 0.4),
				Class: q.class,
			})
		}
	}
	return ds
}

func spiral(_ *rand.Rand) Dataset {
	ds := make(Dataset, 0, 2*spiralArm)
	n := float64(spiralArm)
	for i := 0; i < spiralArm; i++ {
		r := float64(i) / n * 0.8
		t := 1.25 * float64(i) / n * 2 * math.Pi
		ds = append(ds,
			Point{X: r * math.Cos(t), Y: r * math.Sin(t), Class: 0},
			Point{X: r * math.Cos(t+math.Pi), Y: r * math.Sin(t+math.Pi), Class: 1},
		)
	}
	return ds
}
