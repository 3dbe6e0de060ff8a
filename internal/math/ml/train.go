package ml

import (
	"fmt"

	"github.com/drakos74/go-ex-machina/xmath"
	"github.com/drakos74/nn-playground/internal/dataset"
)

// TrainEpoch runs one online pass over a shuffled copy of the dataset
// and returns the mean squared error observed before each update.
// Every sample updates the weights, so later samples see the earlier updates.
func (n *Network) TrainEpoch(ds dataset.Dataset) (float64, error) {
	if len(ds) == 0 {
		return 0, fmt.Errorf("could not train epoch: %w", EmptyDatasetErr)
	}

	shuffled := ds.Copy()
	n.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	input := xmath.Vec(Inputs)
	var loss float64
	for _, p := range shuffled {
		target := float64(p.Class)
		output := n.Forward(input.With(p.X, p.Y))
		diff := target - output
		loss += diff * diff
		if err := n.Backward(target); err != nil {
			return 0, fmt.Errorf("could not train on point %+v: %w", p, err)
		}
	}
	return loss / float64(len(shuffled)), nil
}

// Accuracy returns the share of points for which the prediction falls on the side of their class.
func (n *Network) Accuracy(ds dataset.Dataset) float64 {
	if len(ds) == 0 {
		return 0
	}
	var correct int
	for _, p := range ds {
		class := 0
		if n.Predict(p.X, p.Y) >= 0.5 {
			class = 1
		}
		if class == p.Class {
			correct++
		}
	}
	return float64(correct) / float64(len(ds))
}
