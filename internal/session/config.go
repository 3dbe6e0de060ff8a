package session

import (
	"fmt"

	"github.com/drakos74/nn-playground/internal/dataset"
	nnmath "github.com/drakos74/nn-playground/internal/math"
	"github.com/drakos74/nn-playground/internal/math/ml"
)

const (
	// DefaultHistory is the number of recent epoch losses kept by a session.
	DefaultHistory = 500
	// MaxHistory bounds the loss history of a session.
	MaxHistory = 10000
)

// Config defines everything a session is created from.
// HiddenUnits defines the size of the hidden layer
// LearningRate defines the step size of the gradient descent, it can change on a live session
// Pattern defines the dataset layout
// Activation defines the hidden layer non-linearity, it can change on a live session
// Seed makes the dataset and the network reproducible, zero means a time based seed
// History defines how many epoch losses are kept for display
type Config struct {
	HiddenUnits  int               `json:"hidden_units"`
	LearningRate float64           `json:"learning_rate"`
	Pattern      dataset.Pattern   `json:"pattern"`
	Activation   nnmath.Activation `json:"activation"`
	Seed         int64             `json:"seed"`
	History      int               `json:"history,omitempty"`
}

// Preset creates the recommended config for the given pattern.
func Preset(pattern dataset.Pattern) Config {
	preset := pattern.Preset()
	return Config{
		HiddenUnits:  preset.HiddenUnits,
		LearningRate: preset.LearningRate,
		Pattern:      pattern,
		Activation:   preset.Activation,
		History:      DefaultHistory,
	}
}

// Validate checks the config for values the engine would reject.
func (c Config) Validate() error {
	if c.HiddenUnits < 1 || c.HiddenUnits > ml.MaxHiddenUnits {
		return fmt.Errorf("hidden units must be within [1,%d] '%d': %w", ml.MaxHiddenUnits, c.HiddenUnits, ml.InvalidConfigErr)
	}
	if !(c.LearningRate > 0) {
		return fmt.Errorf("learning rate must be positive '%v': %w", c.LearningRate, ml.InvalidConfigErr)
	}
	if c.History < 0 || c.History > MaxHistory {
		return fmt.Errorf("history must be within [0,%d] '%d': %w", MaxHistory, c.History, ml.InvalidConfigErr)
	}
	if _, err := dataset.ParsePattern(string(c.Pattern)); err != nil {
		return err
	}
	if err := c.Activation.Validate(); err != nil {
		return err
	}
	return nil
}

// Merge fills the zero fields of the update with the values of the current config.
func (c Config) Merge(update Config) Config {
	if update.HiddenUnits == 0 {
		update.HiddenUnits = c.HiddenUnits
	}
	if update.LearningRate == 0 {
		update.LearningRate = c.LearningRate
	}
	if update.Pattern == "" {
		update.Pattern = c.Pattern
	}
	if update.Activation == "" {
		update.Activation = c.Activation
	}
	if update.Seed == 0 {
		update.Seed = c.Seed
	}
	if update.History == 0 {
		update.History = c.History
	}
	return update
}
