// Package session drives the training of a network on a fixed dataset.
package session

import (
	"fmt"
	"time"

	"github.com/drakos74/nn-playground/internal/buffer"
	"github.com/drakos74/nn-playground/internal/dataset"
	nnmath "github.com/drakos74/nn-playground/internal/math"
	"github.com/drakos74/nn-playground/internal/math/ml"
	"github.com/drakos74/nn-playground/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Session owns one network and the dataset it is trained on.
// It is not safe for concurrent use, see Trainer for the shared access.
type Session struct {
	id       string
	config   Config
	network  *ml.Network
	data     dataset.Dataset
	epoch    int
	loss     float64
	accuracy float64
	history  *buffer.Ring
	stats    *buffer.Stats
}

// New creates a new session for the given config.
func New(cfg Config) (*Session, error) {
	s := &Session{}
	if err := s.Reset(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset discards the current network and dataset and creates fresh ones.
// On error the session is left as it was.
func (s *Session) Reset(cfg Config) error {
	if cfg.History <= 0 {
		cfg.History = DefaultHistory
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid session config: %w", err)
	}

	rnd := nnmath.Seeded(cfg.Seed)
	data, err := dataset.Generate(cfg.Pattern, rnd)
	if err != nil {
		return fmt.Errorf("could not generate dataset: %w", err)
	}
	network, err := ml.NewNetwork(cfg.HiddenUnits, cfg.LearningRate, rnd)
	if err != nil {
		return fmt.Errorf("could not create network: %w", err)
	}
	if err := network.SetActivation(cfg.Activation); err != nil {
		return fmt.Errorf("could not create network: %w", err)
	}

	s.id = uuid.New().String()
	s.config = cfg
	s.network = network
	s.data = data
	s.epoch = 0
	s.loss = 0
	s.accuracy = network.Accuracy(data)
	s.history = buffer.NewRing(cfg.History)
	s.stats = buffer.NewStats(10)

	metrics.Observer.Reset(string(cfg.Pattern))
	log.Info().
		Str("session", s.id).
		Str("pattern", string(cfg.Pattern)).
		Str("activation", string(cfg.Activation)).
		Int("hidden", cfg.HiddenUnits).
		Float64("rate", cfg.LearningRate).
		Int64("seed", cfg.Seed).
		Msg("new session")
	return nil
}

// Step trains the network for one epoch and returns its mean loss.
// Every call changes the network weights.
func (s *Session) Step() (float64, error) {
	start := time.Now()
	loss, err := s.network.TrainEpoch(s.data)
	if err != nil {
		return 0, fmt.Errorf("could not train epoch %d: %w", s.epoch+1, err)
	}
	duration := time.Since(start)

	s.epoch++
	s.loss = loss
	s.accuracy = s.network.Accuracy(s.data)
	s.history.Push(loss)
	s.stats.Push(loss)

	metrics.Observer.Epoch(string(s.config.Pattern), string(s.network.Activation()), loss, s.accuracy, duration)
	log.Debug().
		Str("session", s.id).
		Int("epoch", s.epoch).
		Float64("loss", loss).
		Float64("accuracy", s.accuracy).
		Msg("epoch")
	return loss, nil
}

// SetLearningRate changes the learning rate of the live network.
func (s *Session) SetLearningRate(rate float64) error {
	if err := s.network.SetLearningRate(rate); err != nil {
		return err
	}
	s.config.LearningRate = rate
	return nil
}

// SetActivation changes the hidden activation of the live network, the weights are kept.
func (s *Session) SetActivation(kind nnmath.Activation) error {
	if err := s.network.SetActivation(kind); err != nil {
		return err
	}
	s.config.Activation = kind
	return nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Config() Config {
	return s.config
}

func (s *Session) Epoch() int {
	return s.epoch
}

// Loss returns the mean loss of the last epoch, zero before the first one.
func (s *Session) Loss() float64 {
	return s.loss
}

// Dataset returns a copy of the training points.
func (s *Session) Dataset() dataset.Dataset {
	return s.data.Copy()
}

func (s *Session) Predict(x, y float64) float64 {
	return s.network.Predict(x, y)
}

func (s *Session) Weights() ml.Weights {
	return s.network.Weights()
}

// Boundary samples the current network over the default domain.
func (s *Session) Boundary(resolution int) (ml.Grid, error) {
	return ml.Evaluate(s.network, resolution)
}

// State is a detached view of the session.
type State struct {
	ID       string         `json:"id"`
	Config   Config         `json:"config"`
	Epoch    int            `json:"epoch"`
	Loss     float64        `json:"loss"`
	Accuracy float64        `json:"accuracy"`
	Weights  ml.Weights     `json:"weights"`
	History  []float64      `json:"history"`
	Window   buffer.Window  `json:"window"`
	Stats    buffer.Summary `json:"stats"`
}

// State returns the current state of the session.
func (s *Session) State() State {
	return State{
		ID:       s.id,
		Config:   s.config,
		Epoch:    s.epoch,
		Loss:     s.loss,
		Accuracy: s.accuracy,
		Weights:  s.network.Weights(),
		History:  s.history.Get(),
		Window:   s.history.Window(),
		Stats:    s.stats.Summary(),
	}
}
