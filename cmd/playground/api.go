package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/drakos74/nn-playground/internal/dataset"
	nnmath "github.com/drakos74/nn-playground/internal/math"
	"github.com/drakos74/nn-playground/internal/math/ml"
	"github.com/drakos74/nn-playground/internal/metrics"
	"github.com/drakos74/nn-playground/internal/server"
	"github.com/drakos74/nn-playground/internal/session"
	"github.com/rs/zerolog/log"
)

// MaxResolution bounds the boundary grid requested over http.
const MaxResolution = 200

type playground struct {
	trainer    *session.Trainer
	resolution int
	debug      bool
}

func newPlayground(trainer *session.Trainer, resolution int) *playground {
	return &playground{
		trainer:    trainer,
		resolution: resolution,
	}
}

func (p *playground) server(port int, debug bool) *server.Server {
	p.debug = debug
	srv := server.NewServer("playground", port).
		Add(server.Live()).
		AddRoute(server.GET, server.Api, "state", p.state).
		AddRoute(server.GET, server.Api, "dataset", p.dataset).
		AddRoute(server.GET, server.Api, "boundary", p.boundary).
		AddRoute(server.POST, server.Api, "train", p.train).
		AddRoute(server.POST, server.Api, "stop", p.stop).
		AddRoute(server.POST, server.Api, "step", p.step).
		AddRoute(server.POST, server.Api, "reset", p.reset).
		AddRoute(server.POST, server.Api, "rate", p.rate).
		AddRoute(server.POST, server.Api, "activation", p.activation).
		Handle("/api/stream", http.HandlerFunc(p.stream)).
		Handle("/metrics", metrics.Observer.Handler())
	if debug {
		srv.Debug()
	}
	return srv
}

// status maps the engine errors to the http status code.
func status(err error) int {
	switch {
	case errors.Is(err, ml.InvalidConfigErr),
		errors.Is(err, ml.InvalidArgumentErr),
		errors.Is(err, dataset.InvalidArgumentErr),
		errors.Is(err, nnmath.InvalidArgumentErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Response is the reply for the session commands.
type Response struct {
	Active bool          `json:"active"`
	State  session.State `json:"state"`
}

func (p *playground) response() ([]byte, int, error) {
	return server.JsonResponse(Response{
		Active: p.trainer.Active(),
		State:  p.trainer.State(),
	})
}

func (p *playground) state(r *http.Request) ([]byte, int, error) {
	return p.response()
}

func (p *playground) dataset(r *http.Request) ([]byte, int, error) {
	var data dataset.Dataset
	p.trainer.View(func(s *session.Session) {
		data = s.Dataset()
	})
	return server.JsonResponse(data)
}

func (p *playground) boundary(r *http.Request) ([]byte, int, error) {
	resolution := p.resolution
	if q := r.URL.Query().Get("resolution"); q != "" {
		res, err := strconv.Atoi(q)
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("could not parse resolution '%s': %w", q, err)
		}
		if res > MaxResolution {
			return nil, http.StatusBadRequest, fmt.Errorf("resolution must not exceed %d '%d': %w", MaxResolution, res, ml.InvalidArgumentErr)
		}
		resolution = res
	}
	var grid ml.Grid
	var err error
	p.trainer.View(func(s *session.Session) {
		grid, err = s.Boundary(resolution)
	})
	if err != nil {
		return nil, status(err), err
	}
	return server.JsonResponse(grid)
}

func (p *playground) train(r *http.Request) ([]byte, int, error) {
	p.trainer.Start()
	log.Info().Msg("training started")
	return p.response()
}

func (p *playground) stop(r *http.Request) ([]byte, int, error) {
	p.trainer.Stop()
	log.Info().Msg("training stopped")
	return p.response()
}

func (p *playground) step(r *http.Request) ([]byte, int, error) {
	if _, err := p.trainer.Step(); err != nil {
		return nil, status(err), err
	}
	return p.response()
}

func (p *playground) reset(r *http.Request) ([]byte, int, error) {
	var update session.Config
	if err := server.JsonRead(r, p.debug, &update); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("could not read config: %w", err)
	}
	p.trainer.Stop()
	err := p.trainer.Do(func(s *session.Session) error {
		return s.Reset(s.Config().Merge(update))
	})
	if err != nil {
		return nil, status(err), err
	}
	return p.response()
}

// RateRequest changes the learning rate of the live network.
type RateRequest struct {
	LearningRate float64 `json:"learning_rate"`
}

func (p *playground) rate(r *http.Request) ([]byte, int, error) {
	var request RateRequest
	if err := server.JsonRead(r, p.debug, &request); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("could not read learning rate: %w", err)
	}
	err := p.trainer.Do(func(s *session.Session) error {
		return s.SetLearningRate(request.LearningRate)
	})
	if err != nil {
		return nil, status(err), err
	}
	return p.response()
}

// ActivationRequest changes the hidden activation of the live network.
type ActivationRequest struct {
	Activation string `json:"activation"`
}

func (p *playground) activation(r *http.Request) ([]byte, int, error) {
	var request ActivationRequest
	if err := server.JsonRead(r, p.debug, &request); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("could not read activation: %w", err)
	}
	kind, err := nnmath.ParseActivation(request.Activation)
	if err != nil {
		return nil, status(err), err
	}
	err = p.trainer.Do(func(s *session.Session) error {
		return s.SetActivation(kind)
	})
	if err != nil {
		return nil, status(err), err
	}
	return p.response()
}
