package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/drakos74/nn-playground/infra/config"
	"github.com/drakos74/nn-playground/internal/dataset"
	nnmath "github.com/drakos74/nn-playground/internal/math"
	"github.com/drakos74/nn-playground/internal/math/ml"
	"github.com/drakos74/nn-playground/internal/session"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *session.Trainer) {
	cfg := session.Preset(dataset.XOR)
	cfg.Seed = 7
	s, err := session.New(cfg)
	require.NoError(t, err)
	trainer := session.NewTrainer(s, time.Hour)
	srv := httptest.NewServer(newPlayground(trainer, ml.DefaultResolution).server(0, false).Handler())
	t.Cleanup(srv.Close)
	return srv, trainer
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, []byte) {
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewBufferString(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func decode(t *testing.T, b []byte) Response {
	var response Response
	require.NoError(t, json.Unmarshal(b, &response))
	return response
}

func TestSettings(t *testing.T) {
	var settings Settings
	err := config.Load("../../"+config.Path, "playground", &settings)
	require.NoError(t, err)
	assert.NoError(t, settings.Session.Validate())
	assert.Equal(t, 100*time.Millisecond, settings.Interval.Duration)
	assert.Equal(t, ml.DefaultResolution, settings.Resolution)
}

func TestPlayground_Requests(t *testing.T) {

	type test struct {
		method string
		path   string
		body   string
		code   int
		check  func(t *testing.T, b []byte)
	}

	tests := map[string]test{
		"state": {
			method: http.MethodGet,
			path:   "/api/state",
			code:   http.StatusOK,
			check: func(t *testing.T, b []byte) {
				response := decode(t, b)
				assert.False(t, response.Active)
				assert.Equal(t, 0, response.State.Epoch)
				assert.Equal(t, dataset.XOR, response.State.Config.Pattern)
			},
		},
		"dataset": {
			method: http.MethodGet,
			path:   "/api/dataset",
			code:   http.StatusOK,
			check: func(t *testing.T, b []byte) {
				var data dataset.Dataset
				require.NoError(t, json.Unmarshal(b, &data))
				assert.Len(t, data, 200)
			},
		},
		"boundary-default": {
			method: http.MethodGet,
			path:   "/api/boundary",
			code:   http.StatusOK,
			check: func(t *testing.T, b []byte) {
				var grid ml.Grid
				require.NoError(t, json.Unmarshal(b, &grid))
				assert.Equal(t, ml.DefaultResolution, grid.Resolution)
				assert.Len(t, grid.Cells, ml.DefaultResolution*ml.DefaultResolution)
			},
		},
		"boundary-resolution": {
			method: http.MethodGet,
			path:   "/api/boundary?resolution=3",
			code:   http.StatusOK,
			check: func(t *testing.T, b []byte) {
				var grid ml.Grid
				require.NoError(t, json.Unmarshal(b, &grid))
				assert.Len(t, grid.Cells, 9)
			},
		},
		"boundary-zero": {
			method: http.MethodGet,
			path:   "/api/boundary?resolution=0",
			code:   http.StatusBadRequest,
		},
		"boundary-huge": {
			method: http.MethodGet,
			path:   "/api/boundary?resolution=100000",
			code:   http.StatusBadRequest,
		},
		"boundary-nan": {
			method: http.MethodGet,
			path:   "/api/boundary?resolution=abc",
			code:   http.StatusBadRequest,
		},
		"step": {
			method: http.MethodPost,
			path:   "/api/step",
			code:   http.StatusOK,
			check: func(t *testing.T, b []byte) {
				response := decode(t, b)
				assert.Equal(t, 1, response.State.Epoch)
				assert.Greater(t, response.State.Loss, 0.0)
				assert.Equal(t, 1, response.State.Window.Size)
				assert.Equal(t, response.State.Loss, response.State.Window.Mean)
			},
		},
		"step-get": {
			method: http.MethodGet,
			path:   "/api/step",
			code:   http.StatusMethodNotAllowed,
		},
		"rate": {
			method: http.MethodPost,
			path:   "/api/rate",
			body:   `{"learning_rate":0.02}`,
			code:   http.StatusOK,
			check: func(t *testing.T, b []byte) {
				assert.Equal(t, 0.02, decode(t, b).State.Config.LearningRate)
			},
		},
		"rate-negative": {
			method: http.MethodPost,
			path:   "/api/rate",
			body:   `{"learning_rate":-1}`,
			code:   http.StatusBadRequest,
		},
		"rate-malformed": {
			method: http.MethodPost,
			path:   "/api/rate",
			body:   `{"learning_rate":"fast"}`,
			code:   http.StatusBadRequest,
		},
		"activation": {
			method: http.MethodPost,
			path:   "/api/activation",
			body:   `{"activation":"sigmoid"}`,
			code:   http.StatusOK,
			check: func(t *testing.T, b []byte) {
				assert.Equal(t, nnmath.ActivationSigmoid, decode(t, b).State.Config.Activation)
			},
		},
		"activation-unknown": {
			method: http.MethodPost,
			path:   "/api/activation",
			body:   `{"activation":"tanh"}`,
			code:   http.StatusBadRequest,
		},
		"reset": {
			method: http.MethodPost,
			path:   "/api/reset",
			body:   `{"pattern":"spiral","hidden_units":4}`,
			code:   http.StatusOK,
			check: func(t *testing.T, b []byte) {
				response := decode(t, b)
				assert.Equal(t, dataset.Spiral, response.State.Config.Pattern)
				assert.Equal(t, 4, response.State.Config.HiddenUnits)
				assert.Equal(t, 0.1, response.State.Config.LearningRate)
				assert.Len(t, response.State.Weights.HiddenOutput, 4)
			},
		},
		"reset-invalid": {
			method: http.MethodPost,
			path:   "/api/reset",
			body:   `{"hidden_units":65}`,
			code:   http.StatusBadRequest,
		},
		"reset-huge-history": {
			method: http.MethodPost,
			path:   "/api/reset",
			body:   `{"history":1000000000}`,
			code:   http.StatusBadRequest,
		},
		"reset-unknown-pattern": {
			method: http.MethodPost,
			path:   "/api/reset",
			body:   `{"pattern":"moons"}`,
			code:   http.StatusBadRequest,
		},
		"live": {
			method: http.MethodGet,
			path:   "/data",
			code:   http.StatusOK,
		},
		"metrics": {
			method: http.MethodGet,
			path:   "/metrics",
			code:   http.StatusOK,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv, _ := newTestServer(t)
			code, b := call(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, code, string(b))
			if tt.check != nil {
				tt.check(t, b)
			}
		})
	}
}

func TestPlayground_TrainStop(t *testing.T) {

	srv, trainer := newTestServer(t)

	code, b := call(t, srv, http.MethodPost, "/api/train", "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decode(t, b).Active)
	assert.True(t, trainer.Active())

	// reset always stops the training
	code, b = call(t, srv, http.MethodPost, "/api/reset", "")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, decode(t, b).Active)

	call(t, srv, http.MethodPost, "/api/train", "")
	code, b = call(t, srv, http.MethodPost, "/api/stop", "")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, decode(t, b).Active)
}

func TestPlayground_Stream(t *testing.T) {

	srv, trainer := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var state session.State
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&state))
	assert.Equal(t, 0, state.Epoch)

	// the subscription is registered before the first state is written
	_, err = trainer.Step()
	require.NoError(t, err)

	require.NoError(t, conn.ReadJSON(&state))
	assert.Equal(t, 1, state.Epoch)
}

func TestPlayground_StreamClose(t *testing.T) {

	srv, trainer := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		trainer.Run(ctx)
		close(done)
	}()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var state session.State
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&state))

	cancel()
	<-done

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error %v", err)
}
