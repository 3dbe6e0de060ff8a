package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Value string `json:"value"`
}

func TestServer_Routes(t *testing.T) {

	s := NewServer("test", 0).
		Add(Live()).
		AddRoute(GET, Api, "ok", func(r *http.Request) ([]byte, int, error) {
			return JsonResponse(payload{Value: "ok"})
		}).
		AddRoute(POST, Api, "echo", func(r *http.Request) ([]byte, int, error) {
			var p payload
			if err := JsonRead(r, true, &p); err != nil {
				return nil, http.StatusBadRequest, fmt.Errorf("could not read payload: %w", err)
			}
			return JsonResponse(p)
		}).
		AddRoute(GET, Api, "fail", func(r *http.Request) ([]byte, int, error) {
			return nil, 0, errors.New("broken")
		}).
		AddRoute(GET, Api, "accepted", func(r *http.Request) ([]byte, int, error) {
			return []byte("later"), http.StatusAccepted, nil
		}).
		Handle("/raw", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	type test struct {
		method string
		path   string
		body   string
		code   int
		expect string
	}

	tests := map[string]test{
		"live": {
			method: http.MethodGet,
			path:   "/data",
			code:   http.StatusOK,
		},
		"get": {
			method: http.MethodGet,
			path:   "/api/ok",
			code:   http.StatusOK,
			expect: `{"value":"ok"}`,
		},
		"post": {
			method: http.MethodPost,
			path:   "/api/echo",
			body:   `{"value":"echo"}`,
			code:   http.StatusOK,
			expect: `{"value":"echo"}`,
		},
		"post-empty": {
			method: http.MethodPost,
			path:   "/api/echo",
			code:   http.StatusOK,
			expect: `{"value":""}`,
		},
		"bad-request": {
			method: http.MethodPost,
			path:   "/api/echo",
			body:   `{"value":`,
			code:   http.StatusBadRequest,
		},
		"internal-error": {
			method: http.MethodGet,
			path:   "/api/fail",
			code:   http.StatusInternalServerError,
			expect: "broken",
		},
		"other-code": {
			method: http.MethodGet,
			path:   "/api/accepted",
			code:   http.StatusAccepted,
			expect: "later",
		},
		"wrong-method": {
			method: http.MethodPost,
			path:   "/api/ok",
			code:   http.StatusMethodNotAllowed,
		},
		"not-found": {
			method: http.MethodGet,
			path:   "/api/missing",
			code:   http.StatusNotFound,
		},
		"raw": {
			method: http.MethodGet,
			path:   "/raw",
			code:   http.StatusTeapot,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.code, resp.StatusCode)
			b, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if tt.expect != "" {
				assert.Equal(t, tt.expect, string(b))
			}
		})
	}
}

func TestServer_Handler(t *testing.T) {
	s := NewServer("test", 0).Add(Live())
	// registering twice must not panic on duplicate patterns
	assert.NotPanics(t, func() {
		s.Handler()
		s.Handler()
	})
}
