package metrics

import (
	"io/ioutil"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {

	m := NewMetrics(prometheus.NewRegistry())

	m.Reset("xor")
	m.Epoch("xor", "relu", 0.2, 0.5, time.Millisecond)
	m.Epoch("xor", "relu", 0.1, 0.75, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.prometheus.Epochs.WithLabelValues("xor", "relu")))
	assert.Equal(t, 0.1, testutil.ToFloat64(m.prometheus.Loss.WithLabelValues("xor", "relu")))
	assert.Equal(t, 0.75, testutil.ToFloat64(m.prometheus.Accuracy.WithLabelValues("xor", "relu")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Resets.WithLabelValues("xor")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := ioutil.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "playground_epochs_total")
	assert.Contains(t, string(body), "playground_loss")
}
