package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestLoad(t *testing.T) {

	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "sample.json"), []byte(`{"name":"xor","value":0.1}`), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"name":`), 0644))

	var s sample
	require.NoError(t, Load(dir, "sample", &s))
	assert.Equal(t, sample{Name: "xor", Value: 0.1}, s)

	assert.Error(t, Load(dir, "missing", &s))
	assert.Error(t, Load(dir, "broken", &s))

	assert.Panics(t, func() {
		MustLoad("missing-key", &s)
	})
}

func TestLoad_Playground(t *testing.T) {

	var v map[string]interface{}
	require.NoError(t, Load(".", "playground", &v))
	assert.Contains(t, v, "session")
	assert.Contains(t, v, "port")
}
