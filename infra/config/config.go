package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Path is the default directory of the config files.
const Path = "infra/config"

// Load loads the config for the given key from the given directory.
func Load(dir, key string, v interface{}) error {
	p := filepath.Join(dir, fmt.Sprintf("%s.json", key))
	b, err := ioutil.ReadFile(p)
	if err != nil {
		return fmt.Errorf("could not load config for %s: %w", key, err)
	}

	err = json.Unmarshal(b, v)
	if err != nil {
		return fmt.Errorf("could not unmarshal the config for %s: %w", key, err)
	}

	log.Info().Str("key", key).Str("path", p).Msg("loaded config")
	return nil
}

// MustLoad loads the config for the given key from the default directory
func MustLoad(key string, v interface{}) {
	if err := Load(Path, key, v); err != nil {
		panic(err.Error())
	}
}
