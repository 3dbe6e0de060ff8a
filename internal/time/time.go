package time

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Duration is a time.Duration that reads and writes its json form as a string, e.g. "100ms".
// Plain numbers are read as nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// Execute executes the given function at the specified interval until the context is done.
// Every execution completes before the next tick is consumed, ticks missed meanwhile are dropped.
func Execute(ctx context.Context, interval time.Duration, exec func() error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := exec(); err != nil {
				log.Warn().Err(err).Msg("execution failed")
			}
		case <-ctx.Done():
			log.Info().Float64("interval", interval.Seconds()).Msg("execution stopped")
			return
		}
	}
}
