package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/drakos74/nn-playground/infra/config"
	"github.com/drakos74/nn-playground/internal/math/ml"
	"github.com/drakos74/nn-playground/internal/session"
	cointime "github.com/drakos74/nn-playground/internal/time"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Settings is the configuration of the playground server.
type Settings struct {
	Session    session.Config    `json:"session"`
	Interval   cointime.Duration `json:"interval"`
	Resolution int               `json:"resolution"`
	History    int               `json:"history"`
	Port       int               `json:"port"`
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {

	key := flag.String("config", "playground", "config key under "+config.Path)
	debug := flag.Bool("debug", false, "log every request payload and epoch")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var settings Settings
	config.MustLoad(*key, &settings)
	if settings.History > 0 {
		settings.Session.History = settings.History
	}
	if settings.Resolution <= 0 {
		settings.Resolution = ml.DefaultResolution
	}

	s, err := session.New(settings.Session)
	if err != nil {
		log.Fatal().Err(err).Str("config", *key).Msg("could not create session")
	}
	trainer := session.NewTrainer(s, settings.Interval.Duration)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go trainer.Run(ctx)

	srv := newPlayground(trainer, settings.Resolution).server(settings.Port, *debug)
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Int("port", settings.Port).Msg("server stopped")
	}
	log.Info().Msg("shutting down")
}
