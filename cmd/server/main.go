package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lexicard/api"
	"github.com/domino14/lexicard/bot"
	"github.com/domino14/lexicard/config"
	"github.com/domino14/lexicard/store"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	_ = godotenv.Load()
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.AdjustRelativePaths(exPath)

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.GetString(config.ConfigDBPath))
	if err != nil {
		log.Fatal().Err(err).Msg("open-store")
	}
	defer st.Close()

	srv := api.New(ctx, cfg, st)
	if cfg.GetBool(config.ConfigRemoteCPU) {
		nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
		if err != nil {
			log.Fatal().Err(err).Msg("nats-connect")
		}
		defer nc.Close()
		srv.Search = bot.NewClient(nc, cfg.GetString(config.ConfigBotChannel)).Search
		log.Info().Str("channel", cfg.GetString(config.ConfigBotChannel)).Msg("using-remote-cpu")
	}

	n, err := srv.Resume(ctx)
	if err != nil {
		log.Error().Err(err).Msg("resume-failed")
	} else if n > 0 {
		log.Info().Int("matches", n).Msg("resumed-matches")
	}

	if err := srv.Start(cfg.GetString(config.ConfigListenAddr)); err != nil {
		log.Fatal().Err(err).Msg("server-exited")
	}
	log.Info().Msg("server gracefully shutting down")
}
