package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lexicard/bot"
	"github.com/domino14/lexicard/config"
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
	log.Info().Msgf("Loaded config: %v, exPath: %v", cfg.SanitizedSettings(), exPath)

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bot.NewBot(cfg)
	if err := bot.Main(ctx, cfg.GetString(config.ConfigBotChannel), b); err != nil {
		log.Fatal().Err(err).Msg("bot-exited")
	}
	log.Info().Msg("bot gracefully shutting down")
}
