package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormatch/assets"
	"github.com/robalobadob/colormatch/internal/color"
	"github.com/robalobadob/colormatch/internal/httpserver"
	"github.com/robalobadob/colormatch/internal/results"
	"github.com/robalobadob/colormatch/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := results.Open(cfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", cfg.DSN).Msg("failed to open database")
	}
	defer db.Close()
	if err := results.Migrate(ctx, db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Str("dsn", cfg.DSN).Msg("submission log ready")

	sessions := store.NewMemoryStore()
	subs := results.NewStore(db)
	go store.RunSweeper(ctx, sessions, cfg.IdleTTL, cfg.SweepEvery, func(ctx context.Context, ids []string) {
		for _, id := range ids {
			if err := subs.Forget(ctx, id); err != nil {
				log.Warn().Err(err).Str("session", id).Msg("forget swept session")
			}
		}
	})

	srv := httpserver.New(sessions, subs, color.NewRandom(), cfg.HTTP)
	log.Info().Str("port", cfg.Port).Str("policy", string(cfg.HTTP.Policy)).Msg("starting go-server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global zerolog logger.
func setupLogging(cfg config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
