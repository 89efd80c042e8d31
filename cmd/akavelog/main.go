package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/akave-ai/akavelog/internal/config"
	"github.com/akave-ai/akavelog/internal/database"
	"github.com/akave-ai/akavelog/internal/server"
	"github.com/akave-ai/akavelog/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Run from the module root so internal/database/migrations resolves.
	baseDir, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("getwd")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.Database.DSN()
	if err := database.RunMigrations(ctx, dsn, baseDir); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database pool")
	}
	defer pool.Close()

	st := store.New(pool)
	srv := server.New(cfg, st)

	if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
