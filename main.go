package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cotisations/backend/internal/config"
	v1 "github.com/cotisations/backend/internal/controllers/v1"
	"github.com/cotisations/backend/internal/router"
	"github.com/cotisations/backend/pkg/state"
	"github.com/cotisations/backend/pkg/store"
	"github.com/cotisations/backend/pkg/store/jsonfile"
	"github.com/cotisations/backend/pkg/store/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// A .env file is optional, the environment always takes precedence
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Msg(err.Error())
	}

	gin.SetMode(cfg.GinMode)

	output := io.Writer(os.Stdout)
	if cfg.HumanLogs() {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(cfg)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Error().Err(err).Msg("closing the store")
		}
	}()

	st, err := state.New(ctx, s, state.Options{
		DeletePolicy:    cfg.DeletePolicy,
		LeaderboardSize: cfg.LeaderboardSize,
	})
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, teardown, err := router.Config(*cfg)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(v1.New(st, cfg.Currency), r.Group("/"))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", server.Addr).Str("backend", string(cfg.StorageBackend)).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("stopped")
}

// openStore opens the configured storage backend in the data directory.
func openStore(cfg *config.Config) (store.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}

	switch cfg.StorageBackend {
	case store.BackendJSON:
		return jsonfile.New(cfg.DataDir)
	case store.BackendSQLite:
		return sqlite.New(cfg.SQLitePath())
	}

	return nil, fmt.Errorf("%w: %s", store.ErrUnknownBackend, cfg.StorageBackend)
}
