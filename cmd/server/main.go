// Command server runs the booking backend: payment order creation, callback
// verification, booking-token access control, the service catalog, and the
// contact form, behind a single Gin HTTP server.
//
// @title        Booking Backend API
// @version      1.0
// @description  Payment, booking-token, catalog, and contact API for a therapy practice.
// @BasePath     /api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/serenemind/go-booking-backend/docs"
	"github.com/serenemind/go-booking-backend/internal/config"
	"github.com/serenemind/go-booking-backend/internal/gateway"
	httpapi "github.com/serenemind/go-booking-backend/internal/http"
	"github.com/serenemind/go-booking-backend/internal/observability"
	"github.com/serenemind/go-booking-backend/internal/repo"
	"github.com/serenemind/go-booking-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run() error {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	setupLogging(cfg)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOTel(ctxShutdown)
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Warn().Err(err).Msg("db tracing disabled")
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		return err
	}

	gw := initGateway(cfg)
	cache := initTokenCache(ctx, cfg)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, gw, cache, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func setupLogging(cfg config.Config) {
	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// initGateway builds the payment-gateway client. Missing or malformed
// credentials degrade the payment endpoints to 502 instead of aborting
// startup: the catalog, contact, and access endpoints keep working.
func initGateway(cfg config.Config) *gateway.Client {
	gw, err := gateway.New(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	if err != nil {
		log.Warn().Err(err).Msg("payment gateway not configured; payment endpoints will answer 502")
		return nil
	}
	log.Info().Msg("payment gateway configured")
	return gw
}

// initTokenCache connects the optional Redis token cache. A missing address
// or failed ping disables caching; token checks then go straight to SQLite.
func initTokenCache(ctx context.Context, cfg config.Config) *repo.TokenCache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := repo.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis connection failed, continuing without token cache")
		_ = client.Close()
		return nil
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis token cache connected")
	return repo.NewTokenCache(client)
}
