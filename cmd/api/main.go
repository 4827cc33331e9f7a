package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cimillas/cert-checkout/internal/app"
	"github.com/cimillas/cert-checkout/internal/clock"
	"github.com/cimillas/cert-checkout/internal/storage/dropbox"
	transporthttp "github.com/cimillas/cert-checkout/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const defaultPort = "12001"
const defaultCORSOrigins = "http://localhost:5173,http://127.0.0.1:5173"
const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}

	port := os.Getenv("PORT")
	if port == "" {
		logger.Warn().Msgf("PORT not set, using default %s", defaultPort)
		port = defaultPort
	}

	corsEnv := os.Getenv("CORS_ORIGINS")
	if corsEnv == "" {
		logger.Warn().Msg("CORS_ORIGINS not set, using default local origins")
		corsEnv = defaultCORSOrigins
	}

	storageCfg := dropbox.Config{
		AppKey:       os.Getenv("DROPBOX_APP_KEY"),
		AppSecret:    os.Getenv("DROPBOX_APP_SECRET"),
		RefreshToken: os.Getenv("DROPBOX_REFRESH_TOKEN"),
		RootFolder:   os.Getenv("ORDERS_FOLDER"),
	}
	if storageCfg.AppKey == "" || storageCfg.AppSecret == "" || storageCfg.RefreshToken == "" {
		logger.Fatal().Msg("DROPBOX_APP_KEY, DROPBOX_APP_SECRET and DROPBOX_REFRESH_TOKEN are required")
	}
	if intervalEnv := os.Getenv("TOKEN_REFRESH_INTERVAL"); intervalEnv != "" {
		interval, err := time.ParseDuration(intervalEnv)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid TOKEN_REFRESH_INTERVAL")
		}
		storageCfg.RefreshInterval = interval
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens := dropbox.NewTokenSource(storageCfg, clock.NewSystem(), logger)

	startupCtx, cancel := context.WithTimeout(runCtx, 30*time.Second)
	if err := tokens.Refresh(startupCtx); err != nil {
		// The first submission retries the refresh; startup continues.
		logger.Warn().Err(err).Msg("initial token refresh failed")
	}
	cancel()

	go tokens.RunRefreshLoop(runCtx)

	store := dropbox.NewClient(storageCfg, tokens, logger)
	checkoutSvc := app.NewCheckoutService(store, clock.NewSystem())
	catalogSvc := app.NewCatalogService()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/api/catalog", transporthttp.HandleCatalog(catalogSvc))
	mux.Handle("/api/submit-payment", transporthttp.HandleSubmitPayment(checkoutSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	corsOrigins := parseCSV(corsEnv)
	handler := transporthttp.RequestLogger(transporthttp.CORS(corsOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	logger.Info().Str("port", port).Msg("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-runCtx.Done():
		logger.Info().Msg("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("server stopped")
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
