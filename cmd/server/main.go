package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ArthaOnboard/internal/adapters/aigateway"
	"ArthaOnboard/internal/adapters/alerts"
	"ArthaOnboard/internal/adapters/deliverability"
	"ArthaOnboard/internal/adapters/eventbus"
	"ArthaOnboard/internal/adapters/mailer"
	"ArthaOnboard/internal/adapters/memstore"
	"ArthaOnboard/internal/adapters/qr"
	"ArthaOnboard/internal/core/ports"
	"ArthaOnboard/internal/httpapi"
	"ArthaOnboard/internal/onboarding"
	"ArthaOnboard/internal/shared/config"
	"ArthaOnboard/internal/shared/logger"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	isDevMode := cfg.AppEnv == "dev"
	baseLogger := logger.New(isDevMode)
	baseLogger.Info().Str("app_env", cfg.AppEnv).Msg("Configuration loaded")

	if !cfg.GatewayConfigured() {
		// Not fatal: requests that need the gateway answer with a
		// generic 500 until the key is supplied.
		baseLogger.Warn().Msg("AI_GATEWAY_API_KEY is not set; assistant endpoints will return configuration errors")
	}

	// 3. Outbound adapters
	gateway := aigateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.ChatModel, cfg.Gateway.VisionModel, &baseLogger)
	mailClient := mailer.NewClient(cfg.Mail.BaseURL, cfg.Mail.APIKey, cfg.Mail.From, &baseLogger)
	qrDecoder := qr.NewDecoder(&baseLogger)

	var deliverabilityClient ports.DeliverabilityChecker
	if cfg.Deliverability.BaseURL != "" {
		deliverabilityClient = deliverability.NewClient(cfg.Deliverability.BaseURL, cfg.Deliverability.APIKey, &baseLogger)
	} else {
		baseLogger.Info().Msg("Deliverability service not configured; format checks only")
	}

	// 4. Event bus + optional ops review alerts
	bus := eventbus.NewInMemoryEventBus(&baseLogger)
	notifier, err := alerts.NewReviewNotifier(cfg.Alerts.BotToken, cfg.Alerts.ChannelID, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to initialize review notifier")
	}
	notifier.Subscribe(bus)

	// 5. Session store + onboarding engine
	store := memstore.NewSessionStore(&baseLogger)
	controller := onboarding.NewController(store, gateway, gateway, gateway, deliverabilityClient, mailClient, qrDecoder, bus, &baseLogger)

	// 6. HTTP surface
	handler := httpapi.NewHandler(cfg, controller, gateway, gateway, deliverabilityClient, mailClient, &baseLogger)
	router := httpapi.NewRouter(handler, &baseLogger)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info().Str("port", cfg.ServerPort).Msg("Starting onboarding server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	baseLogger.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error().Err(err).Msg("Graceful shutdown failed")
	}
	baseLogger.Info().Msg("Server stopped")
}
