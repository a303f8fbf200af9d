package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/josh-kwaku/stripe-live-feed/internal/config"
	"github.com/josh-kwaku/stripe-live-feed/internal/domain"
	"github.com/josh-kwaku/stripe-live-feed/internal/handler"
	"github.com/josh-kwaku/stripe-live-feed/internal/logging"
	"github.com/josh-kwaku/stripe-live-feed/internal/middleware"
	"github.com/josh-kwaku/stripe-live-feed/internal/normalize"
	"github.com/josh-kwaku/stripe-live-feed/internal/signature"
	"github.com/josh-kwaku/stripe-live-feed/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("stripe-live-feed", cfg.LogLevel, cfg.AppEnv)

	events := store.New(cfg.EventStoreCapacity)
	verifier := signature.NewVerifier(cfg.WebhookTolerance)
	normalizer := normalize.New()

	platform := handler.NewWebhookHandler(domain.ChannelPlatform, cfg.PlatformWebhookSecret, verifier, normalizer, events, cfg.MaxBodyBytes)
	connect := handler.NewWebhookHandler(domain.ChannelConnect, cfg.ConnectWebhookSecret, verifier, normalizer, events, cfg.MaxBodyBytes)
	warnMissingSecret(platform.Channel(), cfg.PlatformWebhookSecret)
	warnMissingSecret(connect.Channel(), cfg.ConnectWebhookSecret)
	if cfg.WebhookTolerance == 0 {
		slog.Info("webhook timestamp tolerance disabled")
	}

	mux := handler.Routes(platform, connect, handler.NewEventsHandler(events), handler.NewHealthHandler(events))
	root := middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging,
		middleware.Recovery,
		middleware.CORS(cfg.CORSAllowedOrigin),
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "event_store_capacity", events.Capacity())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped", "events_discarded", events.Len())
}

func warnMissingSecret(ch domain.Channel, secret string) {
	if secret == "" {
		slog.Warn("webhook secret not configured, deliveries will be rejected", "channel", ch)
	}
}
