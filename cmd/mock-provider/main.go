// Command mock-provider plays the payment provider: it builds sample webhook
// events, signs them with the channel secret and delivers them to a running
// stripe-live-feed server.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/josh-kwaku/stripe-live-feed/internal/config"
	"github.com/josh-kwaku/stripe-live-feed/internal/domain"
	"github.com/josh-kwaku/stripe-live-feed/internal/logging"
	"github.com/josh-kwaku/stripe-live-feed/internal/signature"
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:4000", "server base URL")
		channel   = flag.String("channel", string(domain.ChannelPlatform), "platform or connect")
		eventType = flag.String("type", "charge.succeeded", "provider event type")
		account   = flag.String("account", "acct_mock", "connected account id (connect channel only)")
		count     = flag.Int("count", 1, "number of events to send")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Init("mock-provider", cfg.LogLevel, "development")

	ch := domain.Channel(*channel)
	secret, path := cfg.PlatformWebhookSecret, "/platform-webhook"
	switch ch {
	case domain.ChannelPlatform:
	case domain.ChannelConnect:
		secret, path = cfg.ConnectWebhookSecret, "/connect-webhook"
	default:
		slog.Error("unknown channel", "channel", *channel)
		os.Exit(2)
	}
	if secret == "" {
		slog.Error("no webhook secret configured for channel", "channel", ch)
		os.Exit(1)
	}

	sender := newSender(*baseURL+path, secret)
	ctx := context.Background()
	for i := 0; i < *count; i++ {
		acct := ""
		if ch.IsConnect() {
			acct = *account
		}
		body, err := sampleEvent(*eventType, acct, time.Now())
		if err != nil {
			slog.Error("failed to build sample event", "error", err)
			os.Exit(1)
		}
		if err := sender.send(ctx, body); err != nil {
			slog.Error("delivery failed", "error", err)
			os.Exit(1)
		}
	}
}

type sender struct {
	url        string
	secret     string
	httpClient *http.Client
}

func newSender(url, secret string) *sender {
	return &sender{
		url:        url,
		secret:     secret,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *sender) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signature.HeaderName, signature.Sign(body, s.secret, time.Now()))

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()

	slog.Info("webhook delivered",
		"url", s.url,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
