package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/stripe-live-feed/internal/domain"
	"github.com/josh-kwaku/stripe-live-feed/internal/logging"
	"github.com/josh-kwaku/stripe-live-feed/internal/normalize"
	"github.com/josh-kwaku/stripe-live-feed/internal/signature"
)

const DefaultMaxBodyBytes = 1 << 20

type signatureChecker interface {
	Check(payload []byte, header, secret string) error
}

type eventNormalizer interface {
	Normalize(evt normalize.ProviderEvent, ch domain.Channel) domain.NormalizedEvent
}

type eventSink interface {
	Push(e domain.NormalizedEvent)
}

// WebhookHandler ingests provider webhooks for one channel. The platform and
// connect channels use separate handlers sharing one sink.
type WebhookHandler struct {
	channel    domain.Channel
	secret     string
	verifier   signatureChecker
	normalizer eventNormalizer
	events     eventSink
	maxBody    int64
}

func NewWebhookHandler(
	channel domain.Channel,
	secret string,
	verifier signatureChecker,
	normalizer eventNormalizer,
	events eventSink,
	maxBody int64,
) *WebhookHandler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &WebhookHandler{
		channel:    channel,
		secret:     secret,
		verifier:   verifier,
		normalizer: normalizer,
		events:     events,
		maxBody:    maxBody,
	}
}

func (h *WebhookHandler) Channel() domain.Channel { return h.channel }

// Receive verifies the signature over the raw body before anything is
// decoded. Every rejection is a 400 with a plain text reason and leaves the
// store untouched.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context()).With("channel", h.channel)

	sig := r.Header.Get(signature.HeaderName)
	if err := h.checkPreconditions(sig); err != nil {
		log.Warn("missing signature or secret",
			"has_signature", sig != "",
			"has_secret", h.secret != "",
		)
		respondWebhookError(w, err)
		return
	}

	body, err := h.readBody(r)
	if err != nil {
		log.Warn("failed to read webhook body", "error", err)
		respondWebhookError(w, err)
		return
	}

	if err := h.verifier.Check(body, sig, h.secret); err != nil {
		log.Warn("webhook signature verification failed", "error", err)
		log.Debug("rejected webhook",
			"signature", sig,
			"body_length", len(body),
			"body_prefix", logging.Truncate(string(body), 100),
		)
		respondWebhookError(w, fmt.Errorf("Receive: %w: %v", domain.ErrInvalidSignature, err))
		return
	}

	evt, err := normalize.ParseEvent(body)
	if err != nil {
		log.Warn("failed to parse webhook payload", "error", err)
		respondWebhookError(w, err)
		return
	}

	event := h.normalizer.Normalize(evt, h.channel)
	h.events.Push(event)

	log.Info("webhook event stored",
		"provider_event_id", evt.ID,
		"provider_event_type", evt.Type,
		"category", event.Type,
		"event_timestamp", event.Timestamp.String(),
	)
	if event.Type == domain.CategoryGeneric {
		log.Info("unhandled event type stored as generic", "provider_event_type", evt.Type)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) checkPreconditions(sig string) error {
	if sig == "" {
		return domain.ErrMissingSignature
	}
	if h.secret == "" {
		return domain.ErrMissingSecret
	}
	return nil
}

func (h *WebhookHandler) readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if int64(len(body)) > h.maxBody {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrMalformedPayload, h.maxBody)
	}
	return body, nil
}

func respondWebhookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingSignature), errors.Is(err, domain.ErrMissingSecret):
		RespondText(w, ErrMissingSignatureOrSecret, "")
	case errors.Is(err, domain.ErrInvalidSignature):
		RespondText(w, ErrInvalidSignature, "")
	case errors.Is(err, domain.ErrMalformedPayload):
		RespondText(w, ErrWebhookPayload, err.Error())
	default:
		slog.Error("unhandled webhook error", "error", err)
		RespondText(w, ErrWebhookPayload, err.Error())
	}
}
