package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type sampleEnvelope struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Type    string         `json:"type"`
	Created int64          `json:"created"`
	Account string         `json:"account,omitempty"`
	Data    map[string]any `json:"data"`
}

// sampleEvent returns a provider shaped event body for eventType. Unknown
// types get an empty object so the server's generic path can be exercised.
func sampleEvent(eventType, account string, now time.Time) ([]byte, error) {
	created := now.Unix()
	obj := sampleObject(eventType, created)

	body, err := json.Marshal(sampleEnvelope{
		ID:      "evt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24],
		Object:  "event",
		Type:    eventType,
		Created: created,
		Account: account,
		Data:    map[string]any{"object": obj},
	})
	if err != nil {
		return nil, fmt.Errorf("sampleEvent: %w", err)
	}
	return body, nil
}

func sampleObject(eventType string, created int64) map[string]any {
	prefix, action, _ := strings.Cut(eventType, ".")
	switch prefix {
	case "charge":
		status := "succeeded"
		if action == "failed" {
			status = "failed"
		}
		return map[string]any{
			"object":   "charge",
			"status":   status,
			"amount":   4999,
			"currency": "usd",
			"created":  created,
			"billing_details": map[string]any{
				"address": map[string]any{"country": "US"},
			},
		}
	case "customer":
		if strings.HasPrefix(action, "subscription.") {
			return map[string]any{
				"object":   "subscription",
				"status":   "active",
				"currency": "usd",
				"created":  created,
				"items": map[string]any{"data": []any{map[string]any{
					"quantity": 2,
					"plan":     map[string]any{"nickname": "Pro", "amount": 2900, "currency": "usd"},
				}}},
			}
		}
		return map[string]any{"object": "customer", "email": "jenny@example.com", "created": created}
	case "application_fee":
		return map[string]any{"object": "application_fee", "amount": 150, "currency": "usd", "created": created}
	case "subscription_schedule":
		return map[string]any{"object": "subscription_schedule", "status": "active", "created": created}
	case "invoice":
		return map[string]any{
			"object":         "invoice",
			"status":         "paid",
			"total":          5800,
			"currency":       "usd",
			"customer_email": "jenny@example.com",
			"created":        created,
		}
	case "checkout":
		return map[string]any{"object": "checkout.session", "status": "expired", "created": created}
	case "payment_intent":
		return map[string]any{"object": "payment_intent", "status": action, "amount": 2000, "currency": "eur", "created": created}
	}
	return map[string]any{}
}
