// Package signature authenticates webhook payloads signed by the payment
// provider. A signature header is a comma separated list of key=value pairs
// carrying the signing time (t) and one or more HMAC-SHA256 digests (v1) of
// "<t>.<raw body>", hex encoded.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HeaderName is the request header carrying the signature.
const HeaderName = "Stripe-Signature"

const (
	timestampKey = "t"
	schemeV1     = "v1"
)

var (
	ErrMalformedHeader = errors.New("malformed signature header")
	ErrNoMatch         = errors.New("no signature matches the payload")
	ErrStaleTimestamp  = errors.New("signature timestamp outside tolerance")
)

type Header struct {
	Timestamp  string
	Signatures []string
}

// ParseHeader extracts the first t value and every v1 value. Unknown keys
// (other schemes) are ignored.
func ParseHeader(header string) (Header, error) {
	var h Header
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || value == "" {
			continue
		}
		switch key {
		case timestampKey:
			if h.Timestamp == "" {
				h.Timestamp = value
			}
		case schemeV1:
			h.Signatures = append(h.Signatures, value)
		}
	}

	if h.Timestamp == "" {
		return Header{}, fmt.Errorf("ParseHeader: no %s= token: %w", timestampKey, ErrMalformedHeader)
	}
	if _, err := strconv.ParseInt(h.Timestamp, 10, 64); err != nil {
		return Header{}, fmt.Errorf("ParseHeader: timestamp %q: %w", h.Timestamp, ErrMalformedHeader)
	}
	if len(h.Signatures) == 0 {
		return Header{}, fmt.Errorf("ParseHeader: no %s= token: %w", schemeV1, ErrMalformedHeader)
	}
	return h, nil
}

// Compute returns the hex encoded HMAC-SHA256 of "<timestamp>.<payload>".
func Compute(timestamp string, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign builds a header value for payload as the provider would at time t.
func Sign(payload []byte, secret string, t time.Time) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	return fmt.Sprintf("%s=%s,%s=%s", timestampKey, ts, schemeV1, Compute(ts, payload, secret))
}

type Verifier struct {
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier returns a verifier that rejects signatures older than tolerance.
// A zero tolerance disables the staleness check.
func NewVerifier(tolerance time.Duration) *Verifier {
	return &Verifier{tolerance: tolerance, now: time.Now}
}

// Check reports why payload does not carry a valid signature, or nil if it
// does. payload must be the request body exactly as received.
func (v *Verifier) Check(payload []byte, header, secret string) error {
	h, err := ParseHeader(header)
	if err != nil {
		return err
	}

	if v.tolerance > 0 {
		sec, _ := strconv.ParseInt(h.Timestamp, 10, 64)
		age := v.now().Sub(time.Unix(sec, 0))
		if age < 0 {
			age = -age
		}
		if age > v.tolerance {
			return fmt.Errorf("Check: signed %s ago: %w", age.Round(time.Second), ErrStaleTimestamp)
		}
	}

	expected := []byte(Compute(h.Timestamp, payload, secret))
	for _, sig := range h.Signatures {
		if hmac.Equal(expected, []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("Check: %w", ErrNoMatch)
}

func (v *Verifier) Verify(payload []byte, header, secret string) bool {
	return v.Check(payload, header, secret) == nil
}

var defaultVerifier = NewVerifier(0)

// Verify checks payload against header using secret without a staleness bound.
func Verify(payload []byte, header, secret string) bool {
	return defaultVerifier.Verify(payload, header, secret)
}
