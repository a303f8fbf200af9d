package domain

import "errors"

var (
	ErrMissingSignature = errors.New("missing signature")
	ErrMissingSecret    = errors.New("missing webhook secret")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMalformedPayload = errors.New("malformed payload")
)
