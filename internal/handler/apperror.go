package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingSignatureOrSecret = &AppError{http.StatusBadRequest, "MISSING_SIGNATURE_OR_SECRET", "Missing signature or secret"}
	ErrInvalidSignature         = &AppError{http.StatusBadRequest, "INVALID_SIGNATURE", "Invalid signature"}
	ErrWebhookPayload           = &AppError{http.StatusBadRequest, "WEBHOOK_ERROR", "Webhook Error"}
	ErrEndpointNotFound         = &AppError{http.StatusNotFound, "NOT_FOUND", "API endpoint not found"}
	ErrInternalError            = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"}
)
