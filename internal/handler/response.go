package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type checkNewResponse struct {
	HasNewEvents bool `json:"hasNewEvents"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// RespondAppError writes appErr as a JSON object for API clients.
func RespondAppError(w http.ResponseWriter, appErr *AppError) {
	RespondJSON(w, appErr.Status, errorResponse{Error: appErr.Message, Code: appErr.Code})
}

// RespondText writes appErr as a plain text reason, the format the provider
// records in its delivery log. A non-empty detail is appended after a colon.
func RespondText(w http.ResponseWriter, appErr *AppError, detail string) {
	msg := appErr.Message
	if detail != "" {
		msg += ": " + detail
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(appErr.Status)
	if _, err := w.Write([]byte(msg)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
