package handler

import (
	"net/http"
	"time"
)

type storeStats interface {
	Len() int
	Capacity() int
}

type HealthHandler struct {
	stats storeStats
}

func NewHealthHandler(stats storeStats) *HealthHandler {
	return &HealthHandler{stats: stats}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"events":    h.stats.Len(),
		"capacity":  h.stats.Capacity(),
	})
}
