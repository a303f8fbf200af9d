package handler

import "net/http"

func Routes(platform, connect *WebhookHandler, events *EventsHandler, health *HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Liveness)
	mux.HandleFunc("GET /docs", ServeDocs)
	mux.HandleFunc("GET /docs/openapi.yaml", ServeSpec)

	mux.HandleFunc("POST /platform-webhook", platform.Receive)
	mux.HandleFunc("POST /connect-webhook", connect.Receive)

	mux.HandleFunc("GET /api/events", events.List)
	mux.HandleFunc("GET /api/events/check-new", events.CheckNew)
	mux.HandleFunc("/api/", events.NotFound)
	return mux
}
