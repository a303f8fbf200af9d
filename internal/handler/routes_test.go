package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/stripe-live-feed/internal/domain"
	"github.com/josh-kwaku/stripe-live-feed/internal/normalize"
	"github.com/josh-kwaku/stripe-live-feed/internal/signature"
	"github.com/josh-kwaku/stripe-live-feed/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.EventStore) {
	t.Helper()

	events := store.New(store.DefaultCapacity)
	verifier := signature.NewVerifier(0)
	normalizer := normalize.New()

	mux := Routes(
		NewWebhookHandler(domain.ChannelPlatform, testPlatformSecret, verifier, normalizer, events, 0),
		NewWebhookHandler(domain.ChannelConnect, testConnectSecret, verifier, normalizer, events, 0),
		NewEventsHandler(events),
		NewHealthHandler(events),
	)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, events
}

func postWebhook(t *testing.T, url, body, sig string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signature.HeaderName, sig)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getEvents(t *testing.T, srv *httptest.Server) []map[string]any {
	t.Helper()
	resp, err := http.Get(srv.URL + "/api/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	return events
}

func TestEndToEnd_PlatformWebhook(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postWebhook(t, srv.URL+"/platform-webhook", customerCreatedBody, sign(customerCreatedBody, testPlatformSecret))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events := getEvents(t, srv)
	require.Len(t, events, 1)
	assert.Equal(t, "customer", events[0]["type"])
	assert.Equal(t, "a@b.com", events[0]["email"])
	v, present := events[0]["connectAccount"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestEndToEnd_AlteredSignatureRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	sig := sign(customerCreatedBody, testPlatformSecret)
	i := strings.Index(sig, "v1=") + 3
	flipped := "0"
	if sig[i] == '0' {
		flipped = "1"
	}
	altered := sig[:i] + flipped + sig[i+1:]

	resp := postWebhook(t, srv.URL+"/platform-webhook", customerCreatedBody, altered)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Empty(t, getEvents(t, srv))
}

func TestEndToEnd_ChannelsUseTheirOwnSecret(t *testing.T) {
	srv, _ := newTestServer(t)
	body := `{"type":"payment_intent.succeeded","account":"acct_9","data":{"object":{"status":"succeeded","amount":1500,"currency":"eur","created":1700000000}}}`

	resp := postWebhook(t, srv.URL+"/connect-webhook", body, sign(body, testPlatformSecret))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postWebhook(t, srv.URL+"/connect-webhook", body, sign(body, testConnectSecret))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events := getEvents(t, srv)
	require.Len(t, events, 1)
	assert.Equal(t, "payment_intent", events[0]["type"])
	assert.Equal(t, "acct_9", events[0]["connectAccount"])
	assert.Equal(t, 15.0, events[0]["amount"])
	assert.Equal(t, "Connect payment intent succeeded", events[0]["details"])
}

func TestEndToEnd_CheckNewAfterIngest(t *testing.T) {
	srv, _ := newTestServer(t)

	checkNew := func(last string) bool {
		resp, err := http.Get(srv.URL + "/api/events/check-new?lastTimestamp=" + last)
		require.NoError(t, err)
		defer resp.Body.Close()
		var body struct {
			HasNewEvents bool `json:"hasNewEvents"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.HasNewEvents
	}

	assert.True(t, checkNew(""), "first poll on an empty store")

	resp := postWebhook(t, srv.URL+"/platform-webhook", customerCreatedBody, sign(customerCreatedBody, testPlatformSecret))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events := getEvents(t, srv)
	require.Len(t, events, 1)
	last := events[0]["timestamp"].(string)

	assert.True(t, checkNew(""))
	assert.False(t, checkNew(last))
}

func TestEndToEnd_ConcurrentDeliveries(t *testing.T) {
	srv, events := newTestServer(t)
	body := `{"type":"charge.succeeded","data":{"object":{"status":"succeeded","amount":100,"currency":"usd","created":1700000000}}}`
	sig := sign(body, testPlatformSecret)

	var wg sync.WaitGroup
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodPost, srv.URL+"/platform-webhook", strings.NewReader(body))
			req.Header.Set(signature.HeaderName, sig)
			resp, err := http.DefaultClient.Do(req)
			if assert.NoError(t, err) {
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, store.DefaultCapacity, events.Len())
}

func TestRoutes_UnknownAPIPath(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/unknown")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "API endpoint not found", body["error"])
}

func TestRoutes_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(store.DefaultCapacity), body["capacity"])
}

func TestRoutes_Docs(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/docs/openapi.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
}
