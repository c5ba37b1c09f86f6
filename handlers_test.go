package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRelay points the relay globals at a fake router and returns the real
// route tree, so handler tests go through the same middleware stack as
// production.
func setupRelay(t *testing.T, f *fakeRouter) chi.Router {
	t.Helper()
	ts := startFakeRouter(t, f)

	originalCfg := serveConfig
	t.Cleanup(func() { serveConfig = originalCfg })
	serveConfig = testConfig(t, ts)

	originalAuth := middlewareAuth
	t.Cleanup(func() { middlewareAuth = originalAuth })
	middlewareAuth = false

	resetSessionCache(t)
	return newRelayRouter()
}

func doRequest(r chi.Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// --- Handler Tests ---

func TestHealthCheckHandler(t *testing.T) {
	r := setupRelay(t, newFakeRouter())

	rec := doRequest(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestListDevicesHandler(t *testing.T) {
	router := newFakeRouter()
	r := setupRelay(t, router)
	serveConfig.Devices = map[string]string{
		"nas":     "11:22:33:44:55:66",
		"default": mockMAC,
	}

	rec := doRequest(r, http.MethodGet, "/api/v1/fritz/devices")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data struct {
			Devices []string `json:"devices"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, []string{"default", "nas"}, payload.Data.Devices)
}

func TestWakeDeviceHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router := newFakeRouter()
		r := setupRelay(t, router)

		rec := doRequest(r, http.MethodPost, "/api/v1/fritz/wake/mypc")
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeEnvelope(t, rec)
		assert.Equal(t, StatusOK, resp.Status)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "mypc", data["device"])
		assert.Equal(t, mockMAC, data["mac"])
		assert.Equal(t, mockUID, data["uid"])
	})
	t.Run("Session reused across requests", func(t *testing.T) {
		router := newFakeRouter()
		r := setupRelay(t, router)

		for i := 0; i < 3; i++ {
			rec := doRequest(r, http.MethodPost, "/api/v1/fritz/wake/mypc")
			require.Equal(t, http.StatusOK, rec.Code)
		}
		assert.Equal(t, 1, router.loginCount, "cached SID must avoid re-authentication")
	})
	t.Run("Unknown device", func(t *testing.T) {
		router := newFakeRouter()
		r := setupRelay(t, router)

		rec := doRequest(r, http.MethodPost, "/api/v1/fritz/wake/toaster")
		require.Equal(t, http.StatusNotFound, rec.Code)

		resp := decodeEnvelope(t, rec)
		assert.Contains(t, resp.Error, "unknown device")
		assert.Contains(t, resp.Error, "mypc")
		assert.Zero(t, router.loginCount, "config failures must not touch the router")
	})
	t.Run("Device not known to router", func(t *testing.T) {
		router := newFakeRouter()
		router.active = nil
		r := setupRelay(t, router)

		rec := doRequest(r, http.MethodPost, "/api/v1/fritz/wake/mypc")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
	t.Run("Wake failure invalidates cached session", func(t *testing.T) {
		router := newFakeRouter()
		router.wakeOK = false
		r := setupRelay(t, router)

		rec := doRequest(r, http.MethodPost, "/api/v1/fritz/wake/mypc")
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		_, cached := sessionCacheInstance.get(serveConfig.routerURL())
		assert.False(t, cached)
	})
	t.Run("Auth failure", func(t *testing.T) {
		router := newFakeRouter()
		router.rejectLogin = true
		r := setupRelay(t, router)

		rec := doRequest(r, http.MethodPost, "/api/v1/fritz/wake/mypc")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		resp := decodeEnvelope(t, rec)
		assert.Contains(t, resp.Error, "authentication failed")
	})
}

func TestClearSessionsHandler(t *testing.T) {
	router := newFakeRouter()
	r := setupRelay(t, router)

	// Prime the cache with one wake
	rec := doRequest(r, http.MethodPost, "/api/v1/fritz/wake/mypc")
	require.Equal(t, http.StatusOK, rec.Code)
	_, cached := sessionCacheInstance.get(serveConfig.routerURL())
	require.True(t, cached)

	rec = doRequest(r, http.MethodPost, "/api/v1/fritz/session/clear")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgSessionsCleared)

	_, cached = sessionCacheInstance.get(serveConfig.routerURL())
	assert.False(t, cached)

	// Next wake runs a fresh handshake
	rec = doRequest(r, http.MethodPost, "/api/v1/fritz/wake/mypc")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, router.loginCount)
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusForError(ErrDeviceNotFound))
	assert.Equal(t, http.StatusBadGateway, statusForError(ErrAuthFailed))
	assert.Equal(t, http.StatusBadGateway, statusForError(ErrConnection))
	assert.Equal(t, http.StatusBadGateway, statusForError(ErrProtocol))
	assert.Equal(t, http.StatusBadGateway, statusForError(ErrWakeFailed))
	assert.Equal(t, http.StatusInternalServerError, statusForError(assert.AnError))
}
