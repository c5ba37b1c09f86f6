package main

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// healthCheckHandler handles health check requests to verify service status
func healthCheckHandler(w http.ResponseWriter, _ *http.Request) {
	sendResponse(w, http.StatusOK, StatusOK, map[string]string{"status": "healthy"})
}

// listDevicesHandler returns the device names configured for this relay.
// Only names are exposed; MAC addresses stay server-side.
func listDevicesHandler(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(serveConfig.Devices))
	for name := range serveConfig.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	sendResponse(w, http.StatusOK, StatusOK, map[string][]string{"devices": names})
}

// clearSessionsHandler drops all cached router sessions, forcing the next
// wake request to run a fresh login handshake.
func clearSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessionCacheInstance.clearAll()
	logger.Info("Session cache cleared", zap.String("client_ip", GetClientIP(r)))
	sendResponse(w, http.StatusOK, StatusOK, map[string]string{"message": MsgSessionsCleared})
}

// wakeDeviceHandler wakes one configured device by name. The flow against
// the router is the same strictly sequential one the CLI runs; only the SID
// may come from the cache instead of a fresh handshake.
func wakeDeviceHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "device")
	mac, err := serveConfig.deviceMAC(name)
	if err != nil {
		sendError(w, http.StatusNotFound, StatusNotFound, err.Error())
		return
	}

	result, err := relayWake(r.Context(), serveConfig, name, mac)
	if err != nil {
		logger.Error("Wake request failed",
			zap.String("device", name),
			zap.String("mac", mac),
			zap.Error(err))
		sendError(w, statusForError(err), statusTextForError(err), err.Error())
		return
	}
	logger.Info("Wake request sent",
		zap.String("device", name),
		zap.String("uid", result.UID))
	sendResponse(w, http.StatusOK, StatusOK, result)
}

// relayWake runs authenticate → resolve → wake against the router, reusing
// a cached SID when one is fresh. Any failure past authentication drops the
// cached SID: the most common cause is a session the router expired.
func relayWake(ctx context.Context, cfg *Config, name, mac string) (*WakeResult, error) {
	session := newFritzSession(cfg.routerURL(), cfg)
	router := cfg.routerURL()

	sid, cached := sessionCacheInstance.get(router)
	if !cached {
		fresh, err := session.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		sessionCacheInstance.set(router, fresh)
		sid = fresh
	}

	uid, err := session.resolveDeviceUID(ctx, sid, mac)
	if err != nil {
		sessionCacheInstance.clear(router)
		return nil, err
	}
	if err := session.sendWake(ctx, sid, uid); err != nil {
		sessionCacheInstance.clear(router)
		return nil, err
	}
	return &WakeResult{Device: name, MAC: mac, UID: uid}, nil
}

// statusForError maps session failure kinds to HTTP status codes. Everything
// the router itself got wrong is a gateway problem from the relay's view.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrDeviceNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAuthFailed),
		errors.Is(err, ErrConnection),
		errors.Is(err, ErrProtocol),
		errors.Is(err, ErrWakeFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// statusTextForError pairs statusForError with the envelope status string
func statusTextForError(err error) string {
	switch statusForError(err) {
	case http.StatusNotFound:
		return StatusNotFound
	case http.StatusBadGateway:
		return StatusBadGateway
	default:
		return StatusInternalError
	}
}
