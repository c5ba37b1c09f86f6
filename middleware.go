package main

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

// apiKeyAuthMiddleware validates the X-API-Key header for incoming relay
// requests. Uses constant-time comparison to prevent timing attacks.
func apiKeyAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := GetClientIP(r)

		apiKey := r.Header.Get(HeaderXAPIKey)
		if apiKey == "" {
			logger.Warn("Authentication failed: missing API key",
				zap.String("ip", clientIP),
				zap.String("method", r.Method))
			sendError(w, http.StatusUnauthorized, StatusUnauthorized, ErrMissingAPIKey)
			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(authKey)) != 1 {
			logger.Warn("Authentication failed: invalid API key",
				zap.String("ip", clientIP),
				zap.String("method", r.Method))
			sendError(w, http.StatusUnauthorized, StatusUnauthorized, ErrInvalidAPIKey)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware adds security headers to all relay responses
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}
