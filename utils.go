package main

import (
	"io"
	"net"
	"net/http"

	goversion "github.com/hashicorp/go-version"
	"go.uber.org/zap"
)

// firmwareAtMost reports whether firmware v sorts at or below pivot under
// dotted-numeric precedence ("7.2" < "7.24" < "7.25"); lexical comparison
// would get this wrong. An unparseable version is treated as legacy, the
// conservative branch for old or unknown firmware.
func firmwareAtMost(v, pivot string) bool {
	ver, err := goversion.NewVersion(v)
	if err != nil {
		return true
	}
	limit, err := goversion.NewVersion(pivot)
	if err != nil {
		return false
	}
	return ver.LessThanOrEqual(limit)
}

// safeClose closes an io.Closer and logs any error instead of dropping it
func safeClose(closer io.Closer) {
	if closer != nil {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close resource", zap.Error(err))
		}
	}
}

// GetClientIP extracts the client IP address from the request.
// It checks X-Real-IP header first (for proxied requests), then falls back to RemoteAddr.
func GetClientIP(r *http.Request) string {
	clientIP := r.RemoteAddr
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		if parsedIP := net.ParseIP(realIP); parsedIP != nil {
			clientIP = realIP
		}
	}
	return clientIP
}
