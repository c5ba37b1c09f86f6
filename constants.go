package main

import "time"

// FRITZ!Box endpoint paths
const (
	PathLoginSID = "/login_sid.lua"
	PathData     = "/data.lua"
)

// Form field names fixed by the FRITZ!OS web API
const (
	FieldSID     = "sid"
	FieldPage    = "page"
	FieldXHRID   = "xhrId"
	FieldDev     = "dev"
	FieldOldPage = "oldpage"
	FieldBtnWake = "btn_wake"

	PageNetDev   = "netDev"
	PageOverview = "overview"
	PageEditDev  = "edit_device"
	OldPageValue = "net/edit_device.lua"
	XHRIDAll     = "all"
)

// Session constants
const (
	// SIDNoAuth is the sentinel SID the router returns when authentication
	// failed or no session exists. It must never be treated as a valid session.
	SIDNoAuth = "0000000000000000"

	// ChallengeV2Prefix marks a PBKDF2 challenge announced by FRITZ!OS >= 7.24.
	ChallengeV2Prefix = "2$"
)

// Firmware handling
const (
	// LegacyFirmwareMax is the newest firmware that still expects the
	// "edit_device2" page name for wake requests.
	LegacyFirmwareMax = "7.24"

	// FallbackFirmware is assumed when the overview probe yields nothing
	// usable. It sorts below every real release, so the legacy request
	// shape is used.
	FallbackFirmware = "0.0"

	LegacyPageSuffix = "2"
)

// Wake success signals
const (
	WakeOKValue       = "ok"
	WakeLegacyMarker  = `"pid":"netDev"`
	ContentTypeJSON   = "application/json"
	ContentTypeHeader = "Content-Type"
)

// HTTP and timeout configurations
const (
	DefaultListenAddr      = ":8080"
	DefaultConfigPath      = "wakeup.json"
	DefaultDeviceName      = "default"
	DefaultHTTPTimeout     = 15 * time.Second
	DefaultSessionTTL      = 5 * time.Minute
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 60 * time.Second
	DefaultMaxIdleConns    = 10
	DefaultIdleConnTimeout = 30 * time.Second
	MaxResponseBodySize    = 1 << 20
)

// Environment variables for relay mode
const (
	EnvListenAddr     = "LISTEN_ADDR"
	EnvMiddlewareAuth = "MIDDLEWARE_AUTH"
	EnvAuthKey        = "AUTH_KEY"
	EnvSessionTTL     = "SESSION_TTL_SECONDS"
)

// HTTP headers
const (
	HeaderXAPIKey = "X-API-Key"
)

// HTTP response statuses
const (
	StatusOK            = "OK"
	StatusNotFound      = "Not Found"
	StatusBadRequest    = "Bad Request"
	StatusUnauthorized  = "Unauthorized"
	StatusBadGateway    = "Bad Gateway"
	StatusInternalError = "Internal Server Error"
)

// Error messages
const (
	ErrMissingAPIKey = "Missing API key"
	ErrInvalidAPIKey = "Invalid API key"
	ErrTLSVerify     = "TLS certificate verification failed. " +
		"Use --ssl-no-verify flag to bypass (not recommended)"
)

// Success messages
const (
	MsgSessionsCleared = "Cached sessions cleared"
)

// Process exit codes
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitInterrupt = 130
)
