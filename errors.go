package main

import "errors"

// Failure kinds surfaced by the router session. Callers match with errors.Is
// to pick a message category and exit code; every kind aborts the run.
var (
	// ErrConnection indicates a transport-level failure, most commonly TLS
	// certificate verification against a self-signed router certificate.
	ErrConnection = errors.New("connection failed")

	// ErrProtocol indicates a response the router should not have produced:
	// an expected XML or JSON field was absent or malformed.
	ErrProtocol = errors.New("unexpected router response")

	// ErrAuthFailed indicates the router rejected the credentials and
	// returned the all-zero sentinel SID.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrDeviceNotFound indicates the MAC address was absent from both the
	// passive and active device groups.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrWakeFailed indicates the wake request produced neither the JSON nor
	// the legacy HTML success signal.
	ErrWakeFailed = errors.New("wake-up request failed")
)
