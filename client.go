package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// fritzSession owns the HTTP transport and the credentials for one router.
// All operations are strictly sequential: authenticate produces the SID that
// every later call carries, resolveDeviceUID produces the UID that sendWake
// needs. One instance per run; there is no logout.
type fritzSession struct {
	urlLogin  string
	urlData   string
	username  string
	password  string
	verifyTLS bool
	client    *http.Client
	prompt    passwordPrompt
}

// newFritzSession builds a session against baseURL (scheme://host:port).
// Credentials and the TLS toggle come from the configuration; the password
// may be empty, in which case authenticate falls back to the prompt.
func newFritzSession(baseURL string, cfg *Config) *fritzSession {
	if !cfg.VerifyTLS {
		// Self-signed router certificates are the norm, so this is a
		// supported mode rather than an error. Log once and move on.
		logger.Warn("TLS certificate verification disabled")
	}
	return &fritzSession{
		urlLogin:  baseURL + PathLoginSID,
		urlData:   baseURL + PathData,
		username:  cfg.Username,
		password:  cfg.Password,
		verifyTLS: cfg.VerifyTLS,
		client:    newHTTPClient(cfg.VerifyTLS),
		prompt:    readPassword,
	}
}

// newHTTPClient builds the transport for one session. Verification is the
// only per-run TLS knob; everything else mirrors a plain client with an
// explicit timeout so a dead router cannot hang the process.
func newHTTPClient(verifyTLS bool) *http.Client {
	return &http.Client{
		Timeout: DefaultHTTPTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: !verifyTLS},
			MaxIdleConns:    DefaultMaxIdleConns,
			IdleConnTimeout: DefaultIdleConnTimeout,
		},
	}
}

// rawResponse exposes what outcome detection needs from a router reply:
// the body bytes and the content type, independent of HTTP status.
type rawResponse struct {
	body        []byte
	contentType string
}

// isJSON reports whether the router answered with a JSON document. Older
// firmware answers the same logical request with HTML instead.
func (r *rawResponse) isJSON() bool {
	return strings.HasPrefix(r.contentType, ContentTypeJSON)
}

// get issues a GET against the login endpoint family.
func (s *fritzSession) get(ctx context.Context, rawURL string) (*rawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return s.do(req)
}

// postForm issues a form-encoded POST against the data endpoint.
func (s *fritzSession) postForm(ctx context.Context, form url.Values) (*rawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.urlData,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set(ContentTypeHeader, "application/x-www-form-urlencoded")
	return s.do(req)
}

// do executes the request and reads the body. Network failures propagate
// immediately; there are no retries. A TLS verification failure is mapped to
// ErrConnection with a message naming the insecure-mode override.
func (s *fritzSession) do(req *http.Request) (*rawResponse, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		if isTLSVerificationError(err) {
			return nil, fmt.Errorf("%w: %s", ErrConnection, ErrTLSVerify)
		}
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer safeClose(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrConnection, err)
	}
	logger.Debug("router response",
		zap.String("url", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))
	return &rawResponse{body: body, contentType: resp.Header.Get(ContentTypeHeader)}, nil
}

// isTLSVerificationError reports whether err stems from certificate
// verification rather than some other transport problem.
func isTLSVerificationError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return true
	}
	var invalidCert x509.CertificateInvalidError
	return errors.As(err, &invalidCert)
}
