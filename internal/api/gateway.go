// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the single outbound gateway to the travel-request
// backend. Every request passes through one choke point that attaches
// the bearer token, applies the outbound key-casing transform, and
// normalizes failures into the APIError taxonomy.
//
// Two behaviors here are load-bearing for the rest of the client:
//
//   - Fail closed: a request to a protected path with no stored token
//     is rejected before it is sent. Only paths on the public
//     allow-list (login, health) go out unauthenticated.
//
//   - 404 asymmetry: the collection-by-owner endpoints
//     (/TravelRequest/user/{id}, /TravelRequest/approver/{id}) return
//     404 when the owner simply has no requests yet. Those decode as an
//     empty collection. A 404 anywhere else is a real error.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/tripdesk-tui/internal/auth"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is where the backend lives unless configured.
	DefaultBaseURL = "http://localhost:5088/api"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// defaultRequestsPerSecond caps the outbound request rate so a
	// fast-scrolling TUI cannot hammer the backend.
	defaultRequestsPerSecond = 10

	// defaultRequestBurst is the rate limiter burst size.
	defaultRequestBurst = 20

	userAgent = "tripdesk/0.3.0"
)

// publicPaths are exempt from the token requirement. Matched by
// substring so versioned prefixes still hit the allow-list.
var publicPaths = []string{
	"/auth/login",
	"/health",
}

// expectedEmptyPaths are the collection-by-owner endpoints whose 404
// means "no rows yet", not "missing resource". Matched by substring;
// the distinction is keyed on the endpoint pattern, never on the
// status code alone.
var expectedEmptyPaths = []string{
	"/TravelRequest/user/",
	"/TravelRequest/approver/",
}

// =============================================================================
// SHARED HTTP CLIENT
// =============================================================================

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// SECURITY: TLS verification required; TLS 1.2 minimum.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: false,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// GATEWAY
// =============================================================================

// Gateway talks to the backend on behalf of the whole client. Construct
// one per process and share it; all methods are safe for concurrent use.
type Gateway struct {
	baseURL    string
	creds      *auth.Store
	httpClient *http.Client
	limiter    *rate.Limiter

	// onActivity fires after every successful response, feeding the
	// idle-session timers.
	onActivity func()

	// onSessionExpired fires at most once per expiry when a protected
	// request comes back 401: credentials are already cleared when it
	// runs. Typically wired to "return to the login screen".
	onSessionExpired func()

	// expiryHandled guards onSessionExpired: repeated 401s from
	// parallel in-flight requests must not stack redirects or repeat
	// storage writes.
	expiryHandled atomic.Bool
}

// NewGateway creates a gateway for the given base URL and credential
// store.
func NewGateway(baseURL string, creds *auth.Store) *Gateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Gateway{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		creds:      creds,
		httpClient: sharedHTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultRequestBurst),
	}
}

// WithHTTPClient overrides the HTTP client. Used by tests.
func (g *Gateway) WithHTTPClient(client *http.Client) *Gateway {
	g.httpClient = client
	return g
}

// WithActivityFunc wires the session manager's activity recorder.
func (g *Gateway) WithActivityFunc(fn func()) *Gateway {
	g.onActivity = fn
	return g
}

// WithSessionExpiredFunc wires the forced-logout navigation.
func (g *Gateway) WithSessionExpiredFunc(fn func()) *Gateway {
	g.onSessionExpired = fn
	return g
}

// WithRateLimit overrides the outbound request rate.
func (g *Gateway) WithRateLimit(perSecond float64, burst int) *Gateway {
	g.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return g
}

// BaseURL returns the configured backend base URL.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// ResetSessionExpiry re-arms the once-per-expiry 401 handler. Called
// after a successful login.
func (g *Gateway) ResetSessionExpiry() {
	g.expiryHandled.Store(false)
}

// isPublicPath reports whether the path is exempt from the token
// requirement.
func isPublicPath(path string) bool {
	for _, public := range publicPaths {
		if strings.Contains(path, public) {
			return true
		}
	}
	return false
}

// isExpectedEmptyPath reports whether a 404 on this path means an
// empty collection.
func isExpectedEmptyPath(path string) bool {
	for _, pattern := range expectedEmptyPaths {
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

// isMutating reports whether the method changes server state and so
// should carry an idempotency key.
func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// =============================================================================
// REQUEST/RESPONSE LOGGING
// =============================================================================

// logRequest logs an outbound request without exposing sensitive data.
// Never log headers (carry auth) or bodies (carry trip details).
func (g *Gateway) logRequest(method, path string) {
	log.Printf("API Request: %s %s", method, path)
}

// logResponse logs a response with duration. Status and timing only.
func (g *Gateway) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}

// =============================================================================
// CORE REQUEST PATH
// =============================================================================

// encodeBody marshals a request body, routing it through the outbound
// key-casing transform. Any marshalable value works: it is flattened to
// a JSON object first so structs and maps are transformed identically.
func encodeBody(body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to re-decode request: %w", err)
	}

	transformed, _ := transformValue(decoded)

	out, err := json.Marshal(transformed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transformed request: %w", err)
	}
	return out, nil
}

// readResponse reads the response body with a size limit.
// SECURITY: Response size limit prevents memory exhaustion attacks.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

// do performs one request and returns the classified response body.
// Expected-empty 404s come back as a JSON empty array so callers decode
// them like any other collection.
func (g *Gateway) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, newAPIError(ErrNetwork, 0, "cancelled", err.Error())
	}

	public := isPublicPath(path)

	// Fail closed: no token, no request. An expired-but-present token
	// is still sent; the server is the authority on validity.
	var token string
	if !public {
		var err error
		token, err = g.creds.Token()
		if err != nil {
			log.Printf("CRITICAL: blocked unauthenticated request to protected path %s", path)
			return nil, newAPIError(ErrUnauthorized, 0, "not_logged_in",
				"no credentials stored; request blocked before send")
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := encodeBody(body)
		if err != nil {
			return nil, newAPIError(ErrValidation, 0, "encode_failed", err.Error())
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, newAPIError(ErrNetwork, 0, "bad_request", err.Error())
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if isMutating(method) {
		req.Header.Set("X-Idempotency-Key", uuid.NewString())
	}

	g.logRequest(method, path)
	startTime := time.Now()
	resp, err := g.httpClient.Do(req)
	duration := time.Since(startTime)

	// SECURITY: Clear Authorization header immediately after the
	// request so a logged/dumped request never carries the token.
	req.Header.Del("Authorization")

	if err != nil {
		log.Printf("API Failure: %s %s: %v", method, path, err)
		return nil, newAPIError(ErrNetwork, 0, "network", err.Error())
	}
	defer resp.Body.Close()
	g.logResponse(resp, duration)

	respBody, err := readResponse(resp)
	if err != nil {
		return nil, newAPIError(ErrNetwork, 0, "read_failed", err.Error())
	}

	return g.classify(method, path, resp.StatusCode, respBody)
}

// classify turns a status code into a success body or a taxonomy error,
// applying the 401 and 404 special cases.
func (g *Gateway) classify(method, path string, status int, body []byte) ([]byte, error) {
	if status >= 200 && status < 300 {
		g.recordActivity()
		return body, nil
	}

	switch {
	case status == http.StatusUnauthorized:
		if !isPublicPath(path) {
			g.handleSessionExpiry()
			return nil, newAPIError(ErrUnauthorized, status, codeForStatus(status),
				messageFromBody(body, "session expired, please log in again"))
		}
		// 401 from the login route is just a bad password; no side
		// effects.
		return nil, newAPIError(ErrUnauthorized, status, codeForStatus(status),
			messageFromBody(body, "invalid credentials"))

	case status == http.StatusForbidden:
		return nil, newAPIError(ErrForbidden, status, codeForStatus(status),
			messageFromBody(body, "you do not have permission for this action"))

	case status == http.StatusNotFound:
		if method == http.MethodGet && isExpectedEmptyPath(path) {
			// No rows yet for this owner. Success with an empty
			// collection, session activity included.
			log.Printf("API Note: 404 on %s decoded as empty collection", path)
			g.recordActivity()
			return []byte("[]"), nil
		}
		return nil, newAPIError(ErrNotFound, status, codeForStatus(status),
			messageFromBody(body, "resource not found"))

	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		apiErr := newAPIError(ErrValidation, status, codeForStatus(status),
			messageFromBody(body, "the server rejected the request"))
		apiErr.Details = detailsFromBody(body)
		return nil, apiErr

	case status >= 500:
		// Explicitly no retry: surfacing beats hammering a struggling
		// backend from every open terminal.
		return nil, newAPIError(ErrServer, status, codeForStatus(status),
			messageFromBody(body, "the server failed to process the request"))

	default:
		return nil, newAPIError(ErrServer, status, codeForStatus(status),
			messageFromBody(body, fmt.Sprintf("unexpected status %d", status)))
	}
}

// recordActivity feeds the session timers after a successful response.
// A response landing after logout is stale: the credential re-check
// drops it instead of reviving a dead session.
func (g *Gateway) recordActivity() {
	if g.onActivity == nil {
		return
	}
	if !g.creds.LoggedIn() {
		return
	}
	g.onActivity()
}

// handleSessionExpiry clears credentials and fires the expiry callback
// exactly once per expiry, no matter how many in-flight requests come
// back 401 together.
func (g *Gateway) handleSessionExpiry() {
	if !g.expiryHandled.CompareAndSwap(false, true) {
		return
	}

	log.Printf("API Auth: 401 on protected path, clearing stored credentials")
	if err := g.creds.Clear(); err != nil {
		log.Printf("API Auth: failed to clear credentials: %v", err)
	}

	if g.onSessionExpired != nil {
		g.onSessionExpired()
	}
}

// =============================================================================
// ERROR BODY PARSING
// =============================================================================

// apiErrorBody is the backend's error envelope. Both fields are
// optional; absent ones fall back to canned messages.
type apiErrorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// messageFromBody extracts the server's message, or returns fallback.
func messageFromBody(body []byte, fallback string) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return fallback
}

// detailsFromBody extracts per-field validation messages, if any.
func detailsFromBody(body []byte) map[string]string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		return parsed.Errors
	}
	return nil
}

// decodeJSON unmarshals a response body into out, tolerating empty
// bodies (204s and DELETE responses).
func decodeJSON(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newAPIError(ErrServer, 0, "decode_failed",
			fmt.Sprintf("failed to parse response: %v", err))
	}
	return nil
}

// IsAuthError reports whether err is any authentication failure,
// including the fail-closed pre-send rejection.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
