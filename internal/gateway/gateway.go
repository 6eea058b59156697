// Package gateway is the single choke point for authorized API calls. It
// attaches the bearer token, performs exactly one refresh-and-retry cycle on
// an authorization failure, and normalizes server rejections into typed
// errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/staffrate/staffrate/internal/api"
)

// ErrSessionExpired is surfaced when the refresh token is rejected. The
// session has already been cleared by the time callers see it.
var ErrSessionExpired = errors.New("session expired")

// Session is the slice of the session store the gateway needs: token reads
// plus the refresh callback. Identity stays out of reach.
type Session interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string) error
	ClearLocal() error
}

// APIError is a server rejection (non-2xx) carrying the server-provided
// message verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsAuthFailure reports whether err looks like an authorization failure:
// either the gateway's terminal session expiry or an error whose text matches
// the server's token/forbidden signatures. Resource clients use this as a
// redirect safety net beyond the gateway's own handling.
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSessionExpired) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "Token") || strings.Contains(msg, "Forbidden")
}

// Request describes one logical API call. Form takes precedence over JSON
// when both are set.
type Request struct {
	Method string
	Path   string
	JSON   any
	Form   *api.Form
}

// Gateway executes authorized calls against the configured API origin.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	session    Session
}

// New creates a gateway. The http client should carry a cookie jar so the
// server's credentialed cookies ride along as the secondary session
// mechanism.
func New(baseURL string, httpClient *http.Client, session Session) *Gateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Gateway{
		baseURL:    baseURL,
		httpClient: httpClient,
		session:    session,
	}
}

// Do executes the request with the current access token. A 401 triggers one
// refresh of the access token followed by a single replay of the original
// request; a second 401 is surfaced, never re-refreshed. Any other non-2xx
// becomes an *APIError. On success the raw body is returned for the caller to
// decode.
func (g *Gateway) Do(ctx context.Context, req Request) ([]byte, error) {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	// One request id spans the logical call, including the post-refresh
	// replay.
	requestID := uuid.New().String()

	resp, respBody, err := g.execute(ctx, req, body, contentType, requestID, g.session.AccessToken())
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		token, refreshErr := g.refresh(ctx)
		if refreshErr != nil {
			return nil, refreshErr
		}

		resp, respBody, err = g.execute(ctx, req, body, contentType, requestID, token)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: api.ErrorMessage(respBody, fmt.Sprintf("request failed with status %d", resp.StatusCode)),
		}
	}

	return respBody, nil
}

// Profile fetches the current identity. It satisfies the session store's
// ProfileFetcher, so session restore inherits the one-shot refresh policy.
func (g *Gateway) Profile(ctx context.Context) (*api.User, error) {
	body, err := g.Do(ctx, Request{Method: http.MethodGet, Path: "/profile"})
	if err != nil {
		return nil, err
	}

	var envelope api.ProfileResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.User != nil {
		return envelope.User, nil
	}

	var user api.User
	if err := json.Unmarshal(body, &user); err != nil || user.ID == "" {
		return nil, fmt.Errorf("unrecognized profile response")
	}

	return &user, nil
}

// refresh exchanges the persisted refresh token for a new access token and
// installs it on the session. Failure is terminal: the session is cleared and
// ErrSessionExpired returned.
func (g *Gateway) refresh(ctx context.Context) (string, error) {
	log.Debug().Msg("access token rejected, attempting refresh")

	payload, err := json.Marshal(map[string]string{"refreshToken": g.session.RefreshToken()})
	if err != nil {
		return "", fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/auth/refresh-token", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", g.expireSession(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", g.expireSession(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", g.expireSession(fmt.Errorf("refresh rejected with status %d", resp.StatusCode))
	}

	var refreshResp api.RefreshResponse
	if err := json.Unmarshal(body, &refreshResp); err != nil || refreshResp.AccessToken == "" {
		return "", g.expireSession(fmt.Errorf("refresh response carried no access token"))
	}

	if err := g.session.SetAccessToken(refreshResp.AccessToken); err != nil {
		return "", err
	}

	log.Debug().Msg("access token refreshed")

	return refreshResp.AccessToken, nil
}

// expireSession clears local state and wraps the cause into the terminal
// session-expired error.
func (g *Gateway) expireSession(cause error) error {
	log.Debug().Err(cause).Msg("token refresh failed, forcing logout")

	if err := g.session.ClearLocal(); err != nil {
		log.Error().Err(err).Msg("failed to clear session state")
	}

	return fmt.Errorf("%w: %v", ErrSessionExpired, cause)
}

// execute performs a single HTTP exchange. The body bytes are replayable so
// the post-refresh retry sends an identical request.
func (g *Gateway) execute(ctx context.Context, req Request, body []byte, contentType, requestID, token string) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, g.baseURL+req.Path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	httpReq.Header.Set("X-Request-Id", requestID)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp, respBody, nil
}

// encodeBody renders the request body once so it can be replayed.
func encodeBody(req Request) ([]byte, string, error) {
	if req.Form != nil {
		return req.Form.Encode()
	}

	if req.JSON != nil {
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request: %w", err)
		}
		return data, "application/json", nil
	}

	return nil, "", nil
}
