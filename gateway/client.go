// Package gateway is a thin client for the upstream POS API. It logs in
// with service credentials, attaches the bearer token to every request,
// and re-authenticates when the token has expired or is rejected.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// RemoteError reports a failed upstream call. Cart state is never
// modified on the strength of one of these: the caller surfaces the
// message and the user may retry.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.Status, e.Message)
}

// Client issues authenticated requests against the upstream POS API.
type Client struct {
	baseURL  string
	email    string
	password string
	http     *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time

	onLogout func()
}

// New creates a client for the API at baseURL using the given service
// credentials. Timeouts are the HTTP client's responsibility.
func New(baseURL, email, password string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		email:    email,
		password: password,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// SetHTTPClient replaces the underlying HTTP client (used by tests).
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// SetLogoutHandler registers a callback invoked whenever the session is
// dropped because the token expired or was rejected upstream.
func (c *Client) SetLogoutHandler(fn func()) { c.onLogout = fn }

// login authenticates against the upstream and stores the bearer token
// together with its exp claim.
func (c *Client) login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"identifier": c.email,
		"password":   c.password,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return remoteErrorFrom(resp)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return &RemoteError{Status: resp.StatusCode, Message: "malformed login response"}
	}
	if payload.AccessToken == "" {
		return &RemoteError{Status: resp.StatusCode, Message: "login response carried no token"}
	}

	c.token = payload.AccessToken
	c.expiry = tokenExpiry(payload.AccessToken)
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// upstream verifies its own tokens, this side only needs the deadline.
func tokenExpiry(token string) time.Time {
	claims := &jwt.StandardClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil || claims.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(claims.ExpiresAt, 0)
}

// logout drops the session and notifies the registered handler.
func (c *Client) logout() {
	c.token = ""
	c.expiry = time.Time{}
	if c.onLogout != nil {
		c.onLogout()
	}
}

// ensureToken returns a bearer token, logging in first when there is no
// session or the current token has expired.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	if c.token != "" && (c.expiry.IsZero() || time.Now().Before(c.expiry)) {
		return c.token, nil
	}
	if c.token != "" {
		c.logout()
	}
	if err := c.login(ctx); err != nil {
		return "", err
	}
	return c.token, nil
}

// bearer returns a token for the next request under the session lock.
// Only token maintenance is serialized; the requests themselves run
// concurrently.
func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureToken(ctx)
}

// invalidate drops the session that produced a rejected token. A newer
// token obtained by a concurrent request is left alone.
func (c *Client) invalidate(rejected string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == rejected {
		c.logout()
	}
}

// do performs one authenticated request. A 401 drops the session and
// retries once with a fresh login; any other non-2xx status becomes a
// RemoteError. When out is non-nil the response body is decoded into it.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	retried := false
	for {
		token, err := c.bearer(ctx)
		if err != nil {
			return err
		}

		resp, err := c.send(ctx, method, path, query, body, token)
		if err != nil {
			return &RemoteError{Message: err.Error()}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			c.invalidate(token)
			if retried {
				return &RemoteError{Status: http.StatusUnauthorized, Message: "authentication rejected"}
			}
			retried = true
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			defer resp.Body.Close()
			return remoteErrorFrom(resp)
		}

		if out == nil {
			resp.Body.Close()
			return nil
		}
		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return &RemoteError{Status: resp.StatusCode, Message: "malformed response body"}
		}
		return nil
	}
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body interface{}, token string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// remoteErrorFrom builds a RemoteError from an error response, favoring
// the upstream's own message field when one is present.
func remoteErrorFrom(resp *http.Response) *RemoteError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return &RemoteError{Status: resp.StatusCode, Message: payload.Message}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &RemoteError{Status: resp.StatusCode, Message: msg}
}
