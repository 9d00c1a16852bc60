package client

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
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 1 << 20

// Credentials supplies the bearer token for protected calls and hears about
// rejected ones. The epoch identifies which login a token belongs to
type Credentials interface {
	Credential() (token string, epoch uint64)
	Unauthorized(epoch uint64)
}

// Client talks to the worktime REST API
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	creds Credentials
}

// New returns a client for the API at baseURL (without the /api suffix).
// Every request is bounded by timeout
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// UseCredentials sets the token source for protected calls
func (c *Client) UseCredentials(creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
}

func (c *Client) credentials() Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds
}

// request describes one API call
type request struct {
	method string
	path   string // relative to /api
	query  url.Values
	body   interface{}
	authed bool
}

// do sends the request and decodes a 2xx body into out. A 401 on a call
// that carried a token is reported to the credentials with its epoch
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	var token string
	var epoch uint64
	creds := c.credentials()
	if r.authed && creds != nil {
		token, epoch = creds.Credential()
	}

	target := c.baseURL + "/api" + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			creds.Unauthorized(epoch)
		}
		return responseError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "Unexpected response from server", Err: err}
	}
	return nil
}

// messageResponse is the {message} body of delete style calls
type messageResponse struct {
	Message string `json:"message"`
}
