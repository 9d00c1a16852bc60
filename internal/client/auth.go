package client

import (
	"context"
	"net/http"
)

// Register creates an account and returns its first token
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	var out wireAuth
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   map[string]string{"email": email, "password": password, "name": name},
	}, &out)
	if err != nil {
		return nil, err
	}
	return toAuthResult(out), nil
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out wireAuth
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	}, &out)
	if err != nil {
		return nil, err
	}
	return toAuthResult(out), nil
}

// Me returns the profile behind the current token
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}
