package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// CreateSession persists a completed session
func (c *Client) CreateSession(ctx context.Context, s NewSession) (*Session, error) {
	var out struct {
		Session wireSession `json:"session"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/sessions",
		body:   fromNewSession(s),
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	session := toSession(out.Session)
	return &session, nil
}

// ListSessions returns one page of the user's sessions, most recent first
func (c *Client) ListSessions(ctx context.Context, f SessionFilter) (*SessionPage, error) {
	q := url.Values{}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.WorkType != "" {
		q.Set("work_type", f.WorkType)
	}
	if f.From != nil {
		q.Set("from", f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		q.Set("to", f.To.UTC().Format(time.RFC3339))
	}

	var out struct {
		Sessions []wireSession `json:"sessions"`
		Count    int           `json:"count"`
		Limit    int           `json:"limit"`
		Offset   int           `json:"offset"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/sessions", query: q, authed: true}, &out); err != nil {
		return nil, err
	}

	page := &SessionPage{
		Sessions: make([]Session, 0, len(out.Sessions)),
		Count:    out.Count,
		Limit:    out.Limit,
		Offset:   out.Offset,
	}
	for _, s := range out.Sessions {
		page.Sessions = append(page.Sessions, toSession(s))
	}
	return page, nil
}

// GetSession fetches one session by id
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	var out struct {
		Session wireSession `json:"session"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/sessions/" + url.PathEscape(id), authed: true}, &out); err != nil {
		return nil, err
	}
	session := toSession(out.Session)
	return &session, nil
}

// DeleteSession removes a session permanently
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	var out messageResponse
	return c.do(ctx, request{method: http.MethodDelete, path: "/sessions/" + url.PathEscape(id), authed: true}, &out)
}
