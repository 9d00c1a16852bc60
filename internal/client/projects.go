package client

import (
	"context"
	"net/http"
	"net/url"
)

// CreateProject creates a project
func (c *Client) CreateProject(ctx context.Context, p NewProject) (*Project, error) {
	var out struct {
		Project wireProject `json:"project"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/projects",
		body:   fromNewProject(p),
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	project := toProject(out.Project)
	return &project, nil
}

// ListProjects returns the user's projects, newest first
func (c *Client) ListProjects(ctx context.Context, includeArchived bool) ([]Project, error) {
	q := url.Values{}
	if !includeArchived {
		q.Set("include_archived", "false")
	}

	var out struct {
		Projects []wireProject `json:"projects"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/projects", query: q, authed: true}, &out); err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(out.Projects))
	for _, p := range out.Projects {
		projects = append(projects, toProject(p))
	}
	return projects, nil
}

// UpdateProject applies a partial update
func (c *Client) UpdateProject(ctx context.Context, id string, u ProjectUpdate) (*Project, error) {
	var out struct {
		Project wireProject `json:"project"`
	}
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/projects/" + url.PathEscape(id),
		body:   fromProjectUpdate(u),
		authed: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	project := toProject(out.Project)
	return &project, nil
}

// ArchiveProject archives a project. Its sessions are kept
func (c *Client) ArchiveProject(ctx context.Context, id string) error {
	var out messageResponse
	return c.do(ctx, request{method: http.MethodDelete, path: "/projects/" + url.PathEscape(id), authed: true}, &out)
}
