// Package n8n is a thin client for the n8n public REST API, using a
// static X-N8N-API-KEY header.
package n8n

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vendocli/vendo/internal/httpx"
)

// Client calls one n8n instance.
type Client struct {
	http *httpx.Client
}

// NewClient builds a client for an instance root such as
// https://n8n.example.com.
func NewClient(endpoint, apiKey string, opts ...httpx.ClientOption) *Client {
	base := []httpx.ClientOption{
		httpx.WithAuth(httpx.HeaderAuth("X-N8N-API-KEY", apiKey)),
		httpx.WithLimiter(httpx.NewLimiter(5, 10)),
	}
	return &Client{http: httpx.NewClient(endpoint, append(base, opts...)...)}
}

// Workflow is one workflow summary.
type Workflow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	Tags      []Tag  `json:"tags,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Tag labels workflows.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Execution is one workflow run.
type Execution struct {
	ID         string `json:"id"`
	WorkflowID string `json:"workflowId"`
	Status     string `json:"status"`
	Mode       string `json:"mode,omitempty"`
	StartedAt  string `json:"startedAt,omitempty"`
	StoppedAt  string `json:"stoppedAt,omitempty"`
}

// listEnvelope wraps paginated n8n list responses.
type listEnvelope[T any] struct {
	Data       []T    `json:"data"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ListWorkflows returns one page of workflows. An empty cursor starts
// from the beginning; the returned cursor is empty on the last page.
func (c *Client) ListWorkflows(ctx context.Context, active *bool, cursor string) ([]Workflow, string, error) {
	query := url.Values{}
	if active != nil {
		query.Set("active", strconv.FormatBool(*active))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	var env listEnvelope[Workflow]
	err := c.http.DoJSON(ctx, httpx.Request{Path: "/api/v1/workflows", Query: query}, &env)
	if err != nil {
		return nil, "", err
	}
	return env.Data, env.NextCursor, nil
}

// GetWorkflow fetches one workflow with its full definition.
func (c *Client) GetWorkflow(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.http.DoJSON(ctx, httpx.Request{Path: "/api/v1/workflows/" + url.PathEscape(id)}, &out)
	return out, err
}

// Activate turns a workflow on.
func (c *Client) Activate(ctx context.Context, id string) error {
	return c.http.DoJSON(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/workflows/" + url.PathEscape(id) + "/activate",
	}, nil)
}

// Deactivate turns a workflow off.
func (c *Client) Deactivate(ctx context.Context, id string) error {
	return c.http.DoJSON(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/workflows/" + url.PathEscape(id) + "/deactivate",
	}, nil)
}

// ListExecutions returns one page of executions, newest first.
// workflowID and status filter when non-empty.
func (c *Client) ListExecutions(ctx context.Context, workflowID, status, cursor string, limit int) ([]Execution, string, error) {
	query := url.Values{}
	if workflowID != "" {
		query.Set("workflowId", workflowID)
	}
	if status != "" {
		query.Set("status", status)
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var env listEnvelope[Execution]
	err := c.http.DoJSON(ctx, httpx.Request{Path: "/api/v1/executions", Query: query}, &env)
	if err != nil {
		return nil, "", err
	}
	return env.Data, env.NextCursor, nil
}

// GetExecution fetches one execution, optionally with node run data.
func (c *Client) GetExecution(ctx context.Context, id string, includeData bool) (map[string]any, error) {
	query := url.Values{}
	if includeData {
		query.Set("includeData", "true")
	}
	var out map[string]any
	err := c.http.DoJSON(ctx, httpx.Request{
		Path:  "/api/v1/executions/" + url.PathEscape(id),
		Query: query,
	}, &out)
	return out, err
}
