// Package celigo is a thin client for the Celigo integrator.io REST
// API, using a static bearer API token.
package celigo

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vendocli/vendo/internal/httpx"
)

// DefaultEndpoint is the North America integrator.io API root.
const DefaultEndpoint = "https://api.integrator.io/v1"

// Client calls the integrator.io API.
type Client struct {
	http *httpx.Client
}

// NewClient builds a client. endpoint is usually DefaultEndpoint; EU
// accounts point at api.eu.integrator.io.
func NewClient(endpoint, apiToken string, opts ...httpx.ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	base := []httpx.ClientOption{
		httpx.WithAuth(httpx.HeaderAuth("Authorization", "Bearer "+apiToken)),
		httpx.WithLimiter(httpx.NewLimiter(5, 10)),
	}
	return &Client{http: httpx.NewClient(endpoint, append(base, opts...)...)}
}

// Integration is an integrator.io integration tile.
type Integration struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Flow is one flow within an integration.
type Flow struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	IntegrationID string `json:"_integrationId,omitempty"`
	Disabled      bool   `json:"disabled"`
}

// Job is a flow run record.
type Job struct {
	ID         string `json:"_id"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	NumSuccess int    `json:"numSuccess"`
	NumError   int    `json:"numError"`
	NumIgnore  int    `json:"numIgnore"`
	StartedAt  string `json:"startedAt,omitempty"`
	EndedAt    string `json:"endedAt,omitempty"`
}

// ListIntegrations returns every integration visible to the token.
func (c *Client) ListIntegrations(ctx context.Context) ([]Integration, error) {
	var out []Integration
	err := c.http.DoJSON(ctx, httpx.Request{Path: "/integrations"}, &out)
	return out, err
}

// ListFlows returns flows, optionally filtered to one integration.
func (c *Client) ListFlows(ctx context.Context, integrationID string) ([]Flow, error) {
	path := "/flows"
	if integrationID != "" {
		path = "/integrations/" + url.PathEscape(integrationID) + "/flows"
	}
	var out []Flow
	err := c.http.DoJSON(ctx, httpx.Request{Path: path}, &out)
	return out, err
}

// RunFlow queues a flow and returns the created job id.
func (c *Client) RunFlow(ctx context.Context, flowID string) (string, error) {
	var resp struct {
		JobID string `json:"_jobId"`
	}
	err := c.http.DoJSON(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   "/flows/" + url.PathEscape(flowID) + "/run",
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.JobID, nil
}

// GetJob fetches a job's status and counts.
func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	err := c.http.DoJSON(ctx, httpx.Request{Path: "/jobs/" + url.PathEscape(jobID)}, &job)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListExports returns the account's export definitions.
func (c *Client) ListExports(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	err := c.http.DoJSON(ctx, httpx.Request{Path: "/exports"}, &out)
	return out, err
}

// ListImports returns the account's import definitions.
func (c *Client) ListImports(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	err := c.http.DoJSON(ctx, httpx.Request{Path: "/imports"}, &out)
	return out, err
}

// ListConnections returns the account's connections.
func (c *Client) ListConnections(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	err := c.http.DoJSON(ctx, httpx.Request{Path: "/connections"}, &out)
	return out, err
}

// JobErrors returns the error records of a job.
func (c *Client) JobErrors(ctx context.Context, jobID string) ([]map[string]any, error) {
	var out []map[string]any
	err := c.http.DoJSON(ctx, httpx.Request{
		Path: "/jobs/" + url.PathEscape(jobID) + "/joberrors",
	}, &out)
	return out, err
}
