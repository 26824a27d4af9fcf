package mimecast

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/httpx"
)

// DefaultEndpoint is the US region API root. Other regions swap the
// prefix (eu-api, de-api, uk-api).
const DefaultEndpoint = "https://us-api.mimecast.com"

// Client calls the Mimecast API. Every endpoint is a POST with a
// meta/data envelope.
type Client struct {
	http *httpx.Client
}

// NewClient builds a client for a region endpoint.
func NewClient(endpoint string, signer *Signer, opts ...httpx.ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	base := []httpx.ClientOption{
		httpx.WithAuth(signer.Apply),
		httpx.WithLimiter(httpx.NewLimiter(2, 5)),
	}
	return &Client{http: httpx.NewClient(endpoint, append(base, opts...)...)}
}

// envelope is the request and response wrapper shared by every
// Mimecast endpoint.
type envelope struct {
	Meta map[string]any   `json:"meta,omitempty"`
	Data []map[string]any `json:"data,omitempty"`
	Fail []struct {
		Errors []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"fail,omitempty"`
}

// Page is one page of Mimecast results.
type Page struct {
	Data      []map[string]any
	NextToken string

	Raw []byte
}

// call posts one envelope and unwraps the response.
func (c *Client) call(ctx context.Context, path string, meta map[string]any, data []map[string]any) (*Page, error) {
	req := envelope{Meta: meta, Data: data}
	body, _, err := c.http.Do(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   req,
	})
	if err != nil {
		return nil, err
	}

	var resp envelope
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "decoding response")
	}

	// Mimecast reports request-level failures inside a 200.
	if len(resp.Fail) > 0 {
		var msgs []string
		for _, f := range resp.Fail {
			for _, e := range f.Errors {
				msgs = append(msgs, e.Code+": "+e.Message)
			}
		}
		if len(msgs) == 0 {
			msgs = append(msgs, "request failed")
		}
		return nil, errors.Newf("mimecast: %s", strings.Join(msgs, "; "))
	}

	page := &Page{Data: resp.Data, Raw: body}
	if pagination, ok := resp.Meta["pagination"].(map[string]any); ok {
		if next, ok := pagination["next"].(string); ok {
			page.NextToken = next
		}
	}
	return page, nil
}

// paginationMeta builds the request meta for one page.
func paginationMeta(pageSize int, pageToken string) map[string]any {
	p := map[string]any{}
	if pageSize > 0 {
		p["pageSize"] = pageSize
	}
	if pageToken != "" {
		p["pageToken"] = pageToken
	}
	if len(p) == 0 {
		return nil
	}
	return map[string]any{"pagination": p}
}

// TTPURLLogs fetches Targeted Threat Protection URL click logs in a
// time window. from and to are RFC3339 timestamps; empty means the
// server default window.
func (c *Client) TTPURLLogs(ctx context.Context, from, to, route string, pageSize int, pageToken string) (*Page, error) {
	filter := map[string]any{}
	if from != "" {
		filter["from"] = from
	}
	if to != "" {
		filter["to"] = to
	}
	if route != "" {
		filter["route"] = route
	}
	return c.call(ctx, "/api/ttp/url/get-logs", paginationMeta(pageSize, pageToken), []map[string]any{filter})
}

// AuditEvents fetches audit events in a time window.
func (c *Client) AuditEvents(ctx context.Context, from, to string, pageSize int, pageToken string) (*Page, error) {
	filter := map[string]any{}
	if from != "" {
		filter["startDateTime"] = from
	}
	if to != "" {
		filter["endDateTime"] = to
	}
	return c.call(ctx, "/api/audit/get-audit-events", paginationMeta(pageSize, pageToken), []map[string]any{filter})
}

// MessageSearch runs a tracked message search.
func (c *Client) MessageSearch(ctx context.Context, query map[string]any, pageSize int, pageToken string) (*Page, error) {
	return c.call(ctx, "/api/message-finder/search", paginationMeta(pageSize, pageToken), []map[string]any{query})
}
