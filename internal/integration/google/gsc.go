package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/httpx"
)

// gscEndpoint is the Search Console API root.
const gscEndpoint = "https://www.googleapis.com"

// GSCClient queries Search Console analytics for one site.
type GSCClient struct {
	http *httpx.Client
	site string
}

// NewGSCClient builds a client for a site URL or a sc-domain:example.com
// domain property.
func NewGSCClient(siteURL string, token func(ctx context.Context) (credcache.Token, error), opts ...httpx.ClientOption) *GSCClient {
	base := []httpx.ClientOption{
		httpx.WithAuth(tokenAuth(token)),
		httpx.WithLimiter(httpx.NewLimiter(5, 10)),
	}
	return &GSCClient{
		http: httpx.NewClient(gscEndpoint, append(base, opts...)...),
		site: siteURL,
	}
}

// newGSCTestClient is used by tests to point at a local server.
func newGSCTestClient(endpoint, siteURL string) *GSCClient {
	return &GSCClient{http: httpx.NewClient(endpoint), site: siteURL}
}

// SearchQuery describes one searchAnalytics/query call.
type SearchQuery struct {
	StartDate  string
	EndDate    string
	Dimensions []string // query, page, country, device, date
	RowLimit   int
	StartRow   int
}

// SearchRow is one analytics row.
type SearchRow struct {
	Keys        []string `json:"keys"`
	Clicks      float64  `json:"clicks"`
	Impressions float64  `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Position    float64  `json:"position"`
}

// SearchResult holds the rows of one query.
type SearchResult struct {
	Rows []SearchRow `json:"rows"`

	Raw []byte `json:"-"`
}

// Query runs a search analytics query for the client's site.
func (c *GSCClient) Query(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	if q.StartDate == "" || q.EndDate == "" {
		return nil, errors.New("query requires start and end dates")
	}

	payload := map[string]any{
		"startDate": q.StartDate,
		"endDate":   q.EndDate,
	}
	if len(q.Dimensions) > 0 {
		payload["dimensions"] = q.Dimensions
	}
	if q.RowLimit > 0 {
		payload["rowLimit"] = q.RowLimit
	}
	if q.StartRow > 0 {
		payload["startRow"] = q.StartRow
	}

	body, _, err := c.http.Do(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   "/webmasters/v3/sites/" + url.PathEscape(c.site) + "/searchAnalytics/query",
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(err, "decoding search analytics")
	}
	result.Raw = body
	return &result, nil
}

// ListSites returns the sites the credentials can access.
func (c *GSCClient) ListSites(ctx context.Context) ([]map[string]any, error) {
	var resp struct {
		SiteEntry []map[string]any `json:"siteEntry"`
	}
	err := c.http.DoJSON(ctx, httpx.Request{
		Method: http.MethodGet,
		Path:   "/webmasters/v3/sites",
	}, &resp)
	return resp.SiteEntry, err
}
