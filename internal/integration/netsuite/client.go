package netsuite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/httpx"
)

// SuiteQL caps page sizes at 1000 rows.
const maxPageSize = 1000

// Client runs SuiteQL queries against one NetSuite account.
type Client struct {
	http *httpx.Client
}

// NewClient builds a client for an account. The token function is
// called per attempt.
func NewClient(accountID string, token func(ctx context.Context) (credcache.Token, error), opts ...httpx.ClientOption) *Client {
	auth := httpx.BearerAuth(func(ctx context.Context) (string, error) {
		tok, err := token(ctx)
		if err != nil {
			return "", err
		}
		return tok.AuthorizationHeader(), nil
	})
	base := []httpx.ClientOption{
		httpx.WithAuth(auth),
		httpx.WithLimiter(httpx.NewLimiter(4, 4)),
	}
	return &Client{http: httpx.NewClient(BaseURL(accountID), append(base, opts...)...)}
}

// QueryPage is one page of SuiteQL results. Row keys follow the
// selected column names; values keep their JSON types.
type QueryPage struct {
	Items        []map[string]any
	Count        int
	TotalResults int
	HasMore      bool
	Offset       int

	Raw []byte
}

// suiteQLResponse mirrors the REST query envelope. The links array is
// ignored; paging uses offset arithmetic.
type suiteQLResponse struct {
	Items        []map[string]any `json:"items"`
	Count        int              `json:"count"`
	TotalResults int              `json:"totalResults"`
	HasMore      bool             `json:"hasMore"`
	Offset       int              `json:"offset"`
}

// Query runs one SuiteQL page. limit 0 uses the server default;
// limits above the SuiteQL maximum are clamped.
func (c *Client) Query(ctx context.Context, q string, limit, offset int) (*QueryPage, error) {
	if q == "" {
		return nil, errors.New("empty SuiteQL query")
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	// SuiteQL requires the transient prefer header.
	header := http.Header{}
	header.Set("Prefer", "transient")

	body, _, err := c.http.Do(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   "/services/rest/query/v1/suiteql",
		Query:  query,
		Header: header,
		Body:   map[string]string{"q": q},
	})
	if err != nil {
		return nil, err
	}

	var resp suiteQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "decoding SuiteQL response")
	}
	return &QueryPage{
		Items:        resp.Items,
		Count:        resp.Count,
		TotalResults: resp.TotalResults,
		HasMore:      resp.HasMore,
		Offset:       resp.Offset,
		Raw:          body,
	}, nil
}

// QueryAll pages through a query until exhaustion or maxRows. A
// maxRows of 0 means no cap.
func (c *Client) QueryAll(ctx context.Context, q string, maxRows int) ([]map[string]any, error) {
	var rows []map[string]any
	offset := 0
	for {
		limit := maxPageSize
		if maxRows > 0 && maxRows-len(rows) < limit {
			limit = maxRows - len(rows)
		}
		page, err := c.Query(ctx, q, limit, offset)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page.Items...)
		if !page.HasMore || (maxRows > 0 && len(rows) >= maxRows) {
			return rows, nil
		}
		// An empty page with hasMore set would never advance the offset.
		if page.Count == 0 {
			return rows, nil
		}
		offset += page.Count
	}
}

// GetRecord fetches one record from the REST record API.
func (c *Client) GetRecord(ctx context.Context, recordType, id string, expandSublists bool) (map[string]any, []byte, error) {
	if recordType == "" || id == "" {
		return nil, nil, errors.New("record type and id are required")
	}

	query := url.Values{}
	if expandSublists {
		query.Set("expandSubResources", "true")
	}

	body, _, err := c.http.Do(ctx, httpx.Request{
		Path:  "/services/rest/record/v1/" + url.PathEscape(recordType) + "/" + url.PathEscape(id),
		Query: query,
	})
	if err != nil {
		return nil, nil, err
	}

	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, nil, errors.Wrap(err, "decoding record response")
	}
	return record, body, nil
}
