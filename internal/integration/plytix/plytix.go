// Package plytix is a thin client for the Plytix PIM API. The key
// pair mints short-lived bearer tokens, roughly fifteen minutes each.
package plytix

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/httpx"
)

// AuthEndpoint mints access tokens from a key pair.
const AuthEndpoint = "https://auth.plytix.com/auth/api/get-token"

// DefaultEndpoint is the PIM API root.
const DefaultEndpoint = "https://pim.plytix.com/api/v1"

// tokenLifetime is how long Plytix tokens stay valid. The auth
// response does not carry an expiry, so the source assigns one.
const tokenLifetime = 15 * time.Minute

// Source exchanges the API key pair for a bearer token. It implements
// credcache.Source.
type Source struct {
	Profile     string
	APIKey      string
	APIPassword string

	// TokenURL overrides AuthEndpoint, for tests.
	TokenURL string

	// HTTPClient overrides the default token client, for tests.
	HTTPClient *httpx.Client
}

// Key returns the cache key for this profile's token.
func (s *Source) Key() string {
	return "plytix/" + s.Profile
}

// Refresh mints a fresh token from the key pair.
func (s *Source) Refresh(ctx context.Context) (credcache.Token, error) {
	if s.APIKey == "" || s.APIPassword == "" {
		return credcache.Token{}, errors.New("profile is missing api_key or secret_key")
	}

	tokenURL := s.TokenURL
	if tokenURL == "" {
		tokenURL = AuthEndpoint
	}
	client := s.HTTPClient
	if client == nil {
		client = httpx.NewClient(tokenURL)
	}

	var resp struct {
		Data []struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	err := client.DoJSON(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   tokenURL,
		Body: map[string]string{
			"api_key": s.APIKey,
			"api_pwd": s.APIPassword,
		},
	}, &resp)
	if err != nil {
		return credcache.Token{}, errors.Wrap(err, "Plytix token exchange")
	}
	if len(resp.Data) == 0 || resp.Data[0].AccessToken == "" {
		return credcache.Token{}, errors.New("auth response had no access_token")
	}

	now := time.Now()
	return credcache.Token{
		AccessToken: resp.Data[0].AccessToken,
		TokenType:   "Bearer",
		Expiry:      now.Add(tokenLifetime),
		Obtained:    now,
	}, nil
}

// Client calls the PIM API with cached bearer tokens.
type Client struct {
	http *httpx.Client
}

// NewClient builds a client. endpoint is usually DefaultEndpoint.
func NewClient(endpoint string, token func(ctx context.Context) (credcache.Token, error), opts ...httpx.ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	auth := httpx.BearerAuth(func(ctx context.Context) (string, error) {
		tok, err := token(ctx)
		if err != nil {
			return "", err
		}
		return tok.AuthorizationHeader(), nil
	})
	base := []httpx.ClientOption{
		httpx.WithAuth(auth),
		httpx.WithLimiter(httpx.NewLimiter(5, 10)),
	}
	return &Client{http: httpx.NewClient(endpoint, append(base, opts...)...)}
}

// SearchFilter is one Plytix search filter clause.
type SearchFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// ProductPage is one page of product search results.
type ProductPage struct {
	Products   []map[string]any
	Total      int
	Page       int
	TotalPages int

	Raw []byte
}

// SearchProducts runs a filtered product search. Filters are groups of
// AND-ed clauses, OR-ed together, matching the PIM search contract.
func (c *Client) SearchProducts(ctx context.Context, attributes []string, filters [][]SearchFilter, page, pageSize int) (*ProductPage, error) {
	payload := map[string]any{}
	if len(attributes) > 0 {
		payload["attributes"] = attributes
	}
	if len(filters) > 0 {
		payload["filters"] = filters
	}
	pagination := map[string]int{}
	if page > 0 {
		pagination["page"] = page
	}
	if pageSize > 0 {
		pagination["page_size"] = pageSize
	}
	if len(pagination) > 0 {
		payload["pagination"] = pagination
	}

	body, _, err := c.http.Do(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   "/products/search",
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data       []map[string]any `json:"data"`
		Pagination struct {
			Total      int `json:"total_count"`
			Page       int `json:"page"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := unmarshalJSON(body, &resp); err != nil {
		return nil, err
	}
	return &ProductPage{
		Products:   resp.Data,
		Total:      resp.Pagination.Total,
		Page:       resp.Pagination.Page,
		TotalPages: resp.Pagination.TotalPages,
		Raw:        body,
	}, nil
}

// GetProduct fetches one product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (map[string]any, error) {
	var resp struct {
		Data []map[string]any `json:"data"`
	}
	err := c.http.DoJSON(ctx, httpx.Request{Path: "/products/" + url.PathEscape(id)}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.Newf("product %s not found in response", id)
	}
	return resp.Data[0], nil
}

// ListAttributes returns product attribute definitions.
func (c *Client) ListAttributes(ctx context.Context, page, pageSize int) ([]map[string]any, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	var resp struct {
		Data []map[string]any `json:"data"`
	}
	err := c.http.DoJSON(ctx, httpx.Request{Path: "/attributes/product", Query: query}, &resp)
	return resp.Data, err
}

// SearchAssets runs a paged asset search.
func (c *Client) SearchAssets(ctx context.Context, page, pageSize int) (*AssetPage, error) {
	payload := map[string]any{
		"attributes": []string{"filename", "url", "file_type", "file_size"},
	}
	pagination := map[string]int{}
	if page > 0 {
		pagination["page"] = page
	}
	if pageSize > 0 {
		pagination["page_size"] = pageSize
	}
	if len(pagination) > 0 {
		payload["pagination"] = pagination
	}

	body, _, err := c.http.Do(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   "/assets/search",
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data       []map[string]any `json:"data"`
		Pagination struct {
			Total      int `json:"total_count"`
			Page       int `json:"page"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := unmarshalJSON(body, &resp); err != nil {
		return nil, err
	}
	return &AssetPage{
		Assets:     resp.Data,
		Total:      resp.Pagination.Total,
		Page:       resp.Pagination.Page,
		TotalPages: resp.Pagination.TotalPages,
		Raw:        body,
	}, nil
}

// AssetPage is one page of asset search results.
type AssetPage struct {
	Assets     []map[string]any
	Total      int
	Page       int
	TotalPages int

	Raw []byte
}

func unmarshalJSON(data []byte, out any) error {
	return errors.Wrap(json.Unmarshal(data, out), "decoding response")
}
