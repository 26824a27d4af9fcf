// Package shopify is a thin Shopify Admin GraphQL client using a
// static Admin API access token.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/httpx"
)

// DefaultAPIVersion is used when the profile does not pin one.
const DefaultAPIVersion = "2026-07"

// Admin API rate limits are cost-based; two requests per second is a
// safe steady state for CLI use.
const (
	defaultRate  = 2.0
	defaultBurst = 4
)

// ErrThrottled is returned when the GraphQL cost budget is exhausted.
// Shopify reports this inside a 200 response, so the HTTP layer cannot
// retry it.
var ErrThrottled = errors.New("shopify: query throttled")

// Client calls one shop's Admin GraphQL endpoint.
type Client struct {
	http    *httpx.Client
	version string
}

// ShopURL normalizes a shop handle or domain to its https myshopify
// origin.
func ShopURL(shop string) string {
	shop = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(shop, "https://"), "http://"), "/")
	if !strings.Contains(shop, ".") {
		shop += ".myshopify.com"
	}
	return "https://" + shop
}

// NewClient builds a client for a shop. The access token is static
// (shpat_...), so there is no refresh flow.
func NewClient(shop, accessToken, apiVersion string, opts ...httpx.ClientOption) *Client {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	base := []httpx.ClientOption{
		httpx.WithAuth(httpx.HeaderAuth("X-Shopify-Access-Token", accessToken)),
		httpx.WithLimiter(httpx.NewLimiter(defaultRate, defaultBurst)),
	}
	return &Client{
		http:    httpx.NewClient(ShopURL(shop), append(base, opts...)...),
		version: apiVersion,
	}
}

// GraphQLError is one entry of a GraphQL errors array.
type GraphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// Response is a raw GraphQL result: the data subtree plus throttle
// cost details.
type Response struct {
	Data json.RawMessage

	// RequestedCost and Available come from the cost extension and
	// feed throttle diagnostics.
	RequestedCost float64
	Available     float64

	Raw []byte
}

type graphqlEnvelope struct {
	Data       json.RawMessage `json:"data"`
	Errors     []GraphQLError  `json:"errors"`
	Extensions struct {
		Cost struct {
			RequestedQueryCost float64 `json:"requestedQueryCost"`
			ThrottleStatus     struct {
				CurrentlyAvailable float64 `json:"currentlyAvailable"`
			} `json:"throttleStatus"`
		} `json:"cost"`
	} `json:"extensions"`
}

// Query posts a GraphQL document with variables.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("empty GraphQL query")
	}

	payload := map[string]any{"query": query}
	if len(variables) > 0 {
		payload["variables"] = variables
	}

	body, _, err := c.http.Do(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/admin/api/%s/graphql.json", c.version),
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var env graphqlEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(err, "decoding GraphQL response")
	}

	if len(env.Errors) > 0 {
		for _, e := range env.Errors {
			if e.Extensions.Code == "THROTTLED" {
				return nil, errors.WithDetailf(ErrThrottled,
					"requested cost %.0f, available %.0f",
					env.Extensions.Cost.RequestedQueryCost,
					env.Extensions.Cost.ThrottleStatus.CurrentlyAvailable)
			}
		}
		msgs := make([]string, len(env.Errors))
		for i, e := range env.Errors {
			msgs[i] = e.Message
		}
		return nil, errors.Newf("shopify: %s", strings.Join(msgs, "; "))
	}

	return &Response{
		Data:          env.Data,
		RequestedCost: env.Extensions.Cost.RequestedQueryCost,
		Available:     env.Extensions.Cost.ThrottleStatus.CurrentlyAvailable,
		Raw:           body,
	}, nil
}

// QueryInto runs a query and decodes the data subtree into out.
func (c *Client) QueryInto(ctx context.Context, query string, variables map[string]any, out any) error {
	resp, err := c.Query(ctx, query, variables)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(resp.Data, out), "decoding GraphQL data")
}
