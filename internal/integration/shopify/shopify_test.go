package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/httpx"
)

func TestShopURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"acme", "https://acme.myshopify.com"},
		{"acme.myshopify.com", "https://acme.myshopify.com"},
		{"https://acme.myshopify.com/", "https://acme.myshopify.com"},
		{"shop.example.com", "https://shop.example.com"},
	}
	for _, tt := range tests {
		if got := ShopURL(tt.input); got != tt.want {
			t.Errorf("ShopURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// testClient points a Client at a test server, keeping the version
// path logic intact.
func testClient(srvURL, version string) *Client {
	return &Client{
		http:    httpx.NewClient(srvURL, httpx.WithAuth(httpx.HeaderAuth("X-Shopify-Access-Token", "shpat_test"))),
		version: version,
	}
}

func TestQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "shpat_test" {
			t.Errorf("token header = %q", got)
		}
		if !strings.HasPrefix(r.URL.Path, "/admin/api/2026-07/") {
			t.Errorf("path = %q", r.URL.Path)
		}
		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(err)
		}
		if payload.Variables["first"] != float64(5) {
			t.Errorf("variables = %v", payload.Variables)
		}
		w.Write([]byte(`{"data":{"orders":{"edges":[{"node":{"name":"#1001"}}]}},
			"extensions":{"cost":{"requestedQueryCost":7,"throttleStatus":{"currentlyAvailable":993}}}}`))
	}))
	defer srv.Close()

	client := testClient(srv.URL, DefaultAPIVersion)

	var out struct {
		Orders struct {
			Edges []struct {
				Node struct {
					Name string `json:"name"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	}
	err := client.QueryInto(context.Background(), `query($first: Int!) { orders(first: $first) { edges { node { name } } } }`,
		map[string]any{"first": 5}, &out)
	if err != nil {
		t.Fatalf("QueryInto() error = %v", err)
	}
	if len(out.Orders.Edges) != 1 || out.Orders.Edges[0].Node.Name != "#1001" {
		t.Errorf("out = %+v", out)
	}
}

func TestQueryGraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Field 'bogus' doesn't exist"}]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, DefaultAPIVersion).Query(context.Background(), "{ bogus }", nil)
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error = %v", err)
	}
}

func TestQueryThrottled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Throttled","extensions":{"code":"THROTTLED"}}],
			"extensions":{"cost":{"requestedQueryCost":1000,"throttleStatus":{"currentlyAvailable":3}}}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, DefaultAPIVersion).Query(context.Background(), "{ orders { id } }", nil)
	if !errors.Is(err, ErrThrottled) {
		t.Errorf("error = %v, want ErrThrottled", err)
	}
}

func TestQueryEmpty(t *testing.T) {
	if _, err := testClient("https://example.invalid", DefaultAPIVersion).Query(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for empty query")
	}
}
