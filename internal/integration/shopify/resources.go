package shopify

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Canned documents for the common list operations, so callers get
// tables without writing GraphQL.
const (
	productsQuery = `query products($first: Int!, $after: String, $query: String) {
  products(first: $first, after: $after, query: $query) {
    edges {
      cursor
      node { id title handle status totalInventory vendor }
    }
    pageInfo { hasNextPage }
  }
}`

	ordersQuery = `query orders($first: Int!, $after: String, $query: String) {
  orders(first: $first, after: $after, query: $query) {
    edges {
      cursor
      node {
        id name createdAt displayFinancialStatus displayFulfillmentStatus
        totalPriceSet { shopMoney { amount currencyCode } }
      }
    }
    pageInfo { hasNextPage }
  }
}`
)

// Product is one row of a product listing.
type Product struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Handle    string `json:"handle"`
	Status    string `json:"status"`
	Inventory int    `json:"totalInventory"`
	Vendor    string `json:"vendor"`
}

// OrderRow is one row of an order listing.
type OrderRow struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	CreatedAt         string `json:"createdAt"`
	FinancialStatus   string `json:"displayFinancialStatus"`
	FulfillmentStatus string `json:"displayFulfillmentStatus"`
	TotalPriceSet     struct {
		ShopMoney struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"shopMoney"`
	} `json:"totalPriceSet"`
}

// ListPage carries cursor pagination state alongside the decoded rows.
type ListPage[T any] struct {
	Nodes     []T
	EndCursor string
	HasNext   bool
	Raw       []byte
}

type connection[T any] struct {
	Edges []struct {
		Cursor string `json:"cursor"`
		Node   T      `json:"node"`
	} `json:"edges"`
	PageInfo struct {
		HasNextPage bool `json:"hasNextPage"`
	} `json:"pageInfo"`
}

func listVariables(first int, after, search string) map[string]any {
	vars := map[string]any{"first": first}
	if after != "" {
		vars["after"] = after
	}
	if search != "" {
		vars["query"] = search
	}
	return vars
}

func runList[T any](ctx context.Context, c *Client, doc string, root string, first int, after, search string) (*ListPage[T], error) {
	resp, err := c.Query(ctx, doc, listVariables(first, after, search))
	if err != nil {
		return nil, err
	}

	var data map[string]connection[T]
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, errors.Wrap(err, "decoding GraphQL data")
	}

	page := &ListPage[T]{Raw: resp.Raw}
	conn := data[root]
	page.HasNext = conn.PageInfo.HasNextPage
	for _, e := range conn.Edges {
		page.Nodes = append(page.Nodes, e.Node)
		page.EndCursor = e.Cursor
	}
	return page, nil
}

// ListProducts fetches one page of products. search uses Shopify's
// search syntax (e.g. "status:active").
func (c *Client) ListProducts(ctx context.Context, first int, after, search string) (*ListPage[Product], error) {
	return runList[Product](ctx, c, productsQuery, "products", first, after, search)
}

// ListOrders fetches one page of orders.
func (c *Client) ListOrders(ctx context.Context, first int, after, search string) (*ListPage[OrderRow], error) {
	return runList[OrderRow](ctx, c, ordersQuery, "orders", first, after, search)
}
