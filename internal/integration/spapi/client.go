package spapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/httpx"
)

// DefaultEndpoint is the North America SP-API endpoint.
const DefaultEndpoint = "https://sellingpartnerapi-na.amazon.com"

// MarketplaceUS is the amazon.com marketplace id, the default when a
// command names none.
const MarketplaceUS = "ATVPDKIKX0DER"

// Orders endpoints are throttled to roughly one request per second
// with a small burst allowance.
const (
	defaultRate  = 1.0
	defaultBurst = 5
)

// Client calls the Selling Partner API. SP-API authenticates with the
// x-amz-access-token header rather than Authorization.
type Client struct {
	http *httpx.Client
}

// NewClient builds a client for the given endpoint. The token function
// is called per attempt so refreshes picked up by the cache apply to
// retries too.
func NewClient(endpoint string, token func(ctx context.Context) (credcache.Token, error), opts ...httpx.ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	auth := func(ctx context.Context, req *http.Request) error {
		tok, err := token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("x-amz-access-token", tok.AccessToken)
		return nil
	}
	base := []httpx.ClientOption{
		httpx.WithAuth(auth),
		httpx.WithLimiter(httpx.NewLimiter(defaultRate, defaultBurst)),
	}
	return &Client{http: httpx.NewClient(endpoint, append(base, opts...)...)}
}

// Order is one order summary from the Orders API.
type Order struct {
	AmazonOrderID   string `json:"AmazonOrderId"`
	PurchaseDate    string `json:"PurchaseDate"`
	OrderStatus     string `json:"OrderStatus"`
	OrderTotal      *Money `json:"OrderTotal,omitempty"`
	FulfillmentChan string `json:"FulfillmentChannel,omitempty"`
	MarketplaceID   string `json:"MarketplaceId,omitempty"`
}

// Money is an SP-API currency amount.
type Money struct {
	CurrencyCode string `json:"CurrencyCode"`
	Amount       string `json:"Amount"`
}

// ordersEnvelope wraps the Orders API payload.
type ordersEnvelope struct {
	Payload struct {
		Orders    []Order `json:"Orders"`
		NextToken string  `json:"NextToken"`
	} `json:"payload"`
}

// OrdersQuery filters ListOrders.
type OrdersQuery struct {
	MarketplaceIDs []string
	CreatedAfter   time.Time
	Statuses       []string
	NextToken      string
}

// OrdersPage is one page of order results.
type OrdersPage struct {
	Orders    []Order
	NextToken string

	// Raw is the unmodified response body, for --format json.
	Raw []byte
}

// ListOrders fetches one page of orders.
func (c *Client) ListOrders(ctx context.Context, q OrdersQuery) (*OrdersPage, error) {
	query := url.Values{}
	if q.NextToken != "" {
		query.Set("NextToken", q.NextToken)
	} else {
		query.Set("MarketplaceIds", strings.Join(q.MarketplaceIDs, ","))
		if !q.CreatedAfter.IsZero() {
			query.Set("CreatedAfter", q.CreatedAfter.UTC().Format(time.RFC3339))
		}
		if len(q.Statuses) > 0 {
			query.Set("OrderStatuses", strings.Join(q.Statuses, ","))
		}
	}

	body, _, err := c.http.Do(ctx, httpx.Request{
		Path:  "/orders/v0/orders",
		Query: query,
	})
	if err != nil {
		return nil, err
	}

	var env ordersEnvelope
	if err := unmarshal(body, &env); err != nil {
		return nil, err
	}
	return &OrdersPage{
		Orders:    env.Payload.Orders,
		NextToken: env.Payload.NextToken,
		Raw:       body,
	}, nil
}

// GetOrder fetches a single order by its Amazon order id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, []byte, error) {
	body, _, err := c.http.Do(ctx, httpx.Request{
		Path: "/orders/v0/orders/" + url.PathEscape(orderID),
	})
	if err != nil {
		return nil, nil, err
	}

	var env struct {
		Payload Order `json:"payload"`
	}
	if err := unmarshal(body, &env); err != nil {
		return nil, nil, err
	}
	return &env.Payload, body, nil
}

// Participation is one marketplace the seller participates in.
type Participation struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
	Currency    string `json:"defaultCurrencyCode"`
}

// ListMarketplaces returns the marketplaces the selling account
// participates in.
func (c *Client) ListMarketplaces(ctx context.Context) ([]Participation, []byte, error) {
	body, _, err := c.http.Do(ctx, httpx.Request{
		Path: "/sellers/v1/marketplaceParticipations",
	})
	if err != nil {
		return nil, nil, err
	}

	var env struct {
		Payload []struct {
			Marketplace Participation `json:"marketplace"`
		} `json:"payload"`
	}
	if err := unmarshal(body, &env); err != nil {
		return nil, nil, err
	}
	out := make([]Participation, 0, len(env.Payload))
	for _, p := range env.Payload {
		out = append(out, p.Marketplace)
	}
	return out, body, nil
}

// CatalogItem is a catalog lookup result.
type CatalogItem struct {
	ASIN      string `json:"asin"`
	Summaries []struct {
		MarketplaceID string `json:"marketplaceId"`
		ItemName      string `json:"itemName"`
		Brand         string `json:"brand"`
	} `json:"summaries"`

	Raw []byte `json:"-"`
}

// GetCatalogItem looks up an item by ASIN.
func (c *Client) GetCatalogItem(ctx context.Context, asin string, marketplaceIDs []string) (*CatalogItem, error) {
	query := url.Values{}
	query.Set("marketplaceIds", strings.Join(marketplaceIDs, ","))
	query.Set("includedData", "summaries")

	body, _, err := c.http.Do(ctx, httpx.Request{
		Path:  "/catalog/2022-04-01/items/" + url.PathEscape(asin),
		Query: query,
	})
	if err != nil {
		return nil, err
	}

	var item CatalogItem
	if err := unmarshal(body, &item); err != nil {
		return nil, err
	}
	item.Raw = body
	return &item, nil
}

// Report is a report record from the Reports API.
type Report struct {
	ReportID         string `json:"reportId"`
	ReportType       string `json:"reportType"`
	ProcessingStatus string `json:"processingStatus"`
	ReportDocumentID string `json:"reportDocumentId,omitempty"`
	CreatedTime      string `json:"createdTime,omitempty"`
}

// CreateReport requests a new report and returns its id.
func (c *Client) CreateReport(ctx context.Context, reportType string, marketplaceIDs []string) (string, error) {
	var resp struct {
		ReportID string `json:"reportId"`
	}
	err := c.http.DoJSON(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   "/reports/2021-06-30/reports",
		Body: map[string]any{
			"reportType":     reportType,
			"marketplaceIds": marketplaceIDs,
		},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ReportID, nil
}

// GetReport fetches the processing state of a report.
func (c *Client) GetReport(ctx context.Context, reportID string) (*Report, error) {
	var report Report
	err := c.http.DoJSON(ctx, httpx.Request{
		Path: "/reports/2021-06-30/reports/" + url.PathEscape(reportID),
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReportDocument resolves a report document to its download URL.
func (c *Client) GetReportDocument(ctx context.Context, documentID string) (downloadURL, compression string, err error) {
	var resp struct {
		URL                  string `json:"url"`
		CompressionAlgorithm string `json:"compressionAlgorithm"`
	}
	err = c.http.DoJSON(ctx, httpx.Request{
		Path: "/reports/2021-06-30/documents/" + url.PathEscape(documentID),
	}, &resp)
	if err != nil {
		return "", "", err
	}
	return resp.URL, resp.CompressionAlgorithm, nil
}

// DownloadDocument fetches the report contents from its download URL.
// The URL is pre-signed and points at an external host, so neither the
// SP-API token nor the rate limiter applies.
func (c *Client) DownloadDocument(ctx context.Context, downloadURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building download request")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "downloading report document")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading report document")
	}
	if resp.StatusCode >= 400 {
		return nil, &httpx.StatusError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}
	return body, nil
}

func unmarshal(data []byte, out any) error {
	return errors.Wrap(json.Unmarshal(data, out), "decoding response")
}
