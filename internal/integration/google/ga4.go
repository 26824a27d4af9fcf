package google

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/httpx"
)

// ga4Endpoint is the Analytics Data API root.
const ga4Endpoint = "https://analyticsdata.googleapis.com"

// GA4Client runs reports against one GA4 property.
type GA4Client struct {
	http     *httpx.Client
	property string
}

// NewGA4Client builds a client for a property id such as "313646501".
// A "properties/" prefix is accepted and stripped.
func NewGA4Client(propertyID string, token func(ctx context.Context) (credcache.Token, error), opts ...httpx.ClientOption) *GA4Client {
	base := []httpx.ClientOption{
		httpx.WithAuth(tokenAuth(token)),
		httpx.WithLimiter(httpx.NewLimiter(5, 10)),
	}
	return &GA4Client{
		http:     httpx.NewClient(ga4Endpoint, append(base, opts...)...),
		property: strings.TrimPrefix(propertyID, "properties/"),
	}
}

// newGA4TestClient is used by tests to point at a local server.
func newGA4TestClient(endpoint, propertyID string) *GA4Client {
	return &GA4Client{http: httpx.NewClient(endpoint), property: propertyID}
}

// ReportRequest describes one runReport call.
type ReportRequest struct {
	StartDate  string
	EndDate    string
	Dimensions []string
	Metrics    []string
	Limit      int
}

// Report is a flattened runReport result: one row of dimension values
// followed by metric values, in request order.
type Report struct {
	DimensionHeaders []string
	MetricHeaders    []string
	Rows             [][]string
	RowCount         int

	Raw []byte
}

type ga4Response struct {
	DimensionHeaders []struct {
		Name string `json:"name"`
	} `json:"dimensionHeaders"`
	MetricHeaders []struct {
		Name string `json:"name"`
	} `json:"metricHeaders"`
	Rows []struct {
		DimensionValues []struct {
			Value string `json:"value"`
		} `json:"dimensionValues"`
		MetricValues []struct {
			Value string `json:"value"`
		} `json:"metricValues"`
	} `json:"rows"`
	RowCount int `json:"rowCount"`
}

// RunReport executes a GA4 report.
func (c *GA4Client) RunReport(ctx context.Context, req ReportRequest) (*Report, error) {
	if req.StartDate == "" || req.EndDate == "" {
		return nil, errors.New("report requires start and end dates")
	}

	dims := make([]map[string]string, len(req.Dimensions))
	for i, d := range req.Dimensions {
		dims[i] = map[string]string{"name": d}
	}
	mets := make([]map[string]string, len(req.Metrics))
	for i, m := range req.Metrics {
		mets[i] = map[string]string{"name": m}
	}

	payload := map[string]any{
		"dateRanges": []map[string]string{{"startDate": req.StartDate, "endDate": req.EndDate}},
		"dimensions": dims,
		"metrics":    mets,
	}
	if req.Limit > 0 {
		payload["limit"] = req.Limit
	}

	body, _, err := c.http.Do(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   "/v1beta/properties/" + c.property + ":runReport",
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var resp ga4Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "decoding report")
	}

	report := &Report{RowCount: resp.RowCount, Raw: body}
	for _, h := range resp.DimensionHeaders {
		report.DimensionHeaders = append(report.DimensionHeaders, h.Name)
	}
	for _, h := range resp.MetricHeaders {
		report.MetricHeaders = append(report.MetricHeaders, h.Name)
	}
	for _, row := range resp.Rows {
		flat := make([]string, 0, len(row.DimensionValues)+len(row.MetricValues))
		for _, v := range row.DimensionValues {
			flat = append(flat, v.Value)
		}
		for _, v := range row.MetricValues {
			flat = append(flat, v.Value)
		}
		report.Rows = append(report.Rows, flat)
	}
	return report, nil
}
