package spapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/httpx"
)

func staticToken(tok string) func(ctx context.Context) (credcache.Token, error) {
	return func(context.Context) (credcache.Token, error) {
		return credcache.Token{AccessToken: tok}, nil
	}
}

func TestLWASourceRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("refresh_token"); got != "Atzr|refresh" {
			t.Errorf("refresh_token = %q", got)
		}
		w.Write([]byte(`{"access_token":"Atza|fresh","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	src := &LWASource{
		Profile:      "prod",
		ClientID:     "amzn1.application-oa2-client.x",
		ClientSecret: "secret",
		RefreshToken: "Atzr|refresh",
		TokenURL:     srv.URL,
	}

	if src.Key() != "spapi/prod" {
		t.Errorf("Key() = %q", src.Key())
	}

	tok, err := src.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if tok.AccessToken != "Atza|fresh" {
		t.Errorf("access token = %q", tok.AccessToken)
	}
	ttl := tok.TTL(time.Now())
	if ttl < 59*time.Minute || ttl > time.Hour {
		t.Errorf("TTL = %v, want ~1h", ttl)
	}
}

func TestLWASourceMissingCredentials(t *testing.T) {
	src := &LWASource{Profile: "prod"}
	if _, err := src.Refresh(context.Background()); err == nil {
		t.Fatal("expected error for empty credentials")
	}
}

func TestListOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-amz-access-token"); got != "Atza|tok" {
			t.Errorf("access token header = %q", got)
		}
		if got := r.URL.Query().Get("MarketplaceIds"); got != "ATVPDKIKX0DER" {
			t.Errorf("MarketplaceIds = %q", got)
		}
		w.Write([]byte(`{"payload":{"Orders":[
			{"AmazonOrderId":"111-222","OrderStatus":"Shipped","PurchaseDate":"2026-08-01T00:00:00Z"}
		],"NextToken":"next1"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("Atza|tok"))
	page, err := client.ListOrders(context.Background(), OrdersQuery{
		MarketplaceIDs: []string{"ATVPDKIKX0DER"},
		CreatedAfter:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(page.Orders) != 1 || page.Orders[0].AmazonOrderID != "111-222" {
		t.Errorf("orders = %+v", page.Orders)
	}
	if page.NextToken != "next1" {
		t.Errorf("NextToken = %q", page.NextToken)
	}
	if len(page.Raw) == 0 {
		t.Error("Raw body not preserved")
	}
}

func TestListOrdersNextTokenOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("NextToken"); got != "tok-2" {
			t.Errorf("NextToken = %q", got)
		}
		if q.Has("MarketplaceIds") {
			t.Error("MarketplaceIds must be omitted when paging")
		}
		w.Write([]byte(`{"payload":{"Orders":[]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("t"))
	if _, err := client.ListOrders(context.Background(), OrdersQuery{NextToken: "tok-2"}); err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
}

func TestReportLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/reports/2021-06-30/reports":
			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte(`{"reportId":"rpt-1"}`))
		case r.URL.Path == "/reports/2021-06-30/reports/rpt-1":
			w.Write([]byte(`{"reportId":"rpt-1","processingStatus":"DONE","reportDocumentId":"doc-1"}`))
		case r.URL.Path == "/reports/2021-06-30/documents/doc-1":
			w.Write([]byte(`{"url":"https://s3.example/doc","compressionAlgorithm":"GZIP"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("t"), httpx.WithLimiter(nil))

	id, err := client.CreateReport(context.Background(), "GET_FLAT_FILE_ALL_ORDERS_DATA", []string{"ATVPDKIKX0DER"})
	if err != nil {
		t.Fatalf("CreateReport() error = %v", err)
	}
	if id != "rpt-1" {
		t.Errorf("report id = %q", id)
	}

	report, err := client.GetReport(context.Background(), id)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if report.ProcessingStatus != "DONE" {
		t.Errorf("status = %q", report.ProcessingStatus)
	}

	u, compression, err := client.GetReportDocument(context.Background(), report.ReportDocumentID)
	if err != nil {
		t.Fatalf("GetReportDocument() error = %v", err)
	}
	if u != "https://s3.example/doc" || compression != "GZIP" {
		t.Errorf("url = %q compression = %q", u, compression)
	}
}

func TestGetOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/v0/orders/111-222" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"payload":{"AmazonOrderId":"111-222","OrderStatus":"Shipped",
			"OrderTotal":{"CurrencyCode":"USD","Amount":"42.50"}}}`))
	}))
	defer srv.Close()

	order, raw, err := NewClient(srv.URL, staticToken("t")).GetOrder(context.Background(), "111-222")
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	if order.AmazonOrderID != "111-222" || order.OrderTotal == nil || order.OrderTotal.Amount != "42.50" {
		t.Errorf("order = %+v", order)
	}
	if len(raw) == 0 {
		t.Error("raw body not preserved")
	}
}

func TestListMarketplaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sellers/v1/marketplaceParticipations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"payload":[
			{"marketplace":{"id":"ATVPDKIKX0DER","name":"Amazon.com","countryCode":"US","defaultCurrencyCode":"USD"}},
			{"marketplace":{"id":"A2EUQ1WTGCTBG2","name":"Amazon.ca","countryCode":"CA","defaultCurrencyCode":"CAD"}}
		]}`))
	}))
	defer srv.Close()

	parts, _, err := NewClient(srv.URL, staticToken("t")).ListMarketplaces(context.Background())
	if err != nil {
		t.Fatalf("ListMarketplaces() error = %v", err)
	}
	if len(parts) != 2 || parts[0].ID != "ATVPDKIKX0DER" || parts[1].CountryCode != "CA" {
		t.Errorf("participations = %+v", parts)
	}
}

func TestDownloadDocumentSkipsAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-amz-access-token"); got != "" {
			t.Errorf("access token leaked to pre-signed host: %q", got)
		}
		w.Write([]byte("sku\tqty\nA1\t3\n"))
	}))
	defer srv.Close()

	body, err := NewClient("https://unused.example", staticToken("secret")).DownloadDocument(context.Background(), srv.URL+"/doc")
	if err != nil {
		t.Fatalf("DownloadDocument() error = %v", err)
	}
	if !strings.HasPrefix(string(body), "sku\t") {
		t.Errorf("body = %q", body)
	}
}

func TestDownloadDocumentStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := NewClient("https://unused.example", staticToken("t")).DownloadDocument(context.Background(), srv.URL)
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusGone {
		t.Fatalf("err = %v, want StatusError 410", err)
	}
}
