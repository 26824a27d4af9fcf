package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestRefreshSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("refresh_token"); got != "1//refresh" {
			t.Errorf("refresh_token = %q", got)
		}
		w.Write([]byte(`{"access_token":"ya29.fresh","token_type":"Bearer","expires_in":3599}`))
	}))
	defer srv.Close()

	src := &RefreshSource{
		Profile:      "default",
		ClientID:     "cid.apps.googleusercontent.com",
		ClientSecret: "sec",
		RefreshToken: "1//refresh",
		TokenURL:     srv.URL,
	}

	if src.Key() != "google/default" {
		t.Errorf("Key() = %q", src.Key())
	}

	tok, err := src.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if tok.AccessToken != "ya29.fresh" {
		t.Errorf("access token = %q", tok.AccessToken)
	}
	if tok.Stale(time.Now(), 5*time.Minute) {
		t.Error("fresh token reported stale")
	}
}

func TestRefreshSourceMissingCredentials(t *testing.T) {
	src := &RefreshSource{Profile: "default", ClientID: "x"}
	if _, err := src.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestGA4RunReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/properties/313646501:runReport" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(err)
		}
		ranges := payload["dateRanges"].([]any)[0].(map[string]any)
		if ranges["startDate"] != "2026-08-01" {
			t.Errorf("startDate = %v", ranges["startDate"])
		}
		w.Write([]byte(`{
			"dimensionHeaders":[{"name":"country"}],
			"metricHeaders":[{"name":"activeUsers"}],
			"rows":[{"dimensionValues":[{"value":"US"}],"metricValues":[{"value":"1234"}]}],
			"rowCount":1
		}`))
	}))
	defer srv.Close()

	client := newGA4TestClient(srv.URL, "313646501")
	report, err := client.RunReport(context.Background(), ReportRequest{
		StartDate:  "2026-08-01",
		EndDate:    "2026-08-28",
		Dimensions: []string{"country"},
		Metrics:    []string{"activeUsers"},
	})
	if err != nil {
		t.Fatalf("RunReport() error = %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0][0] != "US" || report.Rows[0][1] != "1234" {
		t.Errorf("rows = %v", report.Rows)
	}
	if report.DimensionHeaders[0] != "country" || report.MetricHeaders[0] != "activeUsers" {
		t.Errorf("headers = %v %v", report.DimensionHeaders, report.MetricHeaders)
	}
}

func TestGA4RequiresDates(t *testing.T) {
	client := newGA4TestClient("https://example.invalid", "1")
	if _, err := client.RunReport(context.Background(), ReportRequest{}); err == nil {
		t.Fatal("expected error for missing dates")
	}
}

func TestGSCQuery(t *testing.T) {
	site := "sc-domain:example.com"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "/webmasters/v3/sites/" + url.PathEscape(site) + "/searchAnalytics/query"
		if r.URL.EscapedPath() != want {
			t.Errorf("path = %q, want %q", r.URL.EscapedPath(), want)
		}
		w.Write([]byte(`{"rows":[{"keys":["vendo cli"],"clicks":10,"impressions":200,"ctr":0.05,"position":3.2}]}`))
	}))
	defer srv.Close()

	client := newGSCTestClient(srv.URL, site)
	result, err := client.Query(context.Background(), SearchQuery{
		StartDate:  "2026-08-01",
		EndDate:    "2026-08-28",
		Dimensions: []string{"query"},
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(result.Rows) != 1 || result.Rows[0].Keys[0] != "vendo cli" {
		t.Errorf("rows = %+v", result.Rows)
	}
	if result.Rows[0].Clicks != 10 {
		t.Errorf("clicks = %v", result.Rows[0].Clicks)
	}
}
