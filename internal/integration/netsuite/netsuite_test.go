package netsuite

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vendocli/vendo/internal/httpx"
)

func TestAccountForEnv(t *testing.T) {
	tests := []struct {
		account string
		env     string
		want    string
		wantErr bool
	}{
		{"1234567", "", "1234567", false},
		{"1234567", EnvProd, "1234567", false},
		{"1234567", EnvSB1, "1234567_SB1", false},
		{"1234567", EnvSB2, "1234567_SB2", false},
		{"1234567_SB1", EnvSB1, "1234567_SB1", false},
		{"1234567", "staging", "", true},
	}
	for _, tt := range tests {
		got, err := AccountForEnv(tt.account, tt.env)
		if (err != nil) != tt.wantErr {
			t.Errorf("AccountForEnv(%q, %q) error = %v", tt.account, tt.env, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AccountForEnv(%q, %q) = %q, want %q", tt.account, tt.env, got, tt.want)
		}
	}
}

func TestDomain(t *testing.T) {
	if got := Domain("1234567_SB1"); got != "1234567-sb1.suitetalk.api.netsuite.com" {
		t.Errorf("Domain() = %q", got)
	}
}

func writeTestKey(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "key.pem")
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatal(err)
	}
	return path, key
}

func TestSourceRefresh(t *testing.T) {
	keyPath, key := writeTestKey(t)

	var assertion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, err := parseForm(string(body))
		if err != nil {
			t.Fatal(err)
		}
		if form["grant_type"] != "client_credentials" {
			t.Errorf("grant_type = %q", form["grant_type"])
		}
		if form["client_assertion_type"] != "urn:ietf:params:oauth:client-assertion-type:jwt-bearer" {
			t.Errorf("assertion type = %q", form["client_assertion_type"])
		}
		assertion = form["client_assertion"]
		w.Write([]byte(`{"access_token":"ns-token","token_type":"Bearer","expires_in":"3600"}`))
	}))
	defer srv.Close()

	src := &Source{
		Profile:        "prod",
		AccountID:      "1234567",
		ClientID:       "client-1",
		CertID:         "cert-abc",
		PrivateKeyPath: keyPath,
		TokenURL:       srv.URL,
		now:            func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) },
	}

	tok, err := src.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if tok.AccessToken != "ns-token" {
		t.Errorf("access token = %q", tok.AccessToken)
	}
	want := time.Date(2026, 8, 28, 13, 0, 0, 0, time.UTC)
	if !tok.Expiry.Equal(want) {
		t.Errorf("expiry = %v, want %v", tok.Expiry, want)
	}

	// The assertion must verify against the signing key and carry the
	// certificate id in the kid header.
	parsed, err := jwt.Parse(assertion, func(tk *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{"PS256"}), jwt.WithTimeFunc(func() time.Time {
		return time.Date(2026, 8, 28, 12, 1, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("parsing assertion: %v", err)
	}
	if kid := parsed.Header["kid"]; kid != "cert-abc" {
		t.Errorf("kid = %v", kid)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["iss"] != "client-1" {
		t.Errorf("iss = %v", claims["iss"])
	}
	if claims["aud"] != srv.URL {
		t.Errorf("aud = %v", claims["aud"])
	}
}

func parseForm(body string) (map[string]string, error) {
	vals := map[string]string{}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.URL.RawQuery = body
	for k, v := range req.URL.Query() {
		vals[k] = v[0]
	}
	return vals, nil
}

func TestSourceKeyIncludesAccount(t *testing.T) {
	src := &Source{Profile: "default", AccountID: "1234567_SB1"}
	if got := src.Key(); got != "netsuite/default/1234567_sb1" {
		t.Errorf("Key() = %q", got)
	}
}

func TestQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Prefer"); got != "transient" {
			t.Errorf("Prefer = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer ns-tok" {
			t.Errorf("Authorization = %q", got)
		}
		var body struct {
			Q string `json:"q"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.Q != "SELECT id FROM transaction" {
			t.Errorf("q = %q", body.Q)
		}
		w.Write([]byte(`{"items":[{"id":"1"},{"id":"2"}],"count":2,"totalResults":2,"hasMore":false,"offset":0}`))
	}))
	defer srv.Close()

	client := &Client{http: httpx.NewClient(srv.URL, httpx.WithAuth(httpx.BearerAuth(func(context.Context) (string, error) {
		return "Bearer ns-tok", nil
	})))}

	page, err := client.Query(context.Background(), "SELECT id FROM transaction", 0, 0)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(page.Items) != 2 || page.Items[0]["id"] != "1" {
		t.Errorf("items = %v", page.Items)
	}
}

func TestQueryAllPagination(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("offset") {
		case "":
			w.Write([]byte(`{"items":[{"id":"1"}],"count":1,"totalResults":2,"hasMore":true,"offset":0}`))
		case "1":
			w.Write([]byte(`{"items":[{"id":"2"}],"count":1,"totalResults":2,"hasMore":false,"offset":1}`))
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	}))
	defer srv.Close()

	client := &Client{http: httpx.NewClient(srv.URL)}
	rows, err := client.QueryAll(context.Background(), "SELECT id FROM item", 0)
	if err != nil {
		t.Fatalf("QueryAll() error = %v", err)
	}
	if len(rows) != 2 || calls != 2 {
		t.Errorf("rows = %d calls = %d", len(rows), calls)
	}
}

func TestQueryEmpty(t *testing.T) {
	client := &Client{http: httpx.NewClient("https://example.invalid")}
	if _, err := client.Query(context.Background(), "", 0, 0); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestGetRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/services/rest/record/v1/salesorder/4821" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("expandSubResources"); got != "true" {
			t.Errorf("expandSubResources = %q", got)
		}
		w.Write([]byte(`{"id":"4821","tranId":"SO-4821","status":{"refName":"Billed"}}`))
	}))
	defer srv.Close()

	client := &Client{http: httpx.NewClient(srv.URL)}
	record, raw, err := client.GetRecord(context.Background(), "salesorder", "4821", true)
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if record["tranId"] != "SO-4821" {
		t.Errorf("record = %v", record)
	}
	if len(raw) == 0 {
		t.Error("raw body not preserved")
	}
}

func TestGetRecordValidation(t *testing.T) {
	client := &Client{http: httpx.NewClient("http://unused")}
	if _, _, err := client.GetRecord(context.Background(), "", "1", false); err == nil {
		t.Error("expected error for empty record type")
	}
	if _, _, err := client.GetRecord(context.Background(), "salesorder", "", false); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestQueryAllStopsOnEmptyPage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		// A misbehaving server that claims more rows but returns none.
		w.Write([]byte(`{"items":[],"count":0,"totalResults":10,"hasMore":true,"offset":0}`))
	}))
	defer srv.Close()

	client := &Client{http: httpx.NewClient(srv.URL)}
	rows, err := client.QueryAll(context.Background(), "SELECT id FROM item", 0)
	if err != nil {
		t.Fatalf("QueryAll() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (must not loop on an empty page)", calls)
	}
}
