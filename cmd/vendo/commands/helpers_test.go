package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/httpx"
	"github.com/vendocli/vendo/internal/render"
)

func TestParseSince(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"days", "7d", now.AddDate(0, 0, -7), false},
		{"weeks", "2w", now.AddDate(0, 0, -14), false},
		{"duration", "36h", now.Add(-36 * time.Hour), false},
		{"zero days", "0d", now, false},
		{"empty means unset", "", time.Time{}, false},
		{"garbage", "lastweek", time.Time{}, true},
		{"negative days", "-3d", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSince(tt.input, now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSince(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSince(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseSince(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecordTable(t *testing.T) {
	rows := []map[string]any{
		{"id": 1, "name": "alpha", "links": []any{"x"}},
		{"id": 2, "status": "open"},
	}

	tbl := recordTable(rows, nil)

	wantHeader := []string{"id", "name", "status"}
	if len(tbl.Header) != len(wantHeader) {
		t.Fatalf("header = %v, want %v", tbl.Header, wantHeader)
	}
	for i, h := range wantHeader {
		if tbl.Header[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, tbl.Header[i], h)
		}
	}

	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	if tbl.Rows[0][0] != "1" || tbl.Rows[0][1] != "alpha" || tbl.Rows[0][2] != "" {
		t.Errorf("row 0 = %v", tbl.Rows[0])
	}
	if tbl.Rows[1][2] != "open" {
		t.Errorf("row 1 status = %q, want open", tbl.Rows[1][2])
	}
}

func TestRecordTableEmpty(t *testing.T) {
	tbl := recordTable(nil, nil)
	if len(tbl.Header) != 0 || len(tbl.Rows) != 0 {
		t.Errorf("empty input produced header=%v rows=%v", tbl.Header, tbl.Rows)
	}
}

func TestRawJSON(t *testing.T) {
	if rawJSON(nil) != nil {
		t.Error("rawJSON(nil) should be nil")
	}

	raw := rawJSON([]byte(`{"ok":true}`))
	tbl := render.Table{Raw: raw}

	var buf bytes.Buffer
	if err := render.Write(&buf, render.FormatJSON, tbl); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"ok": true`) {
		t.Errorf("JSON output = %q, want verbatim body", buf.String())
	}
}

func TestWriteOutputRejectsBadFormat(t *testing.T) {
	cmd := rootCmd
	err := writeOutput(cmd, "xml", "", render.Table{})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestMapVendorErrUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := httpx.NewClient(srv.URL)
	_, _, err := client.Do(context.Background(), httpx.Request{Path: "/orders"})
	if err == nil {
		t.Fatal("expected error from 401 response")
	}

	mapped := mapVendorErr("spapi", err)
	var exit *errors.ExitError
	if !errors.As(mapped, &exit) {
		t.Fatalf("mapped error = %T, want *errors.ExitError", mapped)
	}
	if exit.Code != errors.ExitUser {
		t.Errorf("Code = %d, want %d", exit.Code, errors.ExitUser)
	}
	if !strings.Contains(exit.Suggestion, "credentials") {
		t.Errorf("Suggestion = %q, want credential hint", exit.Suggestion)
	}
	if !strings.Contains(exit.Suggestion, "vendo auth clear --vendor spapi") {
		t.Errorf("Suggestion = %q, want auth clear command", exit.Suggestion)
	}
}

func TestMapVendorErrPassesOtherErrorsThrough(t *testing.T) {
	base := errors.New("connection refused")
	if got := mapVendorErr("celigo", base); got != base {
		t.Errorf("mapVendorErr() = %v, want the error unchanged", got)
	}
	if got := mapVendorErr("celigo", nil); got != nil {
		t.Errorf("mapVendorErr(nil) = %v, want nil", got)
	}
}
