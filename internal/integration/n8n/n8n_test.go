package n8n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListWorkflows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-N8N-API-KEY"); got != "n8n-key" {
			t.Errorf("api key header = %q", got)
		}
		if got := r.URL.Query().Get("active"); got != "true" {
			t.Errorf("active = %q", got)
		}
		w.Write([]byte(`{"data":[{"id":"w1","name":"Daily sync","active":true}],"nextCursor":"abc"}`))
	}))
	defer srv.Close()

	active := true
	flows, cursor, err := NewClient(srv.URL, "n8n-key").ListWorkflows(context.Background(), &active, "")
	if err != nil {
		t.Fatalf("ListWorkflows() error = %v", err)
	}
	if len(flows) != 1 || flows[0].Name != "Daily sync" {
		t.Errorf("flows = %+v", flows)
	}
	if cursor != "abc" {
		t.Errorf("cursor = %q", cursor)
	}
}

func TestActivateDeactivate(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k")
	if err := client.Activate(context.Background(), "w1"); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if err := client.Deactivate(context.Background(), "w1"); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if paths[0] != "/api/v1/workflows/w1/activate" || paths[1] != "/api/v1/workflows/w1/deactivate" {
		t.Errorf("paths = %v", paths)
	}
}

func TestListExecutionsFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("workflowId") != "w1" || q.Get("status") != "error" || q.Get("limit") != "20" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"data":[{"id":"e5","workflowId":"w1","status":"error"}]}`))
	}))
	defer srv.Close()

	execs, cursor, err := NewClient(srv.URL, "k").ListExecutions(context.Background(), "w1", "error", "", 20)
	if err != nil {
		t.Fatalf("ListExecutions() error = %v", err)
	}
	if len(execs) != 1 || execs[0].Status != "error" {
		t.Errorf("execs = %+v", execs)
	}
	if cursor != "" {
		t.Errorf("cursor = %q", cursor)
	}
}
