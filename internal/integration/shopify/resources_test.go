package shopify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"products":{
			"edges":[
				{"cursor":"c1","node":{"id":"gid://shopify/Product/1","title":"Widget","status":"ACTIVE","totalInventory":12,"vendor":"Acme"}},
				{"cursor":"c2","node":{"id":"gid://shopify/Product/2","title":"Gadget","status":"DRAFT","totalInventory":0,"vendor":"Acme"}}
			],
			"pageInfo":{"hasNextPage":true}}}}`))
	}))
	defer srv.Close()

	page, err := testClient(srv.URL, "2026-07").ListProducts(context.Background(), 2, "", "status:active")
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(page.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(page.Nodes))
	}
	if page.Nodes[0].Title != "Widget" || page.Nodes[0].Inventory != 12 {
		t.Errorf("first product = %+v", page.Nodes[0])
	}
	if !page.HasNext || page.EndCursor != "c2" {
		t.Errorf("pagination = hasNext %v cursor %q, want true c2", page.HasNext, page.EndCursor)
	}
}

func TestListOrdersEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"orders":{"edges":[],"pageInfo":{"hasNextPage":false}}}}`))
	}))
	defer srv.Close()

	page, err := testClient(srv.URL, "2026-07").ListOrders(context.Background(), 10, "", "")
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(page.Nodes) != 0 || page.HasNext {
		t.Errorf("page = %+v, want empty final page", page)
	}
}

func TestListVariables(t *testing.T) {
	vars := listVariables(25, "", "")
	if len(vars) != 1 || vars["first"] != 25 {
		t.Errorf("vars = %v, want only first", vars)
	}
	vars = listVariables(10, "cur", "status:active")
	if vars["after"] != "cur" || vars["query"] != "status:active" {
		t.Errorf("vars = %v", vars)
	}
}
