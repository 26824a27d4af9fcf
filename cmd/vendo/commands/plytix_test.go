package commands

import "testing"

func TestParsePlytixFilters(t *testing.T) {
	filters, err := parsePlytixFilters([]string{"status:equals:active", "barcode:exists:"})
	if err != nil {
		t.Fatalf("parsePlytixFilters failed: %v", err)
	}
	if len(filters) != 1 {
		t.Fatalf("expected one AND group, got %d", len(filters))
	}
	group := filters[0]
	if len(group) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(group))
	}
	if group[0].Field != "status" || group[0].Operator != "equals" || group[0].Value != "active" {
		t.Errorf("clause 0 = %+v", group[0])
	}
	if group[1].Field != "barcode" || group[1].Operator != "exists" || group[1].Value != "" {
		t.Errorf("clause 1 = %+v", group[1])
	}
}

func TestParsePlytixFiltersEmpty(t *testing.T) {
	filters, err := parsePlytixFilters(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filters != nil {
		t.Errorf("expected nil filters, got %v", filters)
	}
}

func TestParsePlytixFiltersInvalid(t *testing.T) {
	for _, clause := range []string{"status", ":equals:x", "field::"} {
		if _, err := parsePlytixFilters([]string{clause}); err == nil {
			t.Errorf("clause %q should be rejected", clause)
		}
	}
}
