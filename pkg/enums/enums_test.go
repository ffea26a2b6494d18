package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses() {
		got, err := ParseOrderStatus(string(status))
		if err != nil || got != status {
			t.Fatalf("expected %s to parse, got %s err=%v", status, got, err)
		}
	}
	if got, err := ParseOrderStatus(" Preparing "); err != nil || got != OrderStatusPreparing {
		t.Fatalf("expected whitespace/case to be tolerated, got %s err=%v", got, err)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatalf("expected unknown status to fail")
	}
	if OrderStatus("cancelled").IsValid() {
		t.Fatalf("cancelled is not a known status")
	}
}

func TestOrderStatusesIsACopy(t *testing.T) {
	list := OrderStatuses()
	list[0] = "mutated"
	if OrderStatuses()[0] != OrderStatusPending {
		t.Fatalf("OrderStatuses must not expose internal slice")
	}
}

func TestParseUserRole(t *testing.T) {
	if r, err := ParseUserRole("admin"); err != nil || r != UserRoleAdmin {
		t.Fatalf("expected admin, got %s err=%v", r, err)
	}
	if _, err := ParseUserRole("owner"); err == nil {
		t.Fatalf("expected owner to be rejected")
	}
}
