package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNumberEmbedsMillis(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	got := Number(at)
	if got != "BK-1700000000000" {
		t.Fatalf("Number = %q", got)
	}
	if !strings.HasPrefix(got, "BK-") {
		t.Fatalf("missing prefix: %q", got)
	}
}

func TestValidPatchStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "CONFIRMED", "CANCELLED", "COMPLETED"} {
		if !ValidPatchStatus(s) {
			t.Errorf("%s should be patchable", s)
		}
	}
	for _, s := range []string{"ACTIVE", "pending", "DELETED", ""} {
		if ValidPatchStatus(s) {
			t.Errorf("%s should not be patchable", s)
		}
	}
}

func TestMissingRequired(t *testing.T) {
	total := decimal.NewFromInt(1260)
	full := CreateInput{
		CompanyID:   "9b9e5af1-0000-0000-0000-000000000001",
		VehicleID:   "9b9e5af1-0000-0000-0000-000000000002",
		CustomerID:  "9b9e5af1-0000-0000-0000-000000000003",
		StartDate:   "2026-01-01",
		EndDate:     "2026-02-15",
		TotalAmount: &total,
	}
	if full.MissingRequired() {
		t.Fatal("complete input flagged as missing")
	}

	cases := map[string]func(in *CreateInput){
		"companyId":   func(in *CreateInput) { in.CompanyID = "" },
		"vehicleId":   func(in *CreateInput) { in.VehicleID = "" },
		"customerId":  func(in *CreateInput) { in.CustomerID = "" },
		"startDate":   func(in *CreateInput) { in.StartDate = "" },
		"endDate":     func(in *CreateInput) { in.EndDate = "" },
		"totalAmount": func(in *CreateInput) { in.TotalAmount = nil },
	}
	for name, mutate := range cases {
		in := full
		mutate(&in)
		if !in.MissingRequired() {
			t.Errorf("missing %s not detected", name)
		}
	}

	zero := decimal.Zero
	in := full
	in.TotalAmount = &zero
	if !in.MissingRequired() {
		t.Error("zero totalAmount should count as missing")
	}
}

func TestParseDateFormats(t *testing.T) {
	if _, err := ParseDate("2026-03-01"); err != nil {
		t.Fatalf("bare date: %v", err)
	}
	if _, err := ParseDate("2026-03-01T10:30:00Z"); err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if _, err := ParseDate("01/03/2026"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
