package store

import (
	"errors"
	"strings"
	"testing"

	"expensemate/internal/core"
)

func TestDecodeSeed(t *testing.T) {
	in := `[
		{"id":"a","description":"Taxi","amount":"12.50","category":"Travel","date":"2023-09-01","status":"pending","attachments":1},
		{"id":"b","description":"Lunch","amount":"8","category":"Food","department":"Sales","date":"2023-09-02","status":"approved","attachments":0}
	]`
	records, err := DecodeSeed(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeSeed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Amount.Cents != 1250 || records[0].Status != core.StatusPending {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].Department != "Sales" || records[1].Date.String() != "2023-09-02" {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}

func TestDecodeSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"unknown status", `[{"id":"a","amount":"1","date":"2023-09-01","status":"archived"}]`, core.ErrInvalidStatus},
		{"bad date", `[{"id":"a","amount":"1","date":"09/01/2023","status":"pending"}]`, core.ErrInvalidDate},
		{"negative amount", `[{"id":"a","amount":"-1","date":"2023-09-01","status":"pending"}]`, core.ErrInvalidAmount},
		{"missing id", `[{"amount":"1","date":"2023-09-01","status":"pending"}]`, core.ErrEmptyID},
		{"negative attachments", `[{"id":"a","amount":"1","date":"2023-09-01","status":"pending","attachments":-2}]`, core.ErrNegativeAttachments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeSeed(strings.NewReader(tt.in)); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	dup := `[{"id":"a","amount":"1","date":"2023-09-01","status":"pending"},{"id":"a","amount":"2","date":"2023-09-02","status":"pending"}]`
	if _, err := DecodeSeed(strings.NewReader(dup)); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestDemoRecordsAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range DemoRecords() {
		if err := r.Validate(); err != nil {
			t.Errorf("record %s invalid: %v", r.ID, err)
		}
		if seen[r.ID] {
			t.Errorf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
	if len(seen) != 8 {
		t.Fatalf("expected 8 demo records, got %d", len(seen))
	}
}
