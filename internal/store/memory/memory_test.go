package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestListRecordsReturnsCopy(t *testing.T) {
	s := NewDemo()
	first, err := s.ListRecords(context.Background())
	if err != nil || len(first) != 8 {
		t.Fatalf("unexpected list: n=%d err=%v", len(first), err)
	}
	first[0].Description = "mutated"

	second, _ := s.ListRecords(context.Background())
	if second[0].Description != "Team lunch at Olive Garden" {
		t.Fatalf("store was mutated through returned slice: %q", second[0].Description)
	}
}

func TestListRecordsKeepsOrder(t *testing.T) {
	records, _ := NewDemo().ListRecords(context.Background())
	for i, r := range records {
		if want := string(rune('1' + i)); r.ID != want {
			t.Fatalf("position %d has id %s, want %s", i, r.ID, want)
		}
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()

	// No file -> demo dataset
	s, err := NewFromFile(filepath.Join(dir, "missing.json"))
	if err != nil || s.Len() != 8 {
		t.Fatalf("expected demo fallback, got len=%d err=%v", s.Len(), err)
	}

	path := filepath.Join(dir, "seed.json")
	content := `[{"id":"x1","description":"Taxi","amount":"10.00","category":"Travel","date":"2024-01-02","status":"approved","attachments":0}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err = NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	records, _ := s.ListRecords(context.Background())
	if len(records) != 1 || records[0].ID != "x1" || records[0].Amount.Cents != 1000 {
		t.Fatalf("unexpected records: %+v", records)
	}

	if err := os.WriteFile(path, []byte(`[{"id":"x1","status":"bogus"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromFile(path); err == nil {
		t.Fatal("expected error for malformed seed")
	}
}
