package store

import (
	"encoding/json"
	"fmt"
	"io"

	"expensemate/internal/core"
)

// SeedRecord is the JSON form of an expense record used by seed files.
type SeedRecord struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Department  string `json:"department,omitempty"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Attachments int    `json:"attachments"`
}

// ToRecord converts and validates a seed entry.
func (s SeedRecord) ToRecord() (core.ExpenseRecord, error) {
	amount, err := core.ParseAmount(s.Amount)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("record %q amount: %w", s.ID, err)
	}
	date, err := core.ParseDate(s.Date)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("record %q date: %w", s.ID, err)
	}
	status, err := core.ParseStatus(s.Status)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("record %q status: %w", s.ID, err)
	}
	rec := core.ExpenseRecord{
		ID:              s.ID,
		Description:     s.Description,
		Amount:          amount,
		Category:        s.Category,
		Department:      s.Department,
		Date:            date,
		Status:          status,
		AttachmentCount: s.Attachments,
	}
	if err := rec.Validate(); err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("record %q: %w", s.ID, err)
	}
	return rec, nil
}

// DecodeSeed reads a JSON array of seed records. IDs must be unique.
func DecodeSeed(r io.Reader) ([]core.ExpenseRecord, error) {
	var raw []SeedRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]core.ExpenseRecord, 0, len(raw))
	for _, s := range raw {
		rec, err := s.ToRecord()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate record id %q", rec.ID)
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

// DemoRecords returns the built-in demonstration dataset in store order.
func DemoRecords() []core.ExpenseRecord {
	return []core.ExpenseRecord{
		{ID: "1", Description: "Team lunch at Olive Garden", Amount: core.Money{Cents: 8999}, Category: "Food", Department: "Sales", Date: core.NewDate(2023, 9, 15), Status: core.StatusApproved, AttachmentCount: 1},
		{ID: "2", Description: "Office supplies from Staples", Amount: core.Money{Cents: 4250}, Category: "Office", Department: "HR", Date: core.NewDate(2023, 9, 12), Status: core.StatusPending, AttachmentCount: 2},
		{ID: "3", Description: "Uber to client meeting", Amount: core.Money{Cents: 2500}, Category: "Travel", Department: "Sales", Date: core.NewDate(2023, 9, 10), Status: core.StatusApproved, AttachmentCount: 0},
		{ID: "4", Description: "Software subscription", Amount: core.Money{Cents: 9999}, Category: "Software", Department: "Engineering", Date: core.NewDate(2023, 9, 8), Status: core.StatusRejected, AttachmentCount: 1},
		{ID: "5", Description: "Hotel for conference", Amount: core.Money{Cents: 45000}, Category: "Travel", Department: "Engineering", Date: core.NewDate(2023, 9, 5), Status: core.StatusApproved, AttachmentCount: 3},
		{ID: "6", Description: "Client dinner", Amount: core.Money{Cents: 12075}, Category: "Food", Department: "Sales", Date: core.NewDate(2023, 9, 3), Status: core.StatusPending, AttachmentCount: 1},
		{ID: "7", Description: "Marketing materials print", Amount: core.Money{Cents: 15000}, Category: "Marketing", Department: "Marketing", Date: core.NewDate(2023, 8, 28), Status: core.StatusApproved, AttachmentCount: 0},
		{ID: "8", Description: "Train tickets", Amount: core.Money{Cents: 7850}, Category: "Travel", Department: "Finance", Date: core.NewDate(2023, 8, 25), Status: core.StatusApproved, AttachmentCount: 2},
	}
}
