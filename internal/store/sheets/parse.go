package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"expensemate/internal/core"
	"expensemate/internal/store"
)

// parseRows converts a values matrix into records. Empty rows are skipped
// silently; malformed or duplicate rows are skipped with a warning so one
// bad line does not hide the rest of the sheet.
func parseRows(ctx context.Context, values [][]interface{}) []core.ExpenseRecord {
	out := make([]core.ExpenseRecord, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for i, raw := range values {
		row := toStrings(raw)
		if isBlank(row) {
			continue
		}
		rec, err := rowToRecord(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed sheet row", "row", i+1, "error", err)
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			slog.WarnContext(ctx, "Skipping duplicate sheet row", "row", i+1, "id", rec.ID)
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

func rowToRecord(row []string) (core.ExpenseRecord, error) {
	attachments := 0
	if s := safeGet(row, 7); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return core.ExpenseRecord{}, fmt.Errorf("attachments %q: %w", s, err)
		}
		attachments = n
	}
	seed := store.SeedRecord{
		ID:          safeGet(row, 0),
		Description: safeGet(row, 1),
		Amount:      strings.TrimPrefix(safeGet(row, 2), "$"),
		Category:    safeGet(row, 3),
		Department:  safeGet(row, 4),
		Date:        safeGet(row, 5),
		Status:      strings.ToLower(safeGet(row, 6)),
		Attachments: attachments,
	}
	return seed.ToRecord()
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case string:
			out[i] = strings.TrimSpace(x)
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		case nil:
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(x))
		}
	}
	return out
}

func safeGet(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, s := range row {
		if s != "" {
			return false
		}
	}
	return true
}
