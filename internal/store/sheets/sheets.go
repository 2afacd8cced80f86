// Package sheets reads expense records from a Google Sheets range.
//
// Expected columns, one record per row:
//
//	A id | B description | C amount | D category | E department | F date | G status | H attachments
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expensemate/internal/core"
	"expensemate/internal/store"
)

var _ store.RecordLister = (*Client)(nil)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// New creates a read-only Sheets client. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS, falling back to Application Default
// Credentials (gcloud login or the metadata server).
func New(ctx context.Context, spreadsheetID, readRange string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	opts, source, err := clientOptions(os.Getenv, os.ReadFile)
	if err != nil {
		return nil, err
	}
	service, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "credentials", source)
	return service, nil
}

// clientOptions picks the credential source. Explicit service account JSON
// wins over a file; with neither set the client library resolves ADC.
func clientOptions(getenv func(string) string, readFile func(string) ([]byte, error)) ([]goption.ClientOption, string, error) {
	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsReadonlyScope)}

	if raw := strings.TrimSpace(getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); raw != "" {
		return append(opts, goption.WithCredentialsJSON([]byte(raw))), "service_account_json", nil
	}
	if path := strings.TrimSpace(getenv("GOOGLE_SERVICE_ACCOUNT_FILE")); path != "" {
		data, err := readFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read service account file: %w", err)
		}
		return append(opts, goption.WithCredentialsJSON(data)), "service_account_file", nil
	}
	// GOOGLE_APPLICATION_CREDENTIALS is honoured by ADC itself.
	return opts, "application_default", nil
}

// ListRecords implements store.RecordLister
func (c *Client) ListRecords(ctx context.Context) ([]core.ExpenseRecord, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	// Amounts come back as numbers; dates keep the sheet's display format.
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", store.ErrUnavailable, c.readRange, err)
	}
	return parseRows(ctx, resp.Values), nil
}

// Ping reads the spreadsheet metadata.
func (c *Client) Ping(ctx context.Context) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	return err
}
