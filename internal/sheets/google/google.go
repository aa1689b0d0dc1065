package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"clubledger/internal/core"
	ports "clubledger/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
	reportSheet   string
}

// Ensure interface conformance
var (
	_ ports.LedgerAppender = (*Client)(nil)
	_ ports.SnapshotWriter = (*Client)(nil)
)

// New creates a Sheets client for the public mirror spreadsheet.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, ledgerSheet, reportSheet string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if ledgerSheet == "" {
		ledgerSheet = "Ledger"
	}
	if reportSheet == "" {
		reportSheet = "Transparency"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
		reportSheet:   reportSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

// Append writes one ledger row after the last occupied row of the ledger sheet.
func (c *Client) Append(ctx context.Context, row ports.LedgerRow) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next empty row by getting the sheet dimensions first
	rng := fmt.Sprintf("%s!A:A", c.ledgerSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get sheet dimensions for %s: %w", c.ledgerSheet, err)
	}

	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:G%d", c.ledgerSheet, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		row.Date.String(),
		row.Kind,
		row.SeasonName,
		row.TeamName,
		row.Category,
		row.Description,
		row.Amount.String(),
	}}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to update %s in sheet %s: %w", dataRange, c.ledgerSheet, err)
	}

	return dataRange, nil
}

// WriteSnapshot replaces the transparency sheet with the current report.
func (c *Client) WriteSnapshot(ctx context.Context, report core.TransparencyReport) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:C", c.reportSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", c.reportSheet, err)
	}

	values := snapshotRows(report)
	writeRange := fmt.Sprintf("%s!A1:C%d", c.reportSheet, len(values))
	vr := &gsheet.ValueRange{Values: values}

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write snapshot to sheet %s: %w", c.reportSheet, err)
	}

	slog.InfoContext(ctx, "Wrote transparency snapshot",
		"sheet", c.reportSheet,
		"rows", len(values),
		"season_id", report.SeasonID)
	return nil
}

// snapshotRows flattens a transparency report into spreadsheet rows.
func snapshotRows(report core.TransparencyReport) [][]any {
	rows := [][]any{
		{report.OrganizationName, "", ""},
		{"Season", report.SeasonID, ""},
		{"", "", ""},
		{"Total Budgeted", report.TotalBudgeted.String(), ""},
		{"Total Expenses", report.TotalExpenses.String(), ""},
		{"Total Revenue", report.TotalRevenue.String(), ""},
		{"Profit / Loss", report.ProfitLoss.String(), ""},
		{"", "", ""},
		{"Expenses by Category", "", ""},
	}
	for _, name := range core.SortedCategoryNames(report.ExpensesByCategory) {
		rows = append(rows, []any{"", name, report.ExpensesByCategory[name].String()})
	}
	rows = append(rows, []any{"", "", ""}, []any{"Revenues by Category", "", ""})
	for _, name := range core.SortedCategoryNames(report.RevenuesByCategory) {
		rows = append(rows, []any{"", name, report.RevenuesByCategory[name].String()})
	}
	if len(report.PlayerCostBreakdown) > 0 {
		rows = append(rows, []any{"", "", ""}, []any{"Cost Per Player", "", ""})
		for _, b := range report.PlayerCostBreakdown {
			rows = append(rows, []any{"", b.TeamName, b.CostPerPlayer.String()})
		}
	}
	return rows
}
