package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer exports reports to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{config: config, service: service, logger: logger}, nil
}

// Write replaces the Transactions and Summary tabs with e and returns the spreadsheet id.
func (w *Writer) Write(ctx context.Context, e Export) (string, error) {
	w.logger.Info("starting report export",
		"period", e.Period.String(),
		"transactions", len(e.Transactions))

	spreadsheetID, tabs, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	txRows := TransactionRows(e.Transactions)
	summaryRows := SummaryRows(e)

	for tab, rows := range map[string][][]any{TransactionsTab: txRows, SummaryTab: summaryRows} {
		if err := w.clearTab(ctx, spreadsheetID, tab); err != nil {
			return "", fmt.Errorf("failed to clear %s: %w", tab, err)
		}
		if err := w.writeData(ctx, spreadsheetID, tab, rows); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", tab, err)
		}
	}

	if w.config.EnableFormatting {
		if err := w.applyFormatting(ctx, spreadsheetID, tabs, len(txRows)); err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("report export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(txRows)+len(summaryRows))

	return spreadsheetID, nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		token := &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}
		if token.RefreshToken == "" {
			saved, err := LoadToken(config.TokenFile)
			if err != nil {
				return nil, fmt.Errorf("unable to load token file %s: %w", config.TokenFile, err)
			}
			token = saved
		}
		tokenSource = oauthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// getOrCreateSpreadsheet returns the spreadsheet id and the sheet id of each tab,
// creating the spreadsheet or missing tabs as needed.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, map[string]int64, error) {
	if w.config.SpreadsheetID == "" {
		created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{
				Title:    w.config.SpreadsheetName,
				TimeZone: w.config.TimeZone,
			},
			Sheets: []*sheets.Sheet{
				{Properties: &sheets.SheetProperties{Title: TransactionsTab}},
				{Properties: &sheets.SheetProperties{Title: SummaryTab}},
			},
		}).Context(ctx).Do()
		if err != nil {
			return "", nil, fmt.Errorf("unable to create spreadsheet: %w", err)
		}

		w.logger.Info("created new spreadsheet",
			"id", created.SpreadsheetId,
			"url", created.SpreadsheetUrl)
		return created.SpreadsheetId, sheetIDs(created), nil
	}

	existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}

	tabs := sheetIDs(existing)
	var requests []*sheets.Request
	for _, title := range []string{TransactionsTab, SummaryTab} {
		if _, ok := tabs[title]; !ok {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
			})
		}
	}
	if len(requests) == 0 {
		return existing.SpreadsheetId, tabs, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(existing.SpreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to add tabs: %w", err)
	}
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			tabs[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
		}
	}
	return existing.SpreadsheetId, tabs, nil
}

func sheetIDs(s *sheets.Spreadsheet) map[string]int64 {
	ids := make(map[string]int64, len(s.Sheets))
	for _, sh := range s.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	return ids
}

// clearTab clears all data from one tab.
func (w *Writer) clearTab(ctx context.Context, spreadsheetID, tab string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, tab+"!A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes rows to a tab in batches.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		rangeStr := fmt.Sprintf("%s!A%d", tab, i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "tab", tab, "start_row", i+1, "rows", len(batch))
	}
	return nil
}

// applyFormatting bolds headers, formats the amount column as currency and freezes the header row.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, tabs map[string]int64, txRows int) error {
	txSheet := tabs[TransactionsTab]
	summarySheet := tabs[SummaryTab]

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{SheetId: txSheet, StartRowIndex: 0, EndRowIndex: 1},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true}},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          txSheet,
					StartRowIndex:    1,
					EndRowIndex:      int64(txRows),
					StartColumnIndex: 5,
					EndColumnIndex:   6,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: w.config.CurrencyPattern},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{SheetId: summarySheet, StartRowIndex: 0, EndRowIndex: 1},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true, FontSize: 16}},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{SheetId: txSheet, Dimension: "COLUMNS", StartIndex: 0, EndIndex: 7},
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        txSheet,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
