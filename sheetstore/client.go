// Package sheetstore is a thin client for a Google Sheets spreadsheet
// used as a tabular row store. Rows are addressed by worksheet title and
// 1-based row index; row 1 is the header.
package sheetstore

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps the Sheets API for one spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64 // worksheet title -> numeric sheet id
}

// New creates a client authenticated with a service-account key file.
func New(ctx context.Context, spreadsheetID, credentialsFile string) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// Rows returns every data row below the header of the named worksheet.
// Trailing empty cells are absent, so rows may be shorter than the
// header width.
func (c *Client) Rows(ctx context.Context, worksheet string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, worksheet+"!A2:Z").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", worksheet, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRow adds one row at the bottom of the named worksheet.
func (c *Client) AppendRow(ctx context.Context, worksheet string, cells []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toValues(cells)}}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, worksheet+"!A1", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", worksheet, err)
	}
	return nil
}

// UpdateCells overwrites individual cells, keyed by A1 reference
// (e.g. "A5"), in one batched call.
func (c *Client) UpdateCells(ctx context.Context, worksheet string, cells map[string]string) error {
	data := make([]*sheets.ValueRange, 0, len(cells))
	for ref, val := range cells {
		data = append(data, &sheets.ValueRange{
			Range:  worksheet + "!" + ref,
			Values: [][]interface{}{{val}},
		})
	}

	_, err := c.svc.Spreadsheets.Values.
		BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data:             data,
		}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", worksheet, err)
	}
	return nil
}

// DeleteRow removes the given 1-based row from the named worksheet.
// Rows below it shift up.
func (c *Client) DeleteRow(ctx context.Context, worksheet string, row int) error {
	sheetID, err := c.sheetID(ctx, worksheet)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete row %d from %s: %w", row, worksheet, err)
	}
	return nil
}

// sheetID resolves a worksheet title to its numeric sheet id. The
// DeleteDimension request only accepts numeric ids, so titles are
// resolved once and memoized.
func (c *Client) sheetID(ctx context.Context, worksheet string) (int64, error) {
	c.mu.Lock()
	id, ok := c.sheetIDs[worksheet]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	resp, err := c.svc.Spreadsheets.
		Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("resolve worksheet %s: %w", worksheet, err)
	}

	for _, s := range resp.Sheets {
		if s.Properties != nil && s.Properties.Title == worksheet {
			c.mu.Lock()
			c.sheetIDs[worksheet] = s.Properties.SheetId
			c.mu.Unlock()
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("worksheet %s not found", worksheet)
}

func toValues(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
