package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"certimport-backend/importer"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheetsConfig locates a range of a Google spreadsheet.
type GoogleSheetsConfig struct {
	SpreadsheetID string
	SheetName     string
	Range         string // A1 notation without the sheet, e.g. A1:AK
	APIKey        string
}

// WithOverrides returns a copy of c with the non-empty arguments applied.
func (c GoogleSheetsConfig) WithOverrides(spreadsheetID, sheetName, rng string) GoogleSheetsConfig {
	if spreadsheetID != "" {
		c.SpreadsheetID = spreadsheetID
	}
	if sheetName != "" {
		c.SheetName = sheetName
	}
	if rng != "" {
		c.Range = rng
	}
	return c
}

// A1Range joins sheet name and range, quoting the sheet name when needed.
func (c GoogleSheetsConfig) A1Range() string {
	if c.SheetName == "" {
		return c.Range
	}
	name := c.SheetName
	if strings.ContainsAny(name, " '!") {
		name = "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	if c.Range == "" {
		return name
	}
	return name + "!" + c.Range
}

// GoogleSheetsSource reads a range through the Sheets API v4 values endpoint.
type GoogleSheetsSource struct {
	svc *sheets.Service
	cfg GoogleSheetsConfig
}

// NewGoogleSheetsSource builds a reader authenticated with cfg.APIKey. Extra
// client options are applied after the key.
func NewGoogleSheetsSource(ctx context.Context, cfg GoogleSheetsConfig, opts ...option.ClientOption) (*GoogleSheetsSource, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is not configured")
	}

	var clientOpts []option.ClientOption
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("error creating Google Sheets service: %w", err)
	}
	return &GoogleSheetsSource{svc: svc, cfg: cfg}, nil
}

func (s *GoogleSheetsSource) Rows(ctx context.Context) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, s.cfg.A1Range()).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: Google Sheets returned %d: %s", importer.ErrSourceUnavailable, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: %v", importer.ErrSourceUnavailable, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, values := range resp.Values {
		row := make([]string, len(values))
		for j, v := range values {
			if v != nil {
				row[j] = fmt.Sprint(v)
			}
		}
		rows[i] = row
	}
	return rows, nil
}
