package importer

import (
	"context"
	"fmt"
	"time"

	"certimport-backend/dtos"
	"certimport-backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Importable returns the rows that passed validation and are not yet stored.
func Importable(products []dtos.SpreadsheetProduct) []dtos.SpreadsheetProduct {
	var out []dtos.SpreadsheetProduct
	for _, p := range products {
		if p.IsValid && p.IsNew {
			out = append(out, p)
		}
	}
	return out
}

// Commit inserts the valid new rows of result in a single batch.
func (s *Service) Commit(ctx context.Context, result *dtos.ValidationResult, store Inserter) (*dtos.ImportResult, error) {
	if result == nil {
		return nil, ErrNothingToImport
	}
	candidates := Importable(result.Products)
	if len(candidates) == 0 {
		return nil, ErrNothingToImport
	}

	rows := make([]models.Product, 0, len(candidates))
	for _, p := range candidates {
		row, err := ToModel(p)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", p.RowNumber, err)
		}
		rows = append(rows, row)
	}

	if err := store.BulkInsertProducts(ctx, rows); err != nil {
		s.log.WithError(err).WithField("rows", len(rows)).Error("Bulk product insert rejected")
		return nil, &CommitError{Err: err}
	}

	s.log.WithFields(logrus.Fields{
		"inserted": len(rows),
		"invalid":  result.Invalid,
	}).Info("Spreadsheet import committed")

	return &dtos.ImportResult{Success: len(rows), Failed: result.Invalid}, nil
}

// ToModel maps a validated row to its insert record with a fresh public id.
// Absent optional fields become NULL.
func ToModel(p dtos.SpreadsheetProduct) (models.Product, error) {
	date, err := time.Parse(isoLayout, p.Date)
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: %q", ErrInvalidDate, p.Date)
	}
	clientID, err := uuid.Parse(p.ClientID)
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid client id %q: %w", p.ClientID, err)
	}

	row := models.Product{
		ID:             uuid.New(),
		PublicID:       uuid.NewString(),
		ProductCode:    p.ProductID,
		Name:           p.Name,
		Manufacturer:   p.Manufacturer,
		Date:           date,
		QRCodeURL:      nullable(p.QRCodeURL),
		DJCURL:         nullable(p.DJCURL),
		CertificateURL: nullable(p.CertificateURL),
		ClientID:       clientID,
	}
	if p.ConsultantID != "" {
		consultantID, err := uuid.Parse(p.ConsultantID)
		if err != nil {
			return models.Product{}, fmt.Errorf("invalid consultant id %q: %w", p.ConsultantID, err)
		}
		row.ConsultantID = &consultantID
	}
	return row, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
