package importer

import (
	"strings"

	"certimport-backend/dtos"
)

// MapRow builds a candidate from a raw row. ok is false when the row lacks a
// name, manufacturer or product id and must be skipped.
func (s *Service) MapRow(row []string, rowNumber int) (p dtos.SpreadsheetProduct, ok bool) {
	cols := s.cfg.Columns
	p = dtos.SpreadsheetProduct{
		RowNumber:      rowNumber,
		ProductID:      cell(row, cols.ProductID),
		Name:           cell(row, cols.Name),
		Manufacturer:   cell(row, cols.Manufacturer),
		Date:           cell(row, cols.Date),
		QRCodeURL:      cell(row, cols.QRCodeURL),
		DJCURL:         cell(row, cols.DJCURL),
		CertificateURL: cell(row, cols.CertificateURL),
		ConsultantID:   cell(row, cols.ConsultantID),
		ClientID:       s.cfg.DemoClientID,
		Errors:         []string{},
	}
	if p.Name == "" || p.Manufacturer == "" || p.ProductID == "" {
		return p, false
	}
	return p, true
}

// MapRows maps the data rows below the header, numbering them from 2.
func (s *Service) MapRows(rows [][]string) []dtos.SpreadsheetProduct {
	products := make([]dtos.SpreadsheetProduct, 0, len(rows))
	for i, row := range rows {
		if p, ok := s.MapRow(row, i+2); ok {
			products = append(products, p)
		}
	}
	return products
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
