package importer

import (
	"fmt"

	"certimport-backend/dtos"

	"github.com/sirupsen/logrus"
)

// ValidateRows maps, validates and classifies the data rows in source order,
// calling progress after each candidate. Rows are processed one at a time so
// progress and the log follow sheet order exactly.
func (s *Service) ValidateRows(rows [][]string, existing, consultants IDSet, progress ProgressFunc) *dtos.ValidationResult {
	products := s.MapRows(rows)
	result := &dtos.ValidationResult{
		Products:      products,
		ValidationLog: []string{fmt.Sprintf("Validating %d product rows (%d skipped without name, manufacturer or product id)", len(products), len(rows)-len(products))},
	}

	total := len(products)
	if total == 0 {
		notify(progress, 100, "No product rows to validate")
	}

	firstSeen := make(map[string]int, total)
	for i := range products {
		p := &products[i]

		errs := s.FieldErrors(*p, consultants)
		if prev, dup := firstSeen[p.ProductID]; dup {
			errs = append(errs, fmt.Sprintf("Row %d: product id %q duplicates row %d", p.RowNumber, p.ProductID, prev))
		} else {
			firstSeen[p.ProductID] = p.RowNumber
		}
		NormalizeDate(p)
		p.Errors = errs
		p.IsValid = len(errs) == 0
		Classify(p, existing)

		tally(result, p)
		result.ValidationLog = append(result.ValidationLog, logLines(p)...)

		s.log.WithFields(logrus.Fields{
			"row":        p.RowNumber,
			"product_id": p.ProductID,
			"errors":     len(errs),
			"exists":     p.Exists,
		}).Debug("Row validated")

		notify(progress, (i+1)*100/total, fmt.Sprintf("Validating row %d: %s", p.RowNumber, p.Name))
	}

	result.ValidationLog = append(result.ValidationLog, summaryLines(result)...)

	s.log.WithFields(logrus.Fields{
		"rows":     total,
		"valid":    result.Valid,
		"invalid":  result.Invalid,
		"existing": result.Existing,
		"new":      result.New,
	}).Info("Spreadsheet validation finished")

	return result
}

func tally(result *dtos.ValidationResult, p *dtos.SpreadsheetProduct) {
	if len(p.Errors) > 0 {
		result.Invalid++
	} else if !p.Exists {
		result.Valid++
	}
	if p.Exists {
		result.Existing++
	} else {
		result.New++
	}
}

func logLines(p *dtos.SpreadsheetProduct) []string {
	label := fmt.Sprintf("Row %d [%s] %s", p.RowNumber, p.ProductID, p.Name)
	switch {
	case len(p.Errors) > 0:
		lines := []string{fmt.Sprintf("%s: %d error(s)", label, len(p.Errors))}
		for _, e := range p.Errors {
			lines = append(lines, "  - "+e)
		}
		if p.Exists {
			lines = append(lines, "  - product already exists")
		}
		return lines
	case p.Exists:
		return []string{label + ": already exists, skipped"}
	default:
		return []string{label + ": OK, new"}
	}
}

func summaryLines(result *dtos.ValidationResult) []string {
	return []string{
		"===== SUMMARY =====",
		fmt.Sprintf("Rows validated: %d", len(result.Products)),
		fmt.Sprintf("New products: %d", result.New),
		fmt.Sprintf("Existing products: %d", result.Existing),
		fmt.Sprintf("Rows with errors: %d", result.Invalid),
		fmt.Sprintf("Ready to import: %d", result.Valid),
	}
}

func notify(progress ProgressFunc, percent int, message string) {
	if progress != nil {
		progress(percent, message)
	}
}
