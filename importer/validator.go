package importer

import (
	"fmt"
	"net/url"
	"strings"

	"certimport-backend/dtos"

	"github.com/google/uuid"
)

// FieldErrors runs every field check on p and returns all failures in column
// order. It does not modify p; date canonicalization is applied separately by
// NormalizeDate.
func (s *Service) FieldErrors(p dtos.SpreadsheetProduct, consultants IDSet) []string {
	cols := s.cfg.Columns
	row := p.RowNumber
	errs := []string{}

	required := []struct {
		field string
		value string
		index int
	}{
		{"product id", p.ProductID, cols.ProductID},
		{"name", p.Name, cols.Name},
		{"manufacturer", p.Manufacturer, cols.Manufacturer},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Sprintf("Row %d: %s is required (column %s)", row, r.field, ColumnLetter(r.index)))
		}
	}

	if p.Date == "" {
		errs = append(errs, fmt.Sprintf("Row %d: date is required (column %s)", row, ColumnLetter(cols.Date)))
	} else if _, err := ParseDate(p.Date); err != nil {
		errs = append(errs, fmt.Sprintf("Row %d: invalid date %q in column %s, expected YYYY-MM-DD or DD/MM/YYYY",
			row, p.Date, ColumnLetter(cols.Date)))
	}

	if p.ConsultantID != "" {
		id, ok := parseUUIDv4(p.ConsultantID)
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("Row %d: consultant id %q in column %s is not a valid UUID",
				row, p.ConsultantID, ColumnLetter(cols.ConsultantID)))
		case !consultants.Has(id):
			errs = append(errs, fmt.Sprintf("Row %d: consultant %s in column %s does not exist or is not active",
				row, p.ConsultantID, ColumnLetter(cols.ConsultantID)))
		}
	}

	links := []struct {
		field string
		value string
		index int
	}{
		{"QR code URL", p.QRCodeURL, cols.QRCodeURL},
		{"DJC URL", p.DJCURL, cols.DJCURL},
		{"certificate URL", p.CertificateURL, cols.CertificateURL},
	}
	for _, l := range links {
		if l.value != "" && !isHTTPURL(l.value) {
			errs = append(errs, fmt.Sprintf("Row %d: %s %q in column %s is not a valid http(s) URL",
				row, l.field, l.value, ColumnLetter(l.index)))
		}
	}

	return errs
}

// NormalizeDate rewrites p.Date to YYYY-MM-DD when it parses. Unparseable
// dates are left untouched so the report shows the original value.
func NormalizeDate(p *dtos.SpreadsheetProduct) {
	if p.Date == "" {
		return
	}
	if canonical, err := ParseDate(p.Date); err == nil {
		p.Date = canonical
	}
}

// parseUUIDv4 accepts only the 36 character hyphenated form of a version 4 UUID
// and returns it lowercased.
func parseUUIDv4(raw string) (string, bool) {
	if len(raw) != 36 {
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id.Version() != 4 || id.Variant() != uuid.RFC4122 {
		return "", false
	}
	return id.String(), true
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
