package importer

import (
	"fmt"
	"strings"
	"time"

	"certimport-backend/dtos"
)

// BuildReport renders a plain-text validation report for download.
func BuildReport(result *dtos.ValidationResult, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("PRODUCT IMPORT VALIDATION REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format("2006-01-02 15:04:05"))

	if result == nil {
		b.WriteString("No validation result available.\n")
		return b.String()
	}

	if len(result.StructureErrors) > 0 {
		b.WriteString("STRUCTURE ERRORS\n")
		for _, msg := range result.StructureErrors {
			fmt.Fprintf(&b, "  * %s\n", msg)
		}
		b.WriteString("\nSuggestions:\n")
		for _, hint := range StructureHints {
			fmt.Fprintf(&b, "  - %s\n", hint)
		}
		return b.String()
	}

	b.WriteString("TOTALS\n")
	fmt.Fprintf(&b, "  Rows:             %d\n", len(result.Products))
	fmt.Fprintf(&b, "  Ready to import:  %d\n", result.Valid)
	fmt.Fprintf(&b, "  With errors:      %d\n", result.Invalid)
	fmt.Fprintf(&b, "  Already existing: %d\n", result.Existing)
	fmt.Fprintf(&b, "  New:              %d\n\n", result.New)

	b.WriteString("ROWS\n")
	for _, p := range result.Products {
		fmt.Fprintf(&b, "  Row %d | %s | %s | %s | %s\n", p.RowNumber, p.ProductID, p.Name, p.Manufacturer, rowStatus(p))
		for _, e := range p.Errors {
			fmt.Fprintf(&b, "      - %s\n", e)
		}
	}

	b.WriteString("\nLOG\n")
	for _, line := range result.ValidationLog {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func rowStatus(p dtos.SpreadsheetProduct) string {
	switch {
	case len(p.Errors) > 0:
		return "INVALID"
	case p.Exists:
		return "EXISTS"
	default:
		return "OK"
	}
}
