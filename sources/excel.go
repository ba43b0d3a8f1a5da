package sources

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"certimport-backend/importer"

	"github.com/xuri/excelize/v2"
)

// ExcelSource reads the rows of one worksheet of an .xlsx workbook.
type ExcelSource struct {
	r     io.Reader
	sheet string
}

// NewExcelSource reads sheet from r, or the first sheet when sheet is empty.
func NewExcelSource(r io.Reader, sheet string) *ExcelSource {
	return &ExcelSource{r: r, sheet: sheet}
}

func (s *ExcelSource) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(s.r)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open workbook: %v", importer.ErrSourceUnavailable, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", importer.ErrSourceUnavailable)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read rows from sheet %s: %v", importer.ErrSourceUnavailable, sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read rows from sheet %s: %v", importer.ErrSourceUnavailable, sheet, err)
	}
	if err := isoDateCells(f, sheet, rows, raw); err != nil {
		return nil, fmt.Errorf("%w: read dates from sheet %s: %v", importer.ErrSourceUnavailable, sheet, err)
	}
	return rows, nil
}

// Built-in number formats that render a date (14-22 minus the pure time
// ones, plus the East Asian date formats).
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// Bracketed sections ([Red], [$-409]) and quoted literals carry no date tokens.
var numFmtLiterals = regexp.MustCompile(`\[[^\]]*\]|"[^"]*"`)

func isDateStyle(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		code := strings.ToLower(numFmtLiterals.ReplaceAllString(*style.CustomNumFmt, ""))
		return strings.ContainsAny(code, "yd")
	}
	return builtInDateFormats[style.NumFmt]
}

// isoDateCells rewrites date-formatted numeric cells in rows to YYYY-MM-DD.
// The displayed text of a date cell follows the workbook's locale format
// (03-15-24 for format 14), which the importer cannot read unambiguously.
func isoDateCells(f *excelize.File, sheet string, rows, raw [][]string) error {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return err
	}
	date1904 := props.Date1904 != nil && *props.Date1904

	dateStyles := make(map[int]bool)
	for i := range rows {
		if i >= len(raw) {
			break
		}
		for j := range rows[i] {
			if j >= len(raw[i]) || raw[i][j] == rows[i][j] {
				continue
			}
			serial, err := strconv.ParseFloat(raw[i][j], 64)
			if err != nil {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			styleID, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return err
			}
			isDate, seen := dateStyles[styleID]
			if !seen {
				style, err := f.GetStyle(styleID)
				if err != nil {
					return err
				}
				isDate = isDateStyle(style)
				dateStyles[styleID] = isDate
			}
			if !isDate {
				continue
			}

			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			rows[i][j] = t.Format("2006-01-02")
		}
	}
	return nil
}

// Template builds an empty import workbook whose header row places every
// mapped column at the position the importer reads it from.
func Template(cols importer.ColumnMap) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Productos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	labels := cols.HeaderLabels()
	header := make([]interface{}, len(labels))
	for i, label := range labels {
		header[i] = label
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	last, _ := excelize.CoordinatesToCellName(len(labels), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	lastCol := importer.ColumnLetter(len(labels) - 1)
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
