package importer

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ColumnMap locates each logical field in the source grid by zero-based column index.
type ColumnMap struct {
	Name           int
	Manufacturer   int
	ProductID      int
	Date           int
	QRCodeURL      int
	DJCURL         int
	CertificateURL int
	ConsultantID   int
}

// DefaultColumnMap is the layout of the certification product template (A, B, C, Y, AG, AH, AI, AK).
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		Name:           0,
		Manufacturer:   1,
		ProductID:      2,
		Date:           24,
		QRCodeURL:      32,
		DJCURL:         33,
		CertificateURL: 34,
		ConsultantID:   36,
	}
}

type column struct {
	label string
	index int
}

// required lists the header positions checked before any row is processed.
func (m ColumnMap) required() []column {
	return []column{
		{"NOMBRE", m.Name},
		{"FABRICANTE", m.Manufacturer},
		{"PRODUCTO_ID", m.ProductID},
		{"FECHA", m.Date},
	}
}

func (m ColumnMap) all() []column {
	return append(m.required(),
		column{"QR_CODE_URL", m.QRCodeURL},
		column{"DJC_URL", m.DJCURL},
		column{"CERTIFICADO_URL", m.CertificateURL},
		column{"CONSULTOR_ID", m.ConsultantID},
	)
}

// Width is the number of columns a row needs to cover every mapped field.
func (m ColumnMap) Width() int {
	width := 0
	for _, c := range m.all() {
		if c.index+1 > width {
			width = c.index + 1
		}
	}
	return width
}

// HeaderLabels returns a header row with the mapped labels at their positions
// and blanks for columns the importer ignores.
func (m ColumnMap) HeaderLabels() []string {
	labels := make([]string, m.Width())
	for _, c := range m.all() {
		labels[c.index] = c.label
	}
	return labels
}

// ColumnLetter converts a zero-based index into a spreadsheet column name (0 -> A, 24 -> Y).
func ColumnLetter(index int) string {
	name, err := excelize.ColumnNumberToName(index + 1)
	if err != nil {
		return strconv.Itoa(index + 1)
	}
	return name
}
