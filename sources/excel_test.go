package sources

import (
	"bytes"
	"context"
	"testing"
	"time"

	"certimport-backend/importer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestExcelSourceFirstSheet(t *testing.T) {
	buf := workbook(t, "Productos", [][]interface{}{
		{"NOMBRE", "FABRICANTE", "PRODUCTO_ID"},
		{"Breaker X", "ACME", "PID-001"},
	})

	rows, err := NewExcelSource(buf, "").Rows(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Breaker X", "ACME", "PID-001"}, rows[1])
}

func TestExcelSourceMissingSheet(t *testing.T) {
	buf := workbook(t, "Productos", [][]interface{}{{"NOMBRE"}})

	_, err := NewExcelSource(buf, "Clientes").Rows(context.Background())

	assert.ErrorIs(t, err, importer.ErrSourceUnavailable)
}

func TestExcelSourceNotAWorkbook(t *testing.T) {
	_, err := NewExcelSource(bytes.NewBufferString("NOMBRE,FABRICANTE\n"), "").Rows(context.Background())

	assert.ErrorIs(t, err, importer.ErrSourceUnavailable)
}

func TestExcelSourceCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExcelSource(bytes.NewBuffer(nil), "").Rows(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestTemplateHeaderMatchesColumnMap(t *testing.T) {
	cols := importer.DefaultColumnMap()
	f, err := Template(cols)
	require.NoError(t, err)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	f.Close()

	rows, err := NewExcelSource(buf, "Productos").Rows(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	svc := importer.NewService(importer.Config{Columns: cols}, nil)
	assert.Empty(t, svc.ValidateStructure(rows[0]))
	assert.Equal(t, "PRODUCTO_ID", rows[0][2])
	assert.Equal(t, "FECHA", rows[0][24])
}

type emptyLookups struct{}

func (emptyLookups) ExistingProductIDs(ctx context.Context) ([]string, error)  { return nil, nil }
func (emptyLookups) ActiveConsultantIDs(ctx context.Context) ([]string, error) { return nil, nil }

// productWorkbook writes the template header and one product row whose date
// cell is filled by setDate.
func productWorkbook(t *testing.T, setDate func(f *excelize.File, sheet string)) *bytes.Buffer {
	t.Helper()
	cols := importer.DefaultColumnMap()
	f, err := Template(cols)
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Productos"
	require.NoError(t, f.SetCellValue(sheet, "A2", "Breaker X"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "ACME"))
	require.NoError(t, f.SetCellValue(sheet, "C2", 1001))
	setDate(f, sheet)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestExcelSourceDateCellIsISO(t *testing.T) {
	buf := productWorkbook(t, func(f *excelize.File, sheet string) {
		require.NoError(t, f.SetCellValue(sheet, "Y2", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	})

	rows, err := NewExcelSource(buf, "").Rows(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-15", rows[1][24])
	assert.Equal(t, "1001", rows[1][2], "numeric cells without a date format keep their text")
}

func TestExcelSourceCustomDateFormat(t *testing.T) {
	buf := productWorkbook(t, func(f *excelize.File, sheet string) {
		format := "dd/mm/yyyy"
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, "Y2", 45366))
		require.NoError(t, f.SetCellStyle(sheet, "Y2", "Y2", style))
	})

	rows, err := NewExcelSource(buf, "").Rows(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", rows[1][24])
}

func TestExcelSourceTextDateUnchanged(t *testing.T) {
	buf := productWorkbook(t, func(f *excelize.File, sheet string) {
		require.NoError(t, f.SetCellValue(sheet, "Y2", "15/03/2024"))
	})

	rows, err := NewExcelSource(buf, "").Rows(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "15/03/2024", rows[1][24])
}

func TestExcelDateCellPassesValidation(t *testing.T) {
	buf := productWorkbook(t, func(f *excelize.File, sheet string) {
		require.NoError(t, f.SetCellValue(sheet, "Y2", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	})
	svc := importer.NewService(importer.Config{
		Columns:      importer.DefaultColumnMap(),
		DemoClientID: "00000000-0000-4000-8000-000000000001",
	}, nil)

	result, err := svc.Run(context.Background(), NewExcelSource(buf, ""), emptyLookups{}, nil)

	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Empty(t, result.Products[0].Errors)
	assert.Equal(t, 1, result.Valid)
	assert.Equal(t, "2024-03-15", result.Products[0].Date)
}

func TestIsDateStyle(t *testing.T) {
	custom := func(code string) *excelize.Style { return &excelize.Style{CustomNumFmt: &code} }

	assert.True(t, isDateStyle(&excelize.Style{NumFmt: 14}))
	assert.True(t, isDateStyle(&excelize.Style{NumFmt: 22}))
	assert.False(t, isDateStyle(&excelize.Style{NumFmt: 0}))
	assert.False(t, isDateStyle(&excelize.Style{NumFmt: 20}), "time only")
	assert.True(t, isDateStyle(custom("yyyy-mm-dd")))
	assert.False(t, isDateStyle(custom("#,##0.00;[Red]-#,##0.00")))
	assert.False(t, isDateStyle(custom(`0 "days"`)))
}
