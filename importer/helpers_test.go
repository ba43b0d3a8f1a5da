package importer

import (
	"context"
	"io"

	"certimport-backend/dtos"
	"certimport-backend/models"

	"github.com/sirupsen/logrus"
)

const testClientID = "3f2b8c1e-7a4d-4e9b-8c2a-1d5e6f7a8b9c"

func newTestService() *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(Config{Columns: DefaultColumnMap(), DemoClientID: testClientID}, logger)
}

func header() []string {
	h := DefaultColumnMap().HeaderLabels()
	return h
}

// dataRow builds a row wide enough for every mapped column.
func dataRow(name, manufacturer, productID, date string) []string {
	row := make([]string, DefaultColumnMap().Width())
	row[0] = name
	row[1] = manufacturer
	row[2] = productID
	row[24] = date
	return row
}

func withCell(row []string, index int, value string) []string {
	row[index] = value
	return row
}

type fakeSource struct {
	rows [][]string
	err  error
}

func (f *fakeSource) Rows(ctx context.Context) ([][]string, error) {
	return f.rows, f.err
}

type fakeLookups struct {
	products    []string
	consultants []string
	err         error
	calls       int
}

func (f *fakeLookups) ExistingProductIDs(ctx context.Context) ([]string, error) {
	f.calls++
	return f.products, f.err
}

func (f *fakeLookups) ActiveConsultantIDs(ctx context.Context) ([]string, error) {
	f.calls++
	return f.consultants, f.err
}

type fakeInserter struct {
	inserted []models.Product
	err      error
	calls    int
}

func (f *fakeInserter) BulkInsertProducts(ctx context.Context, products []models.Product) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, products...)
	return nil
}

type progressCall struct {
	percent int
	message string
}

func recordProgress(calls *[]progressCall) ProgressFunc {
	return func(percent int, message string) {
		*calls = append(*calls, progressCall{percent, message})
	}
}

func product(id string, valid, exists bool) dtos.SpreadsheetProduct {
	p := dtos.SpreadsheetProduct{
		RowNumber:    2,
		ProductID:    id,
		Name:         "Product " + id,
		Manufacturer: "ACME",
		Date:         "2024-03-15",
		ClientID:     testClientID,
		IsValid:      valid,
		Exists:       exists,
		IsNew:        !exists,
		Errors:       []string{},
	}
	if !valid {
		p.Errors = []string{"Row 2: broken"}
	}
	return p
}
