package importer

import (
	"errors"
	"strings"
)

var (
	ErrSourceUnavailable = errors.New("spreadsheet source unavailable")
	ErrEmptySource       = errors.New("spreadsheet has no data rows below the header")
	ErrNothingToImport   = errors.New("no valid new products to import")
	ErrDuplicateProduct  = errors.New("product id already exists")
	ErrInvalidDate       = errors.New("invalid date")
)

// StructureHints are shown next to structural errors.
var StructureHints = []string{
	"Check that the first row of the sheet is the header row",
	"Do not insert, delete or reorder columns in the template",
	"Make sure the configured sheet name and range point at the product sheet",
}

// StructureError reports required header columns that are missing or blank.
type StructureError struct {
	Messages []string
}

func (e *StructureError) Error() string {
	return "invalid spreadsheet structure: " + strings.Join(e.Messages, "; ")
}

// CommitError wraps a rejected bulk insert. Nothing from the batch was persisted.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return "import commit failed: " + e.Err.Error()
}

func (e *CommitError) Unwrap() error { return e.Err }

// Conflict reports whether the batch hit an already persisted product id.
func (e *CommitError) Conflict() bool {
	return errors.Is(e.Err, ErrDuplicateProduct)
}
