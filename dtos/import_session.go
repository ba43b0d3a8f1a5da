package dtos

import (
	"time"

	"github.com/google/uuid"
)

// ImportSession tracks one import attempt from validation to commit or discard.
type ImportSession struct {
	ID              uuid.UUID         `json:"id"`
	Source          string            `json:"source"`   // google_sheets, xlsx_upload
	Status          string            `json:"status"`   // see SessionStatus constants
	Progress        int               `json:"progress"` // 0-100 percentage
	Message         string            `json:"message"`
	Error           string            `json:"error,omitempty"`
	StructureErrors []string          `json:"structure_errors,omitempty"`
	Hints           []string          `json:"hints,omitempty"`
	Result          *ValidationResult `json:"result,omitempty"`
	Import          *ImportResult     `json:"import,omitempty"`
	ReportURL       string            `json:"report_url,omitempty"`
	CreatedBy       string            `json:"created_by,omitempty"`
	StartedAt       time.Time         `json:"started_at"`
	CompletedAt     *time.Time        `json:"completed_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// SessionStatus constants
const (
	SessionStatusPending    = "pending"
	SessionStatusValidating = "validating"
	SessionStatusValidated  = "validated"
	SessionStatusFailed     = "failed"
	SessionStatusCommitting = "committing"
	SessionStatusCommitted  = "committed"
	SessionStatusDiscarded  = "discarded"
)

// Import source constants
const (
	SourceGoogleSheets = "google_sheets"
	SourceXLSXUpload   = "xlsx_upload"
)

// Terminal reports whether the session will not change state without user action.
func (s ImportSession) Terminal() bool {
	switch s.Status {
	case SessionStatusValidated, SessionStatusFailed, SessionStatusCommitted, SessionStatusDiscarded:
		return true
	}
	return false
}
