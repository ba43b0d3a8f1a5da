package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AllowedSpreadsheetContentTypes is the set of content types accepted for workbook uploads.
var AllowedSpreadsheetContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/octet-stream": true,
}

// MaxUploadSize is the maximum allowed workbook size (10MB).
const MaxUploadSize = 10 << 20

// ValidateSpreadsheetUpload checks that the uploaded file is an .xlsx workbook
// and does not exceed the maximum file size.
func ValidateSpreadsheetUpload(fh *multipart.FileHeader) error {
	if fh.Size > MaxUploadSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of 10MB", fh.Size)
	}

	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".xlsx" {
		return fmt.Errorf("invalid file extension '%s'; only .xlsx workbooks are accepted", ext)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType != "" && !AllowedSpreadsheetContentTypes[contentType] {
		return fmt.Errorf("invalid file type '%s'; expected an .xlsx workbook", contentType)
	}

	return nil
}

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "uuid", "uuid4":
			messages = append(messages, fmt.Sprintf("%s must be a valid UUID", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}
