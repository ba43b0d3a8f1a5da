package firebase

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func TestSanitizeFilenameNormal(t *testing.T) {
	result := sanitizeFilename("import-report_2024.txt")
	if result != "import-report_2024.txt" {
		t.Errorf("expected 'import-report_2024.txt', got '%s'", result)
	}
}

func TestSanitizeFilenameSpecialChars(t *testing.T) {
	result := sanitizeFilename("productos (1)/../@#$.txt")
	if strings.ContainsAny(result, " ()/@#$") {
		t.Errorf("special chars not replaced: '%s'", result)
	}
}

func TestSanitizeFilenameTooLong(t *testing.T) {
	result := sanitizeFilename(strings.Repeat("a", 200))
	if len(result) != 100 {
		t.Errorf("expected length 100, got %d", len(result))
	}
}

func TestSanitizeFilenameEmpty(t *testing.T) {
	if sanitizeFilename("") != "file" {
		t.Error("empty name should become 'file'")
	}
	if sanitizeFilename(".") != "file" {
		t.Error("single dot should become 'file'")
	}
	if sanitizeFilename("..") != "file" {
		t.Error("double dots should become 'file'")
	}
}

func TestReportObjectPath(t *testing.T) {
	id := uuid.MustParse("0b8a3f5e-2c4d-4a6b-9e8f-1a2b3c4d5e6f")

	path := reportObjectPath(id, "catalogo marzo.txt")

	expected := "import-reports/0b8a3f5e-2c4d-4a6b-9e8f-1a2b3c4d5e6f/catalogo_marzo.txt"
	if path != expected {
		t.Errorf("expected '%s', got '%s'", expected, path)
	}
}

func TestObjectURLRoundTrip(t *testing.T) {
	url := objectURL("certs-bucket", "import-reports/abc/report.txt")

	if url != "https://storage.googleapis.com/certs-bucket/import-reports/abc/report.txt" {
		t.Errorf("unexpected url '%s'", url)
	}
	path, err := objectPathFromURL(url)
	if err != nil {
		t.Fatal(err)
	}
	if path != "import-reports/abc/report.txt" {
		t.Errorf("expected object path, got '%s'", path)
	}
}

func TestObjectPathFromURLInvalidPrefix(t *testing.T) {
	if _, err := objectPathFromURL("https://example.com/certs-bucket/report.txt"); err == nil {
		t.Fatal("expected error for invalid prefix")
	}
}

func TestObjectPathFromURLNoObject(t *testing.T) {
	if _, err := objectPathFromURL("https://storage.googleapis.com/certs-bucket"); err == nil {
		t.Fatal("expected error for missing object path")
	}
	if _, err := objectPathFromURL("https://storage.googleapis.com/certs-bucket/"); err == nil {
		t.Fatal("expected error for empty object path")
	}
}

func TestNewReportStorageRequiresApp(t *testing.T) {
	App = nil

	if _, err := NewReportStorage("certs-bucket", logrus.New()); err == nil {
		t.Fatal("expected error when firebase is not initialized")
	}
}
