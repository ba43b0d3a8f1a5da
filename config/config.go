package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultDemoClientID is the client assigned to imported products when
// IMPORT_DEMO_CLIENT_ID is not set.
const DefaultDemoClientID = "00000000-0000-4000-8000-000000000001"

// ImportConfig holds the settings of the spreadsheet import pipeline.
type ImportConfig struct {
	SpreadsheetID  string `validate:"omitempty,max=200"`
	SheetName      string `validate:"required,max=100"`
	Range          string `validate:"required,max=50"`
	APIKey         string
	DemoClientID   string `validate:"required,uuid"`
	DemoClientName string `validate:"required"`
	NotifyEmail    string `validate:"omitempty,email"`
	ReportBucket   string
}

var validate = validator.New()

func LoadEnv() error {
	// A missing .env is fine; production sets variables directly.
	if err := godotenv.Load(); err != nil {
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	warnings := map[string]string{
		"GOOGLE_SHEETS_API_KEY":   "Google Sheets imports will fail",
		"IMPORT_SPREADSHEET_ID":   "every Google Sheets import must name a spreadsheet",
		"FIREBASE_STORAGE_BUCKET": "validation reports will not be archived",
		"FRONTEND_URL":            "CORS may not work correctly",
		"SMTP_HOST":               "import summaries will not be emailed",
		"SMTP_PORT":               "import summaries will not be emailed",
		"SMTP_FROM":               "import summaries will not be emailed",
	}
	for _, key := range []string{"GOOGLE_SHEETS_API_KEY", "IMPORT_SPREADSHEET_ID", "FIREBASE_STORAGE_BUCKET", "FRONTEND_URL", "SMTP_HOST", "SMTP_PORT", "SMTP_FROM"} {
		if os.Getenv(key) == "" {
			logrus.Warnf("%s not set - %s", key, warnings[key])
		}
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadImportConfig reads the import settings from the environment.
func LoadImportConfig() (ImportConfig, error) {
	cfg := ImportConfig{
		SpreadsheetID:  strings.TrimSpace(os.Getenv("IMPORT_SPREADSHEET_ID")),
		SheetName:      GetEnv("IMPORT_SHEET_NAME", "Productos"),
		Range:          GetEnv("IMPORT_RANGE", "A1:AK"),
		APIKey:         os.Getenv("GOOGLE_SHEETS_API_KEY"),
		DemoClientID:   strings.ToLower(GetEnv("IMPORT_DEMO_CLIENT_ID", DefaultDemoClientID)),
		DemoClientName: GetEnv("IMPORT_DEMO_CLIENT_NAME", "Demo Client"),
		NotifyEmail:    os.Getenv("IMPORT_NOTIFY_EMAIL"),
		ReportBucket:   os.Getenv("FIREBASE_STORAGE_BUCKET"),
	}

	if err := validate.Struct(cfg); err != nil {
		return ImportConfig{}, fmt.Errorf("invalid import configuration: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the application logger. LOG_FORMAT=text switches to the
// human readable formatter used during development.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
