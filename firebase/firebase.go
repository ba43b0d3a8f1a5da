package firebase

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	firebase "firebase.google.com/go"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var App *firebase.App

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(filename, "_")

	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}

	return sanitized
}

// credentialOptions reads GOOGLE_APPLICATION_CREDENTIALS, which holds either
// inline JSON or a path to a service account file.
func credentialOptions(log *logrus.Logger) []option.ClientOption {
	credJSON := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credJSON == "" {
		log.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
		return nil
	}
	if strings.HasPrefix(credJSON, "{") {
		log.Info("Using Firebase credentials from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credJSON))}
	}
	log.WithField("path", credJSON).Info("Using Firebase credentials from file")
	return []option.ClientOption{option.WithCredentialsFile(credJSON)}
}

// Init connects the Firebase app used to archive validation reports.
func Init(ctx context.Context, bucketName string, log *logrus.Logger) error {
	if bucketName == "" {
		return fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, credentialOptions(log)...)
	if err != nil {
		return fmt.Errorf("firebase init failed: %w", err)
	}

	App = app
	log.WithField("bucket", bucketName).Info("Firebase initialized successfully")
	return nil
}
