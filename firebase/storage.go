package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	storageURLPrefix = "https://storage.googleapis.com/"
	reportPrefix     = "import-reports"
)

// ReportStorage archives validation reports outside the process.
type ReportStorage interface {
	UploadReport(ctx context.Context, sessionID uuid.UUID, filename string, report []byte) (string, error)
	DeleteReport(ctx context.Context, reportURL string) error
}

// FirebaseReportStorage keeps reports in the app's Cloud Storage bucket.
type FirebaseReportStorage struct {
	bucketName string
	log        *logrus.Logger
}

func NewReportStorage(bucketName string, log *logrus.Logger) (*FirebaseReportStorage, error) {
	if App == nil {
		return nil, fmt.Errorf("firebase app not initialized")
	}
	if bucketName == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}
	return &FirebaseReportStorage{bucketName: bucketName, log: log}, nil
}

func (f *FirebaseReportStorage) bucket(ctx context.Context) (*storage.BucketHandle, error) {
	client, err := App.Storage(ctx)
	if err != nil {
		return nil, err
	}
	return client.Bucket(f.bucketName)
}

// UploadReport writes the report and returns its storage URL. Objects stay
// private; the URL only resolves for authorized callers.
func (f *FirebaseReportStorage) UploadReport(ctx context.Context, sessionID uuid.UUID, filename string, report []byte) (string, error) {
	bucket, err := f.bucket(ctx)
	if err != nil {
		return "", err
	}

	objectPath := reportObjectPath(sessionID, filename)
	wc := bucket.Object(objectPath).NewWriter(ctx)
	wc.ContentType = "text/plain; charset=utf-8"
	wc.ContentDisposition = fmt.Sprintf(`attachment; filename="%s"`, sanitizeFilename(filename))

	if _, err := wc.Write(report); err != nil {
		wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	f.log.WithField("session_id", sessionID).Infof("Archived validation report %s", objectPath)
	return objectURL(f.bucketName, objectPath), nil
}

// DeleteReport removes an archived report. A missing object is not an error.
func (f *FirebaseReportStorage) DeleteReport(ctx context.Context, reportURL string) error {
	objectPath, err := objectPathFromURL(reportURL)
	if err != nil {
		return err
	}

	bucket, err := f.bucket(ctx)
	if err != nil {
		return err
	}

	if err := bucket.Object(objectPath).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", objectPath, err)
	}

	f.log.Infof("Deleted report %s from bucket %s", objectPath, f.bucketName)
	return nil
}

func reportObjectPath(sessionID uuid.UUID, filename string) string {
	return fmt.Sprintf("%s/%s/%s", reportPrefix, sessionID, sanitizeFilename(filename))
}

func objectURL(bucketName, objectPath string) string {
	return storageURLPrefix + bucketName + "/" + objectPath
}

// objectPathFromURL strips the host and bucket from a storage URL.
func objectPathFromURL(url string) (string, error) {
	if !strings.HasPrefix(url, storageURLPrefix) {
		return "", fmt.Errorf("invalid URL")
	}

	parts := strings.SplitN(strings.TrimPrefix(url, storageURLPrefix), "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("invalid URL format")
	}

	return parts[1], nil
}
