package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"certimport-backend/dtos"
	"certimport-backend/firebase"
	"certimport-backend/importer"
	"certimport-backend/sources"
	"certimport-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultRunTimeout   = 10 * time.Minute
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ImportStore is the persistence the import pipeline reads from and writes to.
type ImportStore interface {
	importer.Lookups
	importer.Inserter
}

// SourceFactory opens the Google Sheets source for a start request.
type SourceFactory func(req dtos.StartImportRequest) (importer.Source, error)

type ImportHandler struct {
	Service      *importer.Service
	Store        ImportStore
	Sessions     *utils.SessionStore
	NewSource    SourceFactory
	Reports      firebase.ReportStorage // optional
	NotifyEmail  string
	Log          *logrus.Logger
	PollInterval time.Duration
	RunTimeout   time.Duration
}

func (h *ImportHandler) pollInterval() time.Duration {
	if h.PollInterval > 0 {
		return h.PollInterval
	}
	return defaultPollInterval
}

func (h *ImportHandler) runTimeout() time.Duration {
	if h.RunTimeout > 0 {
		return h.RunTimeout
	}
	return defaultRunTimeout
}

func (h *ImportHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return uuid.Nil, false
	}
	return id, true
}

// StartImport validates the configured Google Sheet in the background.
func (h *ImportHandler) StartImport(c *gin.Context) {
	var req dtos.StartImportRequest
	// The body is optional; an empty one keeps the configured spreadsheet.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	src, err := h.NewSource(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.start(c, dtos.SourceGoogleSheets, src)
}

// UploadImport validates an uploaded .xlsx workbook in the background.
func (h *ImportHandler) UploadImport(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A workbook must be uploaded in the 'file' field"})
		return
	}
	if err := utils.ValidateSpreadsheetUpload(fh); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()

	// The multipart temp file goes away with the request, so keep the bytes.
	data, err := io.ReadAll(io.LimitReader(f, utils.MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	h.start(c, dtos.SourceXLSXUpload, sources.NewExcelSource(bytes.NewReader(data), c.PostForm("sheet_name")))
}

func (h *ImportHandler) start(c *gin.Context, source string, src importer.Source) {
	session := h.Sessions.CreateSession(source, c.GetString("user_email"))

	go h.runValidation(session.ID, src)

	c.JSON(http.StatusAccepted, gin.H{
		"session_id": session.ID.String(),
		"status":     session.Status,
	})
}

// runValidation runs the pipeline detached from the request that started it.
func (h *ImportHandler) runValidation(id uuid.UUID, src importer.Source) {
	ctx, cancel := context.WithTimeout(context.Background(), h.runTimeout())
	defer cancel()

	log := h.Log.WithField("session_id", id)
	h.Sessions.SetValidating(id)

	result, err := h.Service.Run(ctx, src, h.Store, func(percent int, message string) {
		h.Sessions.UpdateProgress(id, percent, message)
	})
	if err != nil {
		var structErr *importer.StructureError
		if errors.As(err, &structErr) {
			h.archiveReport(ctx, id, &dtos.ValidationResult{StructureErrors: structErr.Messages})
			h.Sessions.FailSession(id, "The spreadsheet structure is not valid", structErr.Messages, importer.StructureHints)
		} else {
			h.Sessions.FailSession(id, err.Error(), nil, nil)
		}
		log.WithError(err).Warn("Import validation failed")
		return
	}

	h.archiveReport(ctx, id, result)
	h.Sessions.CompleteValidation(id, result)
	log.WithFields(logrus.Fields{
		"rows":     len(result.Products),
		"new":      result.New,
		"existing": result.Existing,
		"invalid":  result.Invalid,
	}).Info("Import validation finished")
}

func (h *ImportHandler) archiveReport(ctx context.Context, id uuid.UUID, result *dtos.ValidationResult) {
	if h.Reports == nil {
		return
	}
	report := importer.BuildReport(result, time.Now())
	url, err := h.Reports.UploadReport(ctx, id, reportFilename(id), []byte(report))
	if err != nil {
		h.Log.WithField("session_id", id).WithError(err).Warn("Failed to archive validation report")
		return
	}
	h.Sessions.SetReportURL(id, url)
}

func reportFilename(id uuid.UUID) string {
	return fmt.Sprintf("import-report-%s.txt", id)
}

// GetSession returns a snapshot of an import session.
func (h *ImportHandler) GetSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, exists := h.Sessions.GetSession(id)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, session)
}

func progressEvent(s dtos.ImportSession) gin.H {
	return gin.H{
		"session_id": s.ID.String(),
		"status":     s.Status,
		"progress":   s.Progress,
		"message":    s.Message,
	}
}

// StreamProgress pushes progress server-sent events until the session settles.
func (h *ImportHandler) StreamProgress(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	if _, exists := h.Sessions.GetSession(id); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ticker := time.NewTicker(h.pollInterval())
	defer ticker.Stop()

	var last dtos.ImportSession
	first := true
	for {
		session, exists := h.Sessions.GetSession(id)
		if !exists {
			c.SSEvent("error", gin.H{"error": "Session not found"})
			c.Writer.Flush()
			return
		}

		if first || session.Progress != last.Progress || session.Status != last.Status || session.Message != last.Message {
			c.SSEvent("progress", progressEvent(session))
			first = false
			last = session
		}
		if session.Terminal() {
			c.SSEvent("done", progressEvent(session))
			c.Writer.Flush()
			return
		}
		c.Writer.Flush()

		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// DownloadReport returns the plain-text validation report.
func (h *ImportHandler) DownloadReport(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, exists := h.Sessions.GetSession(id)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	result := session.Result
	if result == nil && len(session.StructureErrors) > 0 {
		result = &dtos.ValidationResult{StructureErrors: session.StructureErrors}
	}
	if result == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Validation has not finished", "status": session.Status})
		return
	}

	report := importer.BuildReport(result, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, reportFilename(id)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}

// CommitImport inserts the valid new rows of a validated session.
func (h *ImportHandler) CommitImport(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.Sessions.BeginCommit(id)
	if err != nil {
		if errors.Is(err, utils.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Session is not ready to import", "status": session.Status})
		return
	}

	log := h.Log.WithField("session_id", id)
	// A client disconnect must not abort a running transaction halfway.
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.Service.Commit(ctx, session.Result, h.Store)
	if err != nil {
		h.Sessions.AbortCommit(id, err.Error())
		log.WithError(err).Warn("Import commit failed")

		var commitErr *importer.CommitError
		switch {
		case errors.Is(err, importer.ErrNothingToImport):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "There are no valid new products to import"})
		case errors.As(err, &commitErr) && commitErr.Conflict():
			c.JSON(http.StatusConflict, gin.H{"error": "Some products were imported by someone else in the meantime; validate the spreadsheet again"})
		case errors.As(err, &commitErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": "The database rejected the import; nothing was saved"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import products"})
		}
		return
	}

	h.Sessions.FinishCommit(id, result)
	log.WithFields(logrus.Fields{"success": result.Success, "failed": result.Failed}).Info("Import committed")

	if committed, exists := h.Sessions.GetSession(id); exists {
		utils.SendImportSummary(h.NotifyEmail, committed)
	}

	c.JSON(http.StatusOK, result)
}

// DiscardImport drops a session and its archived report.
func (h *ImportHandler) DiscardImport(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.Sessions.Discard(id)
	if err != nil {
		if errors.Is(err, utils.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Session cannot be discarded now", "status": session.Status})
		return
	}

	if h.Reports != nil && session.ReportURL != "" {
		if err := h.Reports.DeleteReport(c.Request.Context(), session.ReportURL); err != nil {
			h.Log.WithField("session_id", id).WithError(err).Warn("Failed to delete archived report")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Import discarded", "session_id": id.String()})
}

// DownloadTemplate returns an empty workbook with the expected header row.
func (h *ImportHandler) DownloadTemplate(c *gin.Context) {
	f, err := sources.Template(h.Service.Config().Columns)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build template"})
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build template"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="plantilla-productos.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
