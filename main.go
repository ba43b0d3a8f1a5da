package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"certimport-backend/config"
	"certimport-backend/database"
	"certimport-backend/dtos"
	"certimport-backend/firebase"
	"certimport-backend/handlers"
	"certimport-backend/importer"
	"certimport-backend/routes"
	"certimport-backend/sources"
	"certimport-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		logrus.Fatalf("Error loading .env file: %v", err)
	}

	log := config.NewLogger()

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		log.Fatalf("Environment validation failed: %v", err)
	}

	importCfg, err := config.LoadImportConfig()
	if err != nil {
		log.Fatalf("Import configuration invalid: %v", err)
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Imported rows reference the demo client, so it must exist
	if err := database.CreateDemoClient(db, importCfg.DemoClientID, importCfg.DemoClientName); err != nil {
		log.Warnf("Could not create demo client: %v", err)
	}

	// Report archiving is optional
	var reports firebase.ReportStorage
	if importCfg.ReportBucket != "" {
		if err := firebase.Init(context.Background(), importCfg.ReportBucket, log); err != nil {
			log.Warnf("Report archiving disabled: %v", err)
		} else if storage, err := firebase.NewReportStorage(importCfg.ReportBucket, log); err != nil {
			log.Warnf("Report archiving disabled: %v", err)
		} else {
			reports = storage
		}
	}

	sheetsCfg := sources.GoogleSheetsConfig{
		SpreadsheetID: importCfg.SpreadsheetID,
		SheetName:     importCfg.SheetName,
		Range:         importCfg.Range,
		APIKey:        importCfg.APIKey,
	}

	sessions := utils.NewSessionStore()

	importHandler := &handlers.ImportHandler{
		Service: importer.NewService(importer.Config{
			Columns:      importer.DefaultColumnMap(),
			DemoClientID: importCfg.DemoClientID,
		}, log),
		Store:    database.NewProductStore(db),
		Sessions: sessions,
		NewSource: func(req dtos.StartImportRequest) (importer.Source, error) {
			cfg := sheetsCfg.WithOverrides(req.SpreadsheetID, req.SheetName, req.Range)
			if cfg.SpreadsheetID == "" {
				return nil, errors.New("spreadsheet_id is required: no default spreadsheet is configured")
			}
			src, err := sources.NewGoogleSheetsSource(context.Background(), cfg)
			if err != nil {
				return nil, err
			}
			return src, nil
		},
		Reports:     reports,
		NotifyEmail: importCfg.NotifyEmail,
		Log:         log,
	}

	// Settled sessions are kept for an hour after their last change
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			sessions.CleanupOldSessions()
		}
	}()

	// Setup Gin router
	r := gin.Default()

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = utils.MaxUploadSize

	// CORS configuration - filter out empty strings from AllowOrigins
	origins := []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")}
	var filteredOrigins []string
	for _, o := range origins {
		if o != "" {
			filteredOrigins = append(filteredOrigins, o)
		}
	}
	if len(filteredOrigins) == 0 {
		filteredOrigins = []string{"http://localhost:3000"}
		log.Warn("No CORS origins configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     filteredOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, db, importHandler)

	// Start server with graceful shutdown
	port := config.GetEnv("PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.WithField("port", port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		} else {
			log.Info("Database connection closed")
		}
	}

	log.Info("Server exited gracefully")
}
