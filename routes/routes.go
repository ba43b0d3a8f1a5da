package routes

import (
	"time"

	"certimport-backend/handlers"
	"certimport-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, importHandler *handlers.ImportHandler) {
	productHandler := &handlers.ProductHandler{DB: db}

	// Per-user limit on starting validation runs
	importLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")

	// Import and catalogue routes (admin or certifier)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleCertifier))
	{
		imports := admin.Group("/imports")
		imports.POST("", importLimiter.Middleware(), importHandler.StartImport)
		imports.POST("/upload", importLimiter.Middleware(), importHandler.UploadImport)
		imports.GET("/template", importHandler.DownloadTemplate)
		imports.GET("/:id", importHandler.GetSession)
		imports.GET("/:id/events", importHandler.StreamProgress)
		imports.GET("/:id/report", importHandler.DownloadReport)
		imports.POST("/:id/commit", importHandler.CommitImport)
		imports.DELETE("/:id", importHandler.DiscardImport)

		admin.GET("/products", productHandler.GetProducts)
		admin.GET("/products/:code", productHandler.GetProduct)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
