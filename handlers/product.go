package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"certimport-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxPageSize = 100

// ProductHandler exposes the certified products already persisted.
type ProductHandler struct {
	DB *gorm.DB
}

// GetProducts lists products newest first with optional search and client filter.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = 20
	}
	offset := (page - 1) * limit

	var products []models.Product
	var total int64

	query := h.DB.Model(&models.Product{})

	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	// Search by name, manufacturer or product id
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(manufacturer) LIKE LOWER(?) OR LOWER(product_code) LIKE LOWER(?)", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetProduct looks a product up by its spreadsheet product id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	var product models.Product

	err := h.DB.Where("product_code = ?", c.Param("code")).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, product)
}
