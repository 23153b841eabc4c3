package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Oscarts/backery2-app-sub002/internal/model"
	"github.com/Oscarts/backery2-app-sub002/pkg/database"
	"github.com/Oscarts/backery2-app-sub002/pkg/logger"
	"github.com/Oscarts/backery2-app-sub002/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation requests
type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	SKU         string  `json:"sku"`
	Price       float64 `json:"price"`
	CategoryID  uint    `json:"category_id"`
	IsActive    bool    `json:"is_active"`
}

// CreateProduct creates a new product for the current tenant
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.InventoryOperationCounter.WithLabelValues("product", "create").Inc()

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	db := database.GetDB().WithContext(c.Request().Context())

	// SKU is unique within the tenant; the scoping plugin narrows the check
	if req.SKU != "" {
		var count int64
		db.Model(&model.Product{}).Where("sku = ?", req.SKU).Count(&count)
		if count > 0 {
			log.Warn("Product SKU already exists for this tenant", zap.String("sku", req.SKU))
			return c.JSON(http.StatusConflict, echo.Map{"error": "product with this SKU already exists"})
		}
	}

	product := model.Product{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := db.Create(&product); result.Error != nil {
		log.Error("Failed to create product", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
	}

	log.Info("Product created",
		zap.Uint("id", product.ID),
		zap.String("name", product.Name),
		zap.Uint("tenant_id", product.TenantID))
	return c.JSON(http.StatusCreated, product)
}

// ListProducts lists the current tenant's products
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.InventoryOperationCounter.WithLabelValues("product", "list").Inc()

	db := database.GetDB().WithContext(c.Request().Context())

	query := db.Model(&model.Product{})
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var products []model.Product
	if result := query.Order("name").Find(&products); result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list products"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct retrieves a product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.InventoryOperationCounter.WithLabelValues("product", "get").Inc()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	var product model.Product
	result := database.GetDB().WithContext(c.Request().Context()).First(&product, uint(id))
	if result.Error != nil {
		log.Warn("Product not found", zap.Uint64("id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateCategory creates a product category for the current tenant
func CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.InventoryOperationCounter.WithLabelValues("category", "create").Inc()

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	category := model.ProductCategory{Name: req.Name}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	result := database.GetDB().WithContext(c.Request().Context()).Create(&category)
	if result.Error != nil {
		log.Error("Failed to create category", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create category"})
	}

	return c.JSON(http.StatusCreated, category)
}

// ListCategories lists the current tenant's product categories
func ListCategories(c echo.Context) error {
	prometheus.InventoryOperationCounter.WithLabelValues("category", "list").Inc()

	var categories []model.ProductCategory
	result := database.GetDB().WithContext(c.Request().Context()).Order("name").Find(&categories)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list categories"})
	}

	return c.JSON(http.StatusOK, categories)
}
