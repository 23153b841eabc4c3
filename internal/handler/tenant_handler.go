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

// Tenant administration. Tenants themselves are not tenant-scoped: they are
// the isolation boundary, managed by administrative operations.

// CreateTenant creates a new tenant
func CreateTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.TenantOperationCounter.WithLabelValues("create").Inc()

	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.Name == "" || req.Slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and slug are required"})
	}

	// Slug must be unique across all tenants
	var count int64
	database.GetDB().Model(&model.Tenant{}).Where("slug = ?", req.Slug).Count(&count)
	if count > 0 {
		log.Warn("Tenant slug already taken", zap.String("slug", req.Slug))
		return c.JSON(http.StatusConflict, echo.Map{"error": "tenant slug already exists"})
	}

	tenant := model.Tenant{
		Name:   req.Name,
		Slug:   req.Slug,
		Active: true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&tenant); result.Error != nil {
		log.Error("Failed to create tenant", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create tenant"})
	}

	prometheus.ActiveTenantsGauge.Inc()

	log.Info("Tenant created",
		zap.Uint("id", tenant.ID),
		zap.String("name", tenant.Name),
		zap.String("slug", tenant.Slug))
	return c.JSON(http.StatusCreated, tenant)
}

// GetTenant retrieves a tenant by ID
func GetTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.TenantOperationCounter.WithLabelValues("get").Inc()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant ID"})
	}

	var tenant model.Tenant
	if result := database.GetDB().First(&tenant, uint(id)); result.Error != nil {
		log.Warn("Tenant not found", zap.Uint64("id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	return c.JSON(http.StatusOK, tenant)
}

// ListTenants lists all tenants
func ListTenants(c echo.Context) error {
	prometheus.TenantOperationCounter.WithLabelValues("list").Inc()

	var tenants []model.Tenant
	if result := database.GetDB().Order("id").Find(&tenants); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list tenants"})
	}

	return c.JSON(http.StatusOK, tenants)
}
