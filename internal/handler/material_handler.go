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

// MaterialRequest defines the structure for material creation requests
type MaterialRequest struct {
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	UnitID            uint    `json:"unit_id"`
	Quantity          float64 `json:"quantity"`
	ReorderLevel      float64 `json:"reorder_level"`
	CostPerUnit       float64 `json:"cost_per_unit"`
	SupplierID        uint    `json:"supplier_id"`
	StorageLocationID uint    `json:"storage_location_id"`
}

func (r *MaterialRequest) toModel() model.Material {
	return model.Material{
		Name:              r.Name,
		SKU:               r.SKU,
		UnitID:            r.UnitID,
		Quantity:          r.Quantity,
		ReorderLevel:      r.ReorderLevel,
		CostPerUnit:       r.CostPerUnit,
		SupplierID:        r.SupplierID,
		StorageLocationID: r.StorageLocationID,
	}
}

// CreateMaterial creates a new material for the current tenant
func CreateMaterial(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.InventoryOperationCounter.WithLabelValues("material", "create").Inc()

	var req MaterialRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	material := req.toModel()

	defer prometheus.TrackDBOperation("insert")(time.Now())
	result := database.GetDB().WithContext(c.Request().Context()).Create(&material)
	if result.Error != nil {
		log.Error("Failed to create material", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create material"})
	}

	log.Info("Material created",
		zap.Uint("id", material.ID),
		zap.String("name", material.Name),
		zap.Uint("tenant_id", material.TenantID))
	return c.JSON(http.StatusCreated, material)
}

// BatchCreateMaterials creates several materials in one statement; each one
// is stamped with the current tenant individually.
func BatchCreateMaterials(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.InventoryOperationCounter.WithLabelValues("material", "batch_create").Inc()

	var reqs []MaterialRequest
	if err := c.Bind(&reqs); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if len(reqs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one material is required"})
	}

	materials := make([]model.Material, 0, len(reqs))
	for _, req := range reqs {
		if req.Name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required for every material"})
		}
		materials = append(materials, req.toModel())
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	result := database.GetDB().WithContext(c.Request().Context()).Create(&materials)
	if result.Error != nil {
		log.Error("Failed to create materials", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create materials"})
	}

	log.Info("Materials created", zap.Int("count", len(materials)))
	return c.JSON(http.StatusCreated, echo.Map{
		"materials": materials,
		"count":     len(materials),
	})
}

// ListMaterials lists the current tenant's materials
func ListMaterials(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.InventoryOperationCounter.WithLabelValues("material", "list").Inc()

	defer prometheus.TrackDBOperation("query")(time.Now())
	var materials []model.Material
	result := database.GetDB().WithContext(c.Request().Context()).Order("name").Find(&materials)
	if result.Error != nil {
		log.Error("Failed to list materials", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list materials"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"materials": materials,
		"count":     len(materials),
	})
}

// UpdateMaterial updates a material's stock attributes
func UpdateMaterial(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.InventoryOperationCounter.WithLabelValues("material", "update").Inc()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid material ID"})
	}

	var req MaterialRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	db := database.GetDB().WithContext(c.Request().Context())

	var material model.Material
	if result := db.First(&material, uint(id)); result.Error != nil {
		log.Warn("Material not found", zap.Uint64("id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "material not found"})
	}

	updates := map[string]interface{}{
		"quantity":      req.Quantity,
		"reorder_level": req.ReorderLevel,
		"cost_per_unit": req.CostPerUnit,
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := db.Model(&material).Updates(updates); result.Error != nil {
		log.Error("Failed to update material", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update material"})
	}

	return c.JSON(http.StatusOK, material)
}

// DeleteMaterial removes a material
func DeleteMaterial(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.InventoryOperationCounter.WithLabelValues("material", "delete").Inc()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid material ID"})
	}

	db := database.GetDB().WithContext(c.Request().Context())

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := db.Delete(&model.Material{}, uint(id))
	if result.Error != nil {
		log.Error("Failed to delete material", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete material"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "material not found"})
	}

	log.Info("Material deleted", zap.Uint64("id", id))
	return c.NoContent(http.StatusNoContent)
}
