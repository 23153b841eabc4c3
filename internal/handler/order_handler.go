package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Oscarts/backery2-app-sub002/internal/model"
	"github.com/Oscarts/backery2-app-sub002/pkg/database"
	"github.com/Oscarts/backery2-app-sub002/pkg/logger"
	"github.com/Oscarts/backery2-app-sub002/prometheus"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Customer order handlers. None of them mention the tenant: every query and
// create below is scoped by the plugin from the request context.

// CreateOrder creates a new draft order for the current tenant
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.OrderOperationCounter.WithLabelValues("create").Inc()

	var req struct {
		CustomerID  uint       `json:"customer_id"`
		TotalAmount float64    `json:"total_amount"`
		Notes       string     `json:"notes"`
		DueDate     *time.Time `json:"due_date"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.CustomerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id is required"})
	}

	db := database.GetDB().WithContext(c.Request().Context())

	// The customer must exist within the current tenant
	var customer model.Customer
	if result := db.First(&customer, req.CustomerID); result.Error != nil {
		log.Warn("Customer not found", zap.Uint("customer_id", req.CustomerID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}

	order := model.CustomerOrder{
		OrderNumber: "ORD-" + strings.ToUpper(uuid.New().String()[:8]),
		CustomerID:  req.CustomerID,
		Status:      model.OrderStatusDraft,
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
		DueDate:     req.DueDate,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := db.Create(&order); result.Error != nil {
		log.Error("Failed to create order", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}

	log.Info("Order created",
		zap.Uint("id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Uint("tenant_id", order.TenantID))
	return c.JSON(http.StatusCreated, order)
}

// ListOrders lists the current tenant's orders
func ListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.OrderOperationCounter.WithLabelValues("list").Inc()

	db := database.GetDB().WithContext(c.Request().Context())

	query := db.Model(&model.CustomerOrder{})
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var orders []model.CustomerOrder
	if result := query.Order("created_at DESC").Find(&orders); result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder retrieves an order by ID
func GetOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.OrderOperationCounter.WithLabelValues("get").Inc()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	var order model.CustomerOrder
	result := database.GetDB().WithContext(c.Request().Context()).First(&order, uint(id))
	if result.Error != nil {
		log.Warn("Order not found", zap.Uint64("id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	return c.JSON(http.StatusOK, order)
}

// validTransitions encodes the order workflow: draft -> confirmed -> fulfilled
var validTransitions = map[string]string{
	model.OrderStatusDraft:     model.OrderStatusConfirmed,
	model.OrderStatusConfirmed: model.OrderStatusFulfilled,
}

// UpdateOrderStatus advances an order through the workflow
func UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.OrderOperationCounter.WithLabelValues("status").Inc()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	db := database.GetDB().WithContext(c.Request().Context())

	var order model.CustomerOrder
	if result := db.First(&order, uint(id)); result.Error != nil {
		log.Warn("Order not found", zap.Uint64("id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	if validTransitions[order.Status] != req.Status {
		log.Warn("Invalid status transition",
			zap.String("from", order.Status),
			zap.String("to", req.Status))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": fmt.Sprintf("cannot transition order from %q to %q", order.Status, req.Status),
		})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := db.Model(&order).Update("status", req.Status); result.Error != nil {
		log.Error("Failed to update order status", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order"})
	}

	log.Info("Order status updated",
		zap.Uint("id", order.ID),
		zap.String("status", req.Status))
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder removes a draft order
func DeleteOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.OrderOperationCounter.WithLabelValues("delete").Inc()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	db := database.GetDB().WithContext(c.Request().Context())

	var order model.CustomerOrder
	if result := db.First(&order, uint(id)); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	if order.Status != model.OrderStatusDraft {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "only draft orders can be deleted"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := db.Delete(&order); result.Error != nil {
		log.Error("Failed to delete order", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete order"})
	}

	log.Info("Order deleted", zap.Uint("id", order.ID))
	return c.NoContent(http.StatusNoContent)
}
