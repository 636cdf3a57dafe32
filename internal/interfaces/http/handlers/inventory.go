// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/inventory"
)

// InventoryHandler handles inventory endpoints
type InventoryHandler struct {
	service *inventory.Service
	config  *config.Config
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service *inventory.Service, cfg *config.Config) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		config:  cfg,
	}
}

// GetStock handles GET /inventory/stock?warehouse_id=&product_id=
func (h *InventoryHandler) GetStock(c *gin.Context) {
	warehouseID, ok := parseIDQuery(c, "warehouse_id")
	if !ok {
		return
	}
	productID, ok := parseIDQuery(c, "product_id")
	if !ok {
		return
	}

	record, err := h.service.GetRecord(c.Request.Context(), warehouseID, productID)
	if err != nil {
		if errors.Is(err, inventory.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Inventory record not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve stock",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock retrieved successfully",
		"data":    record,
	})
}

// ADMIN ENDPOINTS

// AdjustStock handles POST /admin/inventory/adjust
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req inventory.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	newStock, err := h.service.Adjust(c.Request.Context(), &req)
	if err != nil {
		respondInventoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjusted successfully",
		"data": gin.H{
			"warehouse_id": req.WarehouseID,
			"product_id":   req.ProductID,
			"stock":        newStock,
		},
	})
}

// BatchAdjustRequest adjusts several product lines atomically
type BatchAdjustRequest struct {
	WarehouseID uint                   `json:"warehouse_id" binding:"required"`
	Items       []inventory.Adjustment `json:"items" binding:"required,min=1,dive"`
	Reference   string                 `json:"reference"`
}

// AdjustStockBatch handles POST /admin/inventory/adjust-batch
func (h *InventoryHandler) AdjustStockBatch(c *gin.Context) {
	var req BatchAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.service.AdjustBatch(c.Request.Context(), req.WarehouseID, req.Items, req.Reference); err != nil {
		respondInventoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock batch adjusted successfully",
	})
}

// SetStockRequest seeds the stock record for a product
type SetStockRequest struct {
	WarehouseID uint `json:"warehouse_id" binding:"required"`
	ProductID   uint `json:"product_id" binding:"required"`
	Quantity    int  `json:"quantity" binding:"gte=0"`
}

// SetInitialStock handles POST /admin/inventory/stock
func (h *InventoryHandler) SetInitialStock(c *gin.Context) {
	var req SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.service.SetInitialStock(c.Request.Context(), req.WarehouseID, req.ProductID, req.Quantity)
	if err != nil {
		respondInventoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Stock record created successfully",
		"data":    record,
	})
}

// ListInventory handles GET /admin/inventory/:warehouseId
func (h *InventoryHandler) ListInventory(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "warehouseId")
	if !ok {
		return
	}

	records, err := h.service.ListByWarehouse(c.Request.Context(), warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve inventory",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory retrieved successfully",
		"data":    records,
	})
}

// ListMovements handles GET /admin/inventory/:warehouseId/movements?product_id=&limit=
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "warehouseId")
	if !ok {
		return
	}
	productID, ok := parseIDQuery(c, "product_id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	movements, err := h.service.ListMovements(c.Request.Context(), warehouseID, productID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve stock movements",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock movements retrieved successfully",
		"data":    movements,
	})
}

// respondInventoryError maps inventory domain errors to HTTP statuses
func respondInventoryError(c *gin.Context, err error) {
	var insufficient *inventory.InsufficientStockError
	switch {
	case errors.Is(err, inventory.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Inventory record not found",
		})
	case errors.Is(err, inventory.ErrInvalidDelta):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Insufficient stock",
			"items": insufficient.Items,
		})
	case errors.Is(err, inventory.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Concurrent update conflict, retry the request",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to adjust stock",
		})
	}
}

// parseIDQuery parses a numeric query parameter, writing a 400 on failure
func parseIDQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(id), true
}
