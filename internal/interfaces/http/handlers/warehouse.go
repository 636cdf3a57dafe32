// internal/interfaces/http/handlers/warehouse.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/warehouse"
)

// WarehouseHandler handles warehouse directory endpoints
type WarehouseHandler struct {
	service  *warehouse.Service
	resolver warehouse.Resolver
	config   *config.Config
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(service *warehouse.Service, resolver warehouse.Resolver, cfg *config.Config) *WarehouseHandler {
	return &WarehouseHandler{
		service:  service,
		resolver: resolver,
		config:   cfg,
	}
}

// ResolveWarehouse handles GET /warehouses/resolve?pincode=
func (h *WarehouseHandler) ResolveWarehouse(c *gin.Context) {
	pincode := c.Query("pincode")

	w, err := h.resolver.Resolve(c.Request.Context(), pincode)
	if err != nil {
		var notServiceable *warehouse.NotServiceableError
		switch {
		case errors.Is(err, warehouse.ErrInvalidPincode):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid pincode format",
			})
		case errors.As(err, &notServiceable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Pincode not serviceable",
				"pincode": notServiceable.Pincode,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve warehouse",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouse resolved successfully",
		"data":    w,
	})
}

// ADMIN ENDPOINTS

// CreateWarehouse handles POST /admin/warehouses
func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	var req warehouse.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	w, err := h.service.CreateWarehouse(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, warehouse.ErrInvalidPincode) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create warehouse",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Warehouse created successfully",
		"data":    w,
	})
}

// GetWarehouses handles GET /admin/warehouses
func (h *WarehouseHandler) GetWarehouses(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	warehouses, err := h.service.GetWarehouses(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve warehouses",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouses retrieved successfully",
		"data":    warehouses,
	})
}

// GetWarehouse handles GET /admin/warehouses/:id
func (h *WarehouseHandler) GetWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	w, err := h.service.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, warehouse.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Warehouse not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve warehouse",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouse retrieved successfully",
		"data":    w,
	})
}

// UpdateWarehouse handles PUT /admin/warehouses/:id
func (h *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req warehouse.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	w, err := h.service.UpdateWarehouse(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, warehouse.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Warehouse not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update warehouse",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouse updated successfully",
		"data":    w,
	})
}

// AddPincodesRequest carries pincodes to attach to a warehouse
type AddPincodesRequest struct {
	Pincodes []string `json:"pincodes" binding:"required,min=1"`
}

// AddPincodes handles POST /admin/warehouses/:id/pincodes
func (h *WarehouseHandler) AddPincodes(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddPincodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.service.AddPincodes(c.Request.Context(), id, req.Pincodes); err != nil {
		switch {
		case errors.Is(err, warehouse.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Warehouse not found",
			})
		case errors.Is(err, warehouse.ErrInvalidPincode):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to add pincodes",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pincodes added successfully",
	})
}

// RemovePincode handles DELETE /admin/warehouses/:id/pincodes/:pincode
func (h *WarehouseHandler) RemovePincode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.RemovePincode(c.Request.Context(), id, c.Param("pincode")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove pincode",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pincode removed successfully",
	})
}

// SetActiveRequest toggles a warehouse in or out of rotation
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetActive handles PUT /admin/warehouses/:id/active
func (h *WarehouseHandler) SetActive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.service.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, warehouse.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Warehouse not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update warehouse status",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouse status updated successfully",
	})
}

// parseIDParam parses a numeric path parameter, writing a 400 on failure
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(id), true
}
