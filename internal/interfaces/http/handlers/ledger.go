// internal/interfaces/http/handlers/ledger.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/ledger"
	"github.com/your-org/grocery-backend/internal/domain/warehouse"
)

// LedgerHandler handles financial ledger endpoints
type LedgerHandler struct {
	service *ledger.Service
	config  *config.Config
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(service *ledger.Service, cfg *config.Config) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		config:  cfg,
	}
}

// ListEntries handles GET /admin/ledger/:warehouseId/entries?from=&to=&limit=
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "warehouseId")
	if !ok {
		return
	}

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid from parameter, expected RFC3339",
			})
			return
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid to parameter, expected RFC3339",
			})
			return
		}
		to = &t
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.service.ListEntries(c.Request.Context(), warehouseID, from, to, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve ledger entries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ledger entries retrieved successfully",
		"data":    entries,
	})
}

// GetBalance handles GET /admin/ledger/:warehouseId/balance
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "warehouseId")
	if !ok {
		return
	}

	balance, err := h.service.CurrentBalance(c.Request.Context(), warehouseID)
	if err != nil {
		if errors.Is(err, warehouse.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Warehouse not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve balance",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Balance retrieved successfully",
		"data": gin.H{
			"warehouse_id": warehouseID,
			"balance":      balance,
		},
	})
}

// PayoutRequest debits a warehouse balance for settlement to the operator
type PayoutRequest struct {
	WarehouseID uint   `json:"warehouse_id" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	ReferenceID string `json:"reference_id" binding:"required"`
}

// CreatePayout handles POST /admin/ledger/payouts
func (h *LedgerHandler) CreatePayout(c *gin.Context) {
	var req PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.service.RecordPayout(c.Request.Context(), req.WarehouseID, req.Amount, req.ReferenceID)
	if err != nil {
		var duplicate *ledger.DuplicateReferenceError
		var insufficient *ledger.InsufficientBalanceError
		switch {
		case errors.Is(err, warehouse.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Warehouse not found",
			})
		case errors.As(err, &duplicate):
			c.JSON(http.StatusConflict, gin.H{
				"error":        "Duplicate payout reference",
				"reference_id": duplicate.ReferenceID,
			})
		case errors.As(err, &insufficient):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":     "Insufficient warehouse balance",
				"requested": insufficient.Requested,
				"available": insufficient.Available,
			})
		case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidReference):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to record payout",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payout recorded successfully",
		"data":    entry,
	})
}
