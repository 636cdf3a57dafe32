// internal/interfaces/http/handlers/reservation.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/reservation"
)

// ReservationHandler handles reservation monitoring endpoints
type ReservationHandler struct {
	manager *reservation.Manager
	config  *config.Config
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(manager *reservation.Manager, cfg *config.Config) *ReservationHandler {
	return &ReservationHandler{
		manager: manager,
		config:  cfg,
	}
}

// ListReservations handles GET /admin/reservations?warehouse_id=&status=&limit=
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	var filter reservation.ListFilter

	if raw := c.Query("warehouse_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid warehouse_id parameter",
			})
			return
		}
		warehouseID := uint(id)
		filter.WarehouseID = &warehouseID
	}

	if raw := c.Query("status"); raw != "" {
		status := reservation.Status(raw)
		switch status {
		case reservation.StatusHeld, reservation.StatusCommitted,
			reservation.StatusReleased, reservation.StatusExpired:
			filter.Status = &status
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid status parameter",
			})
			return
		}
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid from parameter, expected RFC3339",
			})
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid to parameter, expected RFC3339",
			})
			return
		}
		filter.To = &to
	}

	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	reservations, err := h.manager.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve reservations",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reservations retrieved successfully",
		"data":    reservations,
	})
}

// GetReservation handles GET /admin/reservations/:id
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	res, err := h.manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, reservation.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve reservation",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reservation retrieved successfully",
		"data":    res,
	})
}
