// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/checkout"
	"github.com/your-org/grocery-backend/internal/domain/inventory"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/reservation"
	"github.com/your-org/grocery-backend/internal/domain/warehouse"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(service *checkout.Service, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: service,
		config:          cfg,
	}
}

// StartCheckout handles POST /checkout
func (h *CheckoutHandler) StartCheckout(c *gin.Context) {
	var req checkout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.checkoutService.StartCheckout(c.Request.Context(), &req)
	if err != nil {
		var notServiceable *warehouse.NotServiceableError
		var insufficient *inventory.InsufficientStockError
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
		case errors.As(err, &insufficient):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Insufficient stock",
				"items": insufficient.Items,
			})
		case errors.Is(err, reservation.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to start checkout",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout started successfully",
		"data":    session,
	})
}

// HandlePaymentResult handles POST /checkout/payment-result
func (h *CheckoutHandler) HandlePaymentResult(c *gin.Context) {
	var req checkout.PaymentResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ord, err := h.checkoutService.HandlePaymentResult(c.Request.Context(), &req)
	if err != nil {
		var invalidState *reservation.InvalidStateError
		switch {
		case errors.Is(err, order.ErrNotFound), errors.Is(err, reservation.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Checkout session not found",
			})
		case errors.Is(err, reservation.ErrExpired):
			c.JSON(http.StatusGone, gin.H{
				"error": "Reservation expired before payment completed",
			})
		case errors.As(err, &invalidState):
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Reservation already finalized",
				"status": invalidState.Status,
			})
		case errors.Is(err, checkout.ErrUnknownOutcome):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to process payment result",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment result processed successfully",
		"data":    ord,
	})
}

// GetOrder handles GET /orders/:id
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ord, err := h.checkoutService.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    ord,
	})
}
