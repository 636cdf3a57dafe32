// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/checkout"
	"github.com/your-org/grocery-backend/internal/domain/inventory"
	"github.com/your-org/grocery-backend/internal/domain/ledger"
	"github.com/your-org/grocery-backend/internal/domain/reservation"
	"github.com/your-org/grocery-backend/internal/domain/warehouse"
	"github.com/your-org/grocery-backend/internal/interfaces/http/handlers"
	"github.com/your-org/grocery-backend/internal/interfaces/http/middleware"
)

// Services bundles the wired domain services the HTTP layer exposes
type Services struct {
	Warehouse    *warehouse.Service
	Directory    warehouse.Resolver
	Inventory    *inventory.Service
	Reservations *reservation.Manager
	Ledger       *ledger.Service
	Checkout     *checkout.Service
}

// SetupRoutes registers all public and admin routes
func SetupRoutes(rg *gin.RouterGroup, svc *Services, cfg *config.Config) {
	warehouseHandler := handlers.NewWarehouseHandler(svc.Warehouse, svc.Directory, cfg)
	inventoryHandler := handlers.NewInventoryHandler(svc.Inventory, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(svc.Checkout, cfg)
	reservationHandler := handlers.NewReservationHandler(svc.Reservations, cfg)
	ledgerHandler := handlers.NewLedgerHandler(svc.Ledger, cfg)

	// Public storefront endpoints
	rg.GET("/warehouses/resolve", warehouseHandler.ResolveWarehouse)
	rg.GET("/inventory/stock", inventoryHandler.GetStock)

	checkoutRoutes := rg.Group("/checkout")
	{
		checkoutRoutes.POST("", checkoutHandler.StartCheckout)
		checkoutRoutes.POST("/payment-result", checkoutHandler.HandlePaymentResult)
	}

	rg.GET("/orders/:id", checkoutHandler.GetOrder)

	// Admin endpoints require authentication and admin privileges
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		warehouses := admin.Group("/warehouses")
		{
			warehouses.GET("", warehouseHandler.GetWarehouses)
			warehouses.POST("", warehouseHandler.CreateWarehouse)
			warehouses.GET("/:id", warehouseHandler.GetWarehouse)
			warehouses.PUT("/:id", warehouseHandler.UpdateWarehouse)
			warehouses.PUT("/:id/active", warehouseHandler.SetActive)
			warehouses.POST("/:id/pincodes", warehouseHandler.AddPincodes)
			warehouses.DELETE("/:id/pincodes/:pincode", warehouseHandler.RemovePincode)
		}

		inventoryRoutes := admin.Group("/inventory")
		{
			inventoryRoutes.POST("/adjust", inventoryHandler.AdjustStock)
			inventoryRoutes.POST("/adjust-batch", inventoryHandler.AdjustStockBatch)
			inventoryRoutes.POST("/stock", inventoryHandler.SetInitialStock)
			inventoryRoutes.GET("/:warehouseId", inventoryHandler.ListInventory)
			inventoryRoutes.GET("/:warehouseId/movements", inventoryHandler.ListMovements)
		}

		reservations := admin.Group("/reservations")
		{
			reservations.GET("", reservationHandler.ListReservations)
			reservations.GET("/:id", reservationHandler.GetReservation)
		}

		ledgerRoutes := admin.Group("/ledger")
		{
			ledgerRoutes.GET("/:warehouseId/entries", ledgerHandler.ListEntries)
			ledgerRoutes.GET("/:warehouseId/balance", ledgerHandler.GetBalance)
			ledgerRoutes.POST("/payouts", ledgerHandler.CreatePayout)
		}
	}
}
