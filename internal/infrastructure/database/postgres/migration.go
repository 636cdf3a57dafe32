// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/grocery-backend/internal/domain/inventory"
	"github.com/your-org/grocery-backend/internal/domain/ledger"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/reservation"
	"github.com/your-org/grocery-backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		// Warehouse domain - base tables
		&warehouse.Warehouse{},
		&warehouse.ServiceablePincode{},

		// Inventory domain
		&inventory.InventoryRecord{},
		&inventory.StockMovement{},

		// Reservation domain
		&reservation.Reservation{},
		&reservation.ReservationItem{},

		// Order domain - dependent tables
		&order.Order{},
		&order.OrderItem{},

		// Financial ledger
		&ledger.LedgerEntry{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Warehouse indexes
		"CREATE INDEX IF NOT EXISTS idx_warehouses_active_priority ON warehouses(is_active, priority)",
		"CREATE INDEX IF NOT EXISTS idx_warehouse_pincodes_pincode ON warehouse_pincodes(pincode)",

		// Inventory indexes
		"CREATE INDEX IF NOT EXISTS idx_warehouse_inventory_product ON warehouse_inventory(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_warehouse_product ON stock_movements(warehouse_id, product_id)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_reference ON stock_movements(reference)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_created_at ON stock_movements(created_at DESC)",

		// Reservation indexes
		"CREATE INDEX IF NOT EXISTS idx_reservations_status_expires ON inventory_reservations(status, expires_at)",
		"CREATE INDEX IF NOT EXISTS idx_reservations_warehouse_created ON inventory_reservations(warehouse_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reservation_items_reservation ON inventory_reservation_items(reservation_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_warehouse_status ON orders(warehouse_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",

		// Ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_ledger_entries_warehouse_created ON ledger_entries(warehouse_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_ledger_entries_category ON ledger_entries(category)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedWarehouses(); err != nil {
		return fmt.Errorf("failed to seed warehouses: %w", err)
	}

	if err := m.seedInventory(); err != nil {
		return fmt.Errorf("failed to seed inventory: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedWarehouses creates development warehouses with serviceable pincodes
func (m *Migration) seedWarehouses() error {
	log.Println("🏬 Seeding warehouses...")

	warehouses := []warehouse.Warehouse{
		{
			Name:     "Bengaluru Central Fulfilment",
			Code:     "BLR-CENTRAL",
			Address:  "12 Industrial Layout, Koramangala",
			City:     "Bengaluru",
			State:    "Karnataka",
			Phone:    "+918041234567",
			Email:    "blr-central@example.com",
			IsActive: true,
			Priority: 10,
			ServiceablePincodes: []warehouse.ServiceablePincode{
				{Pincode: "560034"},
				{Pincode: "560095"},
				{Pincode: "560102"},
			},
		},
		{
			Name:     "Bengaluru North Fulfilment",
			Code:     "BLR-NORTH",
			Address:  "4 Service Road, Hebbal",
			City:     "Bengaluru",
			State:    "Karnataka",
			Phone:    "+918041234568",
			Email:    "blr-north@example.com",
			IsActive: true,
			Priority: 20,
			ServiceablePincodes: []warehouse.ServiceablePincode{
				{Pincode: "560024"},
				{Pincode: "560092"},
				{Pincode: "560102"},
			},
		},
		{
			Name:     "Mumbai Andheri Fulfilment",
			Code:     "BOM-ANDHERI",
			Address:  "Plot 7, MIDC, Andheri East",
			City:     "Mumbai",
			State:    "Maharashtra",
			Phone:    "+912261234567",
			Email:    "bom-andheri@example.com",
			IsActive: true,
			Priority: 10,
			ServiceablePincodes: []warehouse.ServiceablePincode{
				{Pincode: "400053"},
				{Pincode: "400069"},
				{Pincode: "400093"},
			},
		},
	}

	for _, w := range warehouses {
		var existing warehouse.Warehouse
		result := m.db.Where("code = ?", w.Code).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&w).Error; err != nil {
				return err
			}
			log.Printf("✅ Created warehouse: %s", w.Name)
		} else {
			log.Printf("⏭️ Warehouse already exists: %s", w.Name)
		}
	}

	return nil
}

// seedInventory stocks the seeded warehouses with a few product lines
func (m *Migration) seedInventory() error {
	log.Println("📦 Seeding inventory...")

	var warehouses []warehouse.Warehouse
	if err := m.db.Find(&warehouses).Error; err != nil {
		return err
	}
	if len(warehouses) == 0 {
		log.Println("⚠️ No warehouses found, skipping inventory seed")
		return nil
	}

	// Development product ids with starting stock
	seedStock := map[uint]int{
		1001: 50,
		1002: 120,
		1003: 30,
		1004: 200,
	}

	for _, w := range warehouses {
		for productID, stock := range seedStock {
			var existing inventory.InventoryRecord
			result := m.db.Where("warehouse_id = ? AND product_id = ?", w.ID, productID).First(&existing)
			if result.Error == nil {
				continue
			}
			record := inventory.InventoryRecord{
				WarehouseID: w.ID,
				ProductID:   productID,
				Stock:       stock,
				Version:     1,
			}
			if err := m.db.Create(&record).Error; err != nil {
				log.Printf("⚠️ Failed to seed stock for warehouse %d product %d: %v", w.ID, productID, err)
			}
		}
	}

	log.Println("✅ Inventory seeded")
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Reverse dependency order
	tables := []string{
		"ledger_entries",
		"order_items",
		"orders",
		"inventory_reservation_items",
		"inventory_reservations",
		"stock_movements",
		"warehouse_inventory",
		"warehouse_pincodes",
		"warehouses",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-30s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}
