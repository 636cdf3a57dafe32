// internal/domain/order/memory.go
package order

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used in tests and local tooling
type MemoryRepository struct {
	mu            sync.Mutex
	nextID        uint
	items         map[uint]*Order
	byReservation map[string]uint
}

// NewMemoryRepository creates an empty in-memory order repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:        1,
		items:         make(map[uint]*Order),
		byReservation: make(map[string]uint),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	o.OrderNumber = GenerateOrderNumber(o.ID, o.CreatedAt)
	clone := cloneOrder(o)
	r.items[o.ID] = clone
	r.byReservation[o.ReservationID] = o.ID
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uint) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *MemoryRepository) GetByReservationID(ctx context.Context, reservationID string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byReservation[reservationID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOrder(r.items[id]), nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id uint, status OrderStatus, paymentStatus PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	o.PaymentStatus = paymentStatus
	o.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepository) ListByWarehouse(ctx context.Context, warehouseID uint, limit int) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	var out []Order
	for _, o := range r.items {
		if o.WarehouseID == warehouseID {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneOrder(o *Order) *Order {
	clone := *o
	clone.Items = make([]OrderItem, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}
