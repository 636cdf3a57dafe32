// internal/domain/reservation/memory.go
package reservation

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used in tests and local tooling
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]*Reservation
}

// NewMemoryRepository creates an empty in-memory reservation repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]*Reservation),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, res *Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneReservation(res)
	r.items[res.ID] = clone
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneReservation(res), nil
}

func (r *MemoryRepository) TransitionFromHeld(ctx context.Context, id string, to Status, orderID *uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.items[id]
	if !ok || res.Status != StatusHeld {
		return false, nil
	}
	res.Status = to
	if orderID != nil {
		v := *orderID
		res.OrderID = &v
	}
	res.UpdatedAt = time.Now()
	return true, nil
}

func (r *MemoryRepository) ListExpiredHeld(ctx context.Context, now time.Time, limit int) ([]Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	var out []Reservation
	for _, res := range r.items {
		if res.Status == StatusHeld && now.After(res.ExpiresAt) {
			out = append(out, *cloneReservation(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) List(ctx context.Context, filter ListFilter) ([]Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Reservation
	for _, res := range r.items {
		if filter.WarehouseID != nil && res.WarehouseID != *filter.WarehouseID {
			continue
		}
		if filter.Status != nil && res.Status != *filter.Status {
			continue
		}
		if filter.From != nil && res.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !res.CreatedAt.Before(*filter.To) {
			continue
		}
		out = append(out, *cloneReservation(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneReservation(res *Reservation) *Reservation {
	clone := *res
	clone.Items = make([]ReservationItem, len(res.Items))
	copy(clone.Items, res.Items)
	if res.OrderID != nil {
		v := *res.OrderID
		clone.OrderID = &v
	}
	return &clone
}
