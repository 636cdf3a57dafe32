// internal/domain/warehouse/memory.go
package warehouse

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-memory Repository used in tests and local tooling
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID uint
	items  map[uint]*Warehouse
}

// NewMemoryRepository creates an empty in-memory warehouse repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		items:  make(map[uint]*Warehouse),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, w *Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == 0 {
		w.ID = r.nextID
		r.nextID++
	} else if w.ID >= r.nextID {
		r.nextID = w.ID + 1
	}
	for i := range w.ServiceablePincodes {
		w.ServiceablePincodes[i].WarehouseID = w.ID
	}
	clone := *w
	r.items[w.ID] = &clone
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, w *Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[w.ID]; !ok {
		return ErrNotFound
	}
	clone := *w
	r.items[w.ID] = &clone
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uint) (*Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *w
	return &clone, nil
}

func (r *MemoryRepository) List(ctx context.Context, activeOnly bool) ([]Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Warehouse
	for _, w := range r.items {
		if activeOnly && !w.IsActive {
			continue
		}
		out = append(out, *w)
	}
	sortWarehouses(out)
	return out, nil
}

func (r *MemoryRepository) ListActiveByPincode(ctx context.Context, pincode string) ([]Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Warehouse
	for _, w := range r.items {
		if w.IsActive && w.Serves(pincode) {
			out = append(out, *w)
		}
	}
	sortWarehouses(out)
	return out, nil
}

func (r *MemoryRepository) AddPincodes(ctx context.Context, warehouseID uint, pincodes []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.items[warehouseID]
	if !ok {
		return ErrNotFound
	}
	for _, p := range pincodes {
		if !w.Serves(p) {
			w.ServiceablePincodes = append(w.ServiceablePincodes, ServiceablePincode{
				WarehouseID: warehouseID,
				Pincode:     p,
			})
		}
	}
	return nil
}

func (r *MemoryRepository) RemovePincode(ctx context.Context, warehouseID uint, pincode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.items[warehouseID]
	if !ok {
		return ErrNotFound
	}
	kept := w.ServiceablePincodes[:0]
	for _, p := range w.ServiceablePincodes {
		if p.Pincode != pincode {
			kept = append(kept, p)
		}
	}
	w.ServiceablePincodes = kept
	return nil
}

func (r *MemoryRepository) SetActive(ctx context.Context, id uint, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	w.IsActive = active
	return nil
}

func sortWarehouses(ws []Warehouse) {
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].Priority != ws[j].Priority {
			return ws[i].Priority < ws[j].Priority
		}
		return ws[i].ID < ws[j].ID
	})
}
