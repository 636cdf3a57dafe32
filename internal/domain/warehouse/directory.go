// internal/domain/warehouse/directory.go
package warehouse

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/grocery-backend/internal/config"
)

// Resolver resolves a delivery pincode to the warehouse that fulfills it.
// Directory implements the exact-pincode-list strategy; alternative
// strategies (geo radius) only need to satisfy this interface.
type Resolver interface {
	Resolve(ctx context.Context, pincode string) (*Warehouse, error)
}

// Directory resolves pincodes against the serviceable pincode lists of
// active warehouses. Resolution is a pure function of the pincode: ties are
// broken by (priority, id), so the same pincode always routes to the same
// warehouse.
type Directory struct {
	repo  Repository
	cache *redis.Client
}

// NewDirectory creates a pincode directory. cache may be nil, in which case
// every resolution hits the database.
func NewDirectory(repo Repository, cache *redis.Client) *Directory {
	return &Directory{
		repo:  repo,
		cache: cache,
	}
}

// Resolve returns the active warehouse serving the pincode, or
// *NotServiceableError when no warehouse covers it.
func (d *Directory) Resolve(ctx context.Context, pincode string) (*Warehouse, error) {
	if !IsValidPincode(pincode) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPincode, pincode)
	}

	if w := d.cachedWarehouse(ctx, pincode); w != nil {
		return w, nil
	}

	candidates, err := d.repo.ListActiveByPincode(ctx, pincode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve warehouse: %w", err)
	}
	if len(candidates) == 0 {
		return nil, &NotServiceableError{Pincode: pincode}
	}

	// Repository ordering guarantees candidates[0] is the deterministic winner
	selected := candidates[0]
	d.cacheWarehouse(ctx, pincode, selected.ID)
	return &selected, nil
}

func (d *Directory) cachedWarehouse(ctx context.Context, pincode string) *Warehouse {
	if d.cache == nil {
		return nil
	}
	val, err := d.cache.Get(ctx, directoryCacheKey(pincode)).Result()
	if err != nil {
		return nil
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return nil
	}
	w, err := d.repo.GetByID(ctx, uint(id))
	if err != nil || !w.IsActive || !w.Serves(pincode) {
		// Stale entry; fall back to a full lookup
		d.cache.Del(ctx, directoryCacheKey(pincode))
		return nil
	}
	return w
}

func (d *Directory) cacheWarehouse(ctx context.Context, pincode string, warehouseID uint) {
	if d.cache == nil {
		return
	}
	// Best effort; a cache failure must not fail resolution
	d.cache.Set(ctx, directoryCacheKey(pincode), strconv.FormatUint(uint64(warehouseID), 10), config.DirectoryCacheTTL)
}

func directoryCacheKey(pincode string) string {
	return fmt.Sprintf("warehouse_directory:pincode:%s", pincode)
}
