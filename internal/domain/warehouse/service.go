// internal/domain/warehouse/service.go
package warehouse

import (
	"context"
	"fmt"

	"github.com/your-org/grocery-backend/internal/config"
)

// Service handles warehouse administration
type Service struct {
	repo   Repository
	config *config.Config
}

// NewService creates a new warehouse service
func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
	}
}

// CreateWarehouseRequest represents warehouse creation data
type CreateWarehouseRequest struct {
	Name     string   `json:"name" binding:"required"`
	Code     string   `json:"code" binding:"required"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email"`
	Priority int      `json:"priority"`
	Pincodes []string `json:"pincodes"`
}

// UpdateWarehouseRequest represents warehouse update data
type UpdateWarehouseRequest struct {
	Name     *string `json:"name,omitempty"`
	Address  *string `json:"address,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Priority *int    `json:"priority,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CreateWarehouse creates a new warehouse with its serviceable pincodes
func (s *Service) CreateWarehouse(ctx context.Context, req *CreateWarehouseRequest) (*Warehouse, error) {
	for _, p := range req.Pincodes {
		if !IsValidPincode(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPincode, p)
		}
	}

	priority := req.Priority
	if priority == 0 {
		priority = 100
	}

	w := &Warehouse{
		Name:     req.Name,
		Code:     req.Code,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		Phone:    req.Phone,
		Email:    req.Email,
		Priority: priority,
		IsActive: true,
	}
	for _, p := range req.Pincodes {
		w.ServiceablePincodes = append(w.ServiceablePincodes, ServiceablePincode{Pincode: p})
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateWarehouse applies a partial update to a warehouse
func (s *Service) UpdateWarehouse(ctx context.Context, id uint, req *UpdateWarehouseRequest) (*Warehouse, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Address != nil {
		w.Address = *req.Address
	}
	if req.City != nil {
		w.City = *req.City
	}
	if req.State != nil {
		w.State = *req.State
	}
	if req.Phone != nil {
		w.Phone = *req.Phone
	}
	if req.Email != nil {
		w.Email = *req.Email
	}
	if req.Priority != nil {
		w.Priority = *req.Priority
	}
	if req.IsActive != nil {
		w.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// GetWarehouse retrieves a warehouse by id
func (s *Service) GetWarehouse(ctx context.Context, id uint) (*Warehouse, error) {
	return s.repo.GetByID(ctx, id)
}

// GetWarehouses retrieves warehouses, optionally only active ones
func (s *Service) GetWarehouses(ctx context.Context, activeOnly bool) ([]Warehouse, error) {
	return s.repo.List(ctx, activeOnly)
}

// AddPincodes adds serviceable pincodes to a warehouse
func (s *Service) AddPincodes(ctx context.Context, id uint, pincodes []string) error {
	if len(pincodes) == 0 {
		return fmt.Errorf("no pincodes supplied")
	}
	for _, p := range pincodes {
		if !IsValidPincode(p) {
			return fmt.Errorf("%w: %q", ErrInvalidPincode, p)
		}
	}
	return s.repo.AddPincodes(ctx, id, pincodes)
}

// RemovePincode removes a serviceable pincode from a warehouse
func (s *Service) RemovePincode(ctx context.Context, id uint, pincode string) error {
	return s.repo.RemovePincode(ctx, id, pincode)
}

// SetActive activates or deactivates a warehouse
func (s *Service) SetActive(ctx context.Context, id uint, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}
