package shopapi

import "context"

type Supplier struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Active      bool   `json:"active"`
}

type SupplierService struct {
	*Resource[Supplier]
}

func (s *SupplierService) Active(ctx context.Context) ([]Supplier, error) {
	return s.listAt(ctx, "/active")
}
