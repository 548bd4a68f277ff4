package shops

import (
	"time"

	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ShopDTO is the transport shape of a storefront.
type ShopDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateShopInput holds the data required to open a shop.
type CreateShopInput struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// UpdateShopInput holds the optional shop mutations.
type UpdateShopInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=120"`
}

func FromModel(s *models.Shop) *ShopDTO {
	if s == nil {
		return nil
	}
	return &ShopDTO{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
