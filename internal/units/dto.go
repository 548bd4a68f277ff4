package units

import (
	"time"

	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitDTO is the transport shape of a sellable unit. PriceForKg is
// computed, not stored.
type UnitDTO struct {
	ID         uuid.UUID       `json:"id"`
	ShopID     uuid.UUID       `json:"shop_id"`
	ShopName   string          `json:"shop_name,omitempty"`
	Name       string          `json:"name"`
	Weight     decimal.Decimal `json:"weight"`
	Price      decimal.Decimal `json:"price"`
	Amount     int             `json:"amount"`
	PriceForKg decimal.Decimal `json:"price_for_kg"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateUnitInput holds the data required to list a unit for sale.
type CreateUnitInput struct {
	ShopID uuid.UUID       `json:"shop_id" validate:"required"`
	Name   string          `json:"name" validate:"required,min=1,max=120"`
	Weight decimal.Decimal `json:"weight" validate:"required"`
	Price  decimal.Decimal `json:"price" validate:"required"`
	Amount int             `json:"amount" validate:"gte=0"`
}

// UpdateUnitInput holds the optional unit mutations.
type UpdateUnitInput struct {
	Name   *string          `json:"name" validate:"omitempty,min=1,max=120"`
	Weight *decimal.Decimal `json:"weight"`
	Price  *decimal.Decimal `json:"price"`
	Amount *int             `json:"amount" validate:"omitempty,gte=0"`
}

func FromModel(u *models.Unit) *UnitDTO {
	if u == nil {
		return nil
	}
	dto := &UnitDTO{
		ID:         u.ID,
		ShopID:     u.ShopID,
		Name:       u.Name,
		Weight:     u.Weight,
		Price:      u.Price,
		Amount:     u.Amount,
		PriceForKg: u.PriceForKg(),
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.Shop != nil {
		dto.ShopName = u.Shop.Name
	}
	return dto
}
