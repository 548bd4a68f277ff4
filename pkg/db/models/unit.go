package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit is a sellable item type with a stock count, weight, and price.
// Amount is the stock still available for reservation; it stays >= 0.
type Unit struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ShopID    uuid.UUID       `gorm:"column:shop_id;type:uuid;not null;index"`
	Shop      *Shop           `gorm:"foreignKey:ShopID"`
	Name      string          `gorm:"column:name;type:citext;not null"`
	Weight    decimal.Decimal `gorm:"column:weight;type:numeric(8,2);not null;default:1"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(16,2);not null;default:1"`
	Amount    int             `gorm:"column:amount;not null;default:1"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PriceForKg normalizes the price to a one-weight-unit basis, rounded to two
// decimal places.
func (u Unit) PriceForKg() decimal.Decimal {
	if u.Weight.IsZero() {
		return decimal.Zero
	}
	return u.Price.Div(u.Weight).Round(2)
}
