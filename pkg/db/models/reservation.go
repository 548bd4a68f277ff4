package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reservation is a held-but-not-purchased claim by a user on some amount of a
// unit. A user has at most one row per unit.
type Reservation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_reservations_user_unit"`
	User      *User     `gorm:"foreignKey:UserID"`
	UnitID    uuid.UUID `gorm:"column:unit_id;type:uuid;not null;uniqueIndex:idx_reservations_user_unit"`
	Unit      *Unit     `gorm:"foreignKey:UnitID"`
	Amount    int       `gorm:"column:amount;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Total is the reservation's price, rounded per line to two decimal places.
func (r Reservation) Total() decimal.Decimal {
	if r.Unit == nil {
		return decimal.Zero
	}
	return r.Unit.Price.Mul(decimal.NewFromInt(int64(r.Amount))).Round(2)
}
