package reservations

import (
	"time"

	"github.com/dkurilenko/freshmart-backend/internal/units"
	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationDTO is the transport shape of a held claim on stock. Total
// is the per-line price, rounded to two decimal places.
type ReservationDTO struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	UnitID    uuid.UUID       `json:"unit_id"`
	Unit      *units.UnitDTO  `json:"unit,omitempty"`
	Amount    int             `json:"amount"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ReserveInput requests a hold of Amount units. Reserving a unit the
// user already holds replaces the held amount rather than adding to it.
type ReserveInput struct {
	UnitID uuid.UUID `json:"unit_id" validate:"required"`
	Amount int       `json:"amount" validate:"required,gte=1"`
}

// UpdateInput replaces the held amount of an existing reservation.
type UpdateInput struct {
	Amount int `json:"amount" validate:"required,gte=1"`
}

// BuyResult reports the amount debited by a purchase.
type BuyResult struct {
	Total decimal.Decimal `json:"total"`
}

func FromModel(r *models.Reservation) *ReservationDTO {
	if r == nil {
		return nil
	}
	return &ReservationDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		UnitID:    r.UnitID,
		Unit:      units.FromModel(r.Unit),
		Amount:    r.Amount,
		Total:     r.Total(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
