package reservations

import (
	"context"

	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	"github.com/dkurilenko/freshmart-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for reservations.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a reservations repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new reservation row.
func (r *Repository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// UpdateAmount persists a new amount for an existing reservation.
func (r *Repository) UpdateAmount(ctx context.Context, id uuid.UUID, amount int) error {
	return r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		UpdateColumn("amount", amount).Error
}

// FindByID loads a reservation with its unit by UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Unit").
		Preload("Unit.Shop").
		First(&reservation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindByUserAndUnit loads the user's reservation against the given unit.
func (r *Repository) FindByUserAndUnit(ctx context.Context, userID, unitID uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).
		First(&reservation, "user_id = ? AND unit_id = ?", userID, unitID).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListByUser returns all of the user's reservations with their units.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Unit").
		Preload("Unit.Shop").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Delete removes a single reservation row. Stock restoration is the
// caller's responsibility.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Reservation{}, "id = ?", id).Error
}

// DeleteAllByUser bulk-deletes every reservation owned by the user. No
// per-row stock restoration happens here: buy relies on that, clear
// restores stock explicitly before calling this.
func (r *Repository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Reservation{}, "user_id = ?", userID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SearchFilter narrows admin reservation searches.
type SearchFilter struct {
	UserID *uuid.UUID
	UnitID *uuid.UUID
	ShopID *uuid.UUID
	pagination.Params
}

// Search returns a page of reservations matching the filter plus the
// total count. Used by the admin surface.
func (r *Repository) Search(ctx context.Context, filter SearchFilter) ([]models.Reservation, int64, error) {
	filter.Params = pagination.Normalize(filter.Params)

	query := r.db.WithContext(ctx).Model(&models.Reservation{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.UnitID != nil {
		query = query.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.ShopID != nil {
		query = query.Where("unit_id IN (?)",
			r.db.Model(&models.Unit{}).Select("id").Where("shop_id = ?", *filter.ShopID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reservations []models.Reservation
	if err := query.
		Preload("Unit").
		Preload("Unit.Shop").
		Order("created_at ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&reservations).Error; err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}
