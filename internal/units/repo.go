package units

import (
	"context"
	"strings"

	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	"github.com/dkurilenko/freshmart-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository manages persistence for units and their stock counters.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a units repository bound to the provided database.
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

// Create inserts a new unit row.
func (r *Repository) Create(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

// FindByID loads a unit with its shop by UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	var unit models.Unit
	if err := r.db.WithContext(ctx).Preload("Shop").First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// Update persists the mutable unit fields.
func (r *Repository) Update(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// Delete removes a unit and returns whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Unit{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TakeStock atomically subtracts qty from the unit's stock only when the
// stock covers it. The conditional update is what keeps stock from going
// negative under concurrent reservations: the check and the write are a
// single statement, so no row lock is needed. It reports whether the
// stock was taken.
func (r *Repository) TakeStock(ctx context.Context, unitID uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Unit{}).
		Where("id = ? AND amount >= ?", unitID, qty).
		UpdateColumn("amount", gorm.Expr("amount - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReturnStock adds qty back to the unit's stock.
func (r *Repository) ReturnStock(ctx context.Context, unitID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Unit{}).
		Where("id = ?", unitID).
		UpdateColumn("amount", gorm.Expr("amount + ?", qty)).Error
}

// GetAmount reads the unit's current stock.
func (r *Repository) GetAmount(ctx context.Context, unitID uuid.UUID) (int, error) {
	var unit models.Unit
	if err := r.db.WithContext(ctx).
		Select("amount").
		First(&unit, "id = ?", unitID).Error; err != nil {
		return 0, err
	}
	return unit.Amount, nil
}

// ListFilter narrows unit listings.
type ListFilter struct {
	ShopID   *uuid.UUID
	Name     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	InStock  bool
	pagination.Params
}

// List returns every unit matching the filter, in insertion order. The
// service orders and paginates in memory: price_for_kg is not a stored
// column, so limit/offset cannot be pushed into SQL without breaking
// the global order of derived-key listings.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Unit, error) {
	query := r.db.WithContext(ctx).Model(&models.Unit{})
	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.InStock {
		query = query.Where("amount > 0")
	}

	var units []models.Unit
	if err := query.
		Preload("Shop").
		Order("created_at ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}
