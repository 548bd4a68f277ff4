package shops

import (
	"context"
	"strings"

	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	"github.com/dkurilenko/freshmart-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for shops.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a shops repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new shop row.
func (r *Repository) Create(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

// FindByID loads a shop by UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// Update persists the mutable shop fields.
func (r *Repository) Update(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}

// Delete removes a shop and returns whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Shop{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListFilter narrows shop listings.
type ListFilter struct {
	Name string
	pagination.Params
}

// List returns a page of shops matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Shop, int64, error) {
	filter.Params = pagination.Normalize(filter.Params)

	query := r.db.WithContext(ctx).Model(&models.Shop{})
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shops []models.Shop
	if err := query.
		Order("name ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&shops).Error; err != nil {
		return nil, 0, err
	}
	return shops, total, nil
}
