package shops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgdb "github.com/dkurilenko/freshmart-backend/pkg/db"
	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the shop catalog surface.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]ShopDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ShopDTO, error)
	Create(ctx context.Context, input CreateShopInput) (*ShopDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateShopInput) (*ShopDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type shopRepository interface {
	Create(ctx context.Context, shop *models.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	Update(ctx context.Context, shop *models.Shop) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]models.Shop, int64, error)
}

type service struct {
	repo shopRepository
}

// NewService constructs a shops service over the provided repository.
func NewService(repo shopRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shops repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ShopDTO, int64, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shops")
	}
	dtos := make([]ShopDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ShopDTO, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	return FromModel(shop), nil
}

func (s *service) Create(ctx context.Context, input CreateShopInput) (*ShopDTO, error) {
	shop := &models.Shop{
		ID:   uuid.New(),
		Name: strings.TrimSpace(input.Name),
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "shop name already taken").
				WithDetails(map[string]string{"name": "already taken"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shop")
	}
	return FromModel(shop), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateShopInput) (*ShopDTO, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}

	if input.Name != nil {
		shop.Name = strings.TrimSpace(*input.Name)
	}

	if err := s.repo.Update(ctx, shop); err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "shop name already taken").
				WithDetails(map[string]string{"name": "already taken"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shop")
	}
	return FromModel(shop), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete shop")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return nil
}
