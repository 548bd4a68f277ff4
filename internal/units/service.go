package units

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgdb "github.com/dkurilenko/freshmart-backend/pkg/db"
	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
	"github.com/dkurilenko/freshmart-backend/pkg/ordering"
	"github.com/dkurilenko/freshmart-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderableFields lists the keys a unit listing may be sorted by.
// price_for_kg is derived from price and weight, so any ordering that
// includes it is applied in memory after the rows are loaded.
var OrderableFields = map[string]struct{}{
	"name":         {},
	"shop_name":    {},
	"weight":       {},
	"price":        {},
	"amount":       {},
	"price_for_kg": {},
	"created_at":   {},
}

// Service exposes the unit catalog surface.
type Service interface {
	List(ctx context.Context, filter ListFilter, orderBy string) ([]UnitDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UnitDTO, error)
	Create(ctx context.Context, input CreateUnitInput) (*UnitDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUnitInput) (*UnitDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type unitRepository interface {
	Create(ctx context.Context, unit *models.Unit) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	Update(ctx context.Context, unit *models.Unit) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]models.Unit, error)
}

// defaultOrdering is applied when the caller does not request one.
var defaultOrdering = []ordering.Key{
	{Field: "shop_name"},
	{Field: "name"},
	{Field: "price"},
}

type service struct {
	repo unitRepository
}

// NewService constructs a units service over the provided repository.
func NewService(repo unitRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("units repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, orderBy string) ([]UnitDTO, int64, error) {
	keys, err := ordering.Parse(orderBy, OrderableFields)
	if err != nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
			WithDetails(map[string]string{"ordering": err.Error()})
	}
	if len(keys) == 0 {
		keys = defaultOrdering
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list units")
	}
	total := int64(len(rows))

	// Sort the whole filtered set before slicing the page, so every
	// page reflects the one global order.
	ordering.Apply(rows, keys, CompareUnits)
	rows = pagination.Page(rows, filter.Params)

	dtos := make([]UnitDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, total, nil
}

// CompareUnits orders two units on the named field. Derived fields are
// computed on the fly so they sort exactly as they serialize.
func CompareUnits(a, b models.Unit, field string) int {
	switch field {
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "shop_name":
		var an, bn string
		if a.Shop != nil {
			an = a.Shop.Name
		}
		if b.Shop != nil {
			bn = b.Shop.Name
		}
		return strings.Compare(strings.ToLower(an), strings.ToLower(bn))
	case "weight":
		return a.Weight.Cmp(b.Weight)
	case "price":
		return a.Price.Cmp(b.Price)
	case "amount":
		return a.Amount - b.Amount
	case "price_for_kg":
		return a.PriceForKg().Cmp(b.PriceForKg())
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return 0
	}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UnitDTO, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load unit")
	}
	return FromModel(unit), nil
}

func (s *service) Create(ctx context.Context, input CreateUnitInput) (*UnitDTO, error) {
	if input.Weight.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive").
			WithDetails(map[string]string{"weight": "must be positive"})
	}
	if input.Price.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive").
			WithDetails(map[string]string{"price": "must be positive"})
	}
	if input.Amount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative").
			WithDetails(map[string]string{"amount": "must not be negative"})
	}

	unit := &models.Unit{
		ID:     uuid.New(),
		ShopID: input.ShopID,
		Name:   strings.TrimSpace(input.Name),
		Weight: input.Weight,
		Price:  input.Price,
		Amount: input.Amount,
	}
	if err := s.repo.Create(ctx, unit); err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "unit already listed in this shop").
				WithDetails(map[string]string{"name": "already listed"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create unit")
	}
	return FromModel(unit), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateUnitInput) (*UnitDTO, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load unit")
	}

	if input.Name != nil {
		unit.Name = strings.TrimSpace(*input.Name)
	}
	if input.Weight != nil {
		if input.Weight.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive").
				WithDetails(map[string]string{"weight": "must be positive"})
		}
		unit.Weight = *input.Weight
	}
	if input.Price != nil {
		if input.Price.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive").
				WithDetails(map[string]string{"price": "must be positive"})
		}
		unit.Price = *input.Price
	}
	if input.Amount != nil {
		if *input.Amount < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative").
				WithDetails(map[string]string{"amount": "must not be negative"})
		}
		unit.Amount = *input.Amount
	}

	if err := s.repo.Update(ctx, unit); err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "unit already listed in this shop").
				WithDetails(map[string]string{"name": "already listed"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update unit")
	}
	return FromModel(unit), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete unit")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "unit not found")
	}
	return nil
}
