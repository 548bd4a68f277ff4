package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dkurilenko/freshmart-backend/internal/accounts"
	"github.com/dkurilenko/freshmart-backend/internal/units"
	pkgdb "github.com/dkurilenko/freshmart-backend/pkg/db"
	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
	"github.com/dkurilenko/freshmart-backend/pkg/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderableFields lists the keys a reservation listing may be sorted by.
// Nested unit keys reach through to the reserved unit, including the
// derived price_for_kg.
var OrderableFields = map[string]struct{}{
	"amount":            {},
	"total":             {},
	"created_at":        {},
	"unit.name":         {},
	"unit.shop_name":    {},
	"unit.weight":       {},
	"unit.price":        {},
	"unit.price_for_kg": {},
}

// defaultOrdering is applied when the caller does not request one:
// shop, then unit name, then price, mirroring the catalog listing.
var defaultOrdering = []ordering.Key{
	{Field: "unit.shop_name"},
	{Field: "unit.name"},
	{Field: "unit.price"},
}

// TxRunner executes fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the reservation surface. Every mutation runs as a
// single transaction: the stock adjustment and the reservation write
// either both land or neither does.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, orderBy string) ([]ReservationDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*ReservationDTO, error)
	Reserve(ctx context.Context, userID uuid.UUID, input ReserveInput) (*ReservationDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateInput) (*ReservationDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Buy(ctx context.Context, userID uuid.UUID) (*BuyResult, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	Search(ctx context.Context, filter SearchFilter) ([]ReservationDTO, int64, error)
}

type service struct {
	tx       TxRunner
	repo     *Repository
	units    *units.Repository
	accounts *accounts.Repository
}

// ServiceParams bundles the dependencies required to build a reservations service.
type ServiceParams struct {
	TxRunner     TxRunner
	Repo         *Repository
	UnitsRepo    *units.Repository
	AccountsRepo *accounts.Repository
}

// NewService constructs a reservations service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("reservations repository is required")
	}
	if params.UnitsRepo == nil {
		return nil, fmt.Errorf("units repository is required")
	}
	if params.AccountsRepo == nil {
		return nil, fmt.Errorf("accounts repository is required")
	}
	return &service{
		tx:       params.TxRunner,
		repo:     params.Repo,
		units:    params.UnitsRepo,
		accounts: params.AccountsRepo,
	}, nil
}

// limitExceeded builds the rejection returned whenever a proposed stock
// or balance value would go negative. The message carries the unsigned
// magnitude of the shortfall and is attributed to the amount field.
func limitExceeded(shortfall string) *pkgerrors.Error {
	msg := fmt.Sprintf("The limit have been exceeded by %s", shortfall)
	return pkgerrors.New(pkgerrors.CodeValidation, msg).
		WithDetails(map[string]string{"amount": msg})
}

func (s *service) List(ctx context.Context, userID uuid.UUID, orderBy string) ([]ReservationDTO, error) {
	keys, err := ordering.Parse(orderBy, OrderableFields)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
			WithDetails(map[string]string{"ordering": err.Error()})
	}
	if len(keys) == 0 {
		keys = defaultOrdering
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}

	ordering.Apply(rows, keys, CompareReservations)

	dtos := make([]ReservationDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

// CompareReservations orders two reservations on the named field,
// resolving unit.* keys through the preloaded unit.
func CompareReservations(a, b models.Reservation, field string) int {
	switch field {
	case "amount":
		return a.Amount - b.Amount
	case "total":
		return a.Total().Cmp(b.Total())
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	if unitField, ok := strings.CutPrefix(field, "unit."); ok {
		if a.Unit == nil || b.Unit == nil {
			return 0
		}
		return units.CompareUnits(*a.Unit, *b.Unit, unitField)
	}
	return 0
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*ReservationDTO, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	if reservation.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}
	return FromModel(reservation), nil
}

// Reserve creates or replaces the user's hold on a unit. Re-reserving
// with the amount already held is a no-op success.
func (s *service) Reserve(ctx context.Context, userID uuid.UUID, input ReserveInput) (*ReservationDTO, error) {
	if input.Amount < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be at least 1").
			WithDetails(map[string]string{"amount": "must be at least 1"})
	}

	var dto *ReservationDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var existing *models.Reservation
		found, err := repo.FindByUserAndUnit(ctx, userID, input.UnitID)
		switch {
		case err == nil:
			existing = found
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
		}

		reconciled, err := s.reconcile(ctx, tx, userID, input.UnitID, existing, input.Amount)
		if err != nil {
			return err
		}
		loaded, err := repo.FindByID(ctx, reconciled.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload reservation")
		}
		dto = FromModel(loaded)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Update replaces the held amount of a reservation the user owns.
func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input UpdateInput) (*ReservationDTO, error) {
	if input.Amount < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be at least 1").
			WithDetails(map[string]string{"amount": "must be at least 1"})
	}

	var dto *ReservationDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
		}
		if existing.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}

		if _, err := s.reconcile(ctx, tx, userID, existing.UnitID, existing, input.Amount); err != nil {
			return err
		}
		loaded, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload reservation")
		}
		dto = FromModel(loaded)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// reconcile applies the stock reconciliation contract: the stock delta
// is taken or returned first, then the reservation row is written, all
// inside the caller's transaction. A shortfall rejects the whole change.
func (s *service) reconcile(ctx context.Context, tx *gorm.DB, userID, unitID uuid.UUID, existing *models.Reservation, newAmount int) (*models.Reservation, error) {
	unitsRepo := s.units.WithTx(tx)
	repo := s.repo.WithTx(tx)

	oldAmount := 0
	if existing != nil {
		oldAmount = existing.Amount
	}
	delta := newAmount - oldAmount

	switch {
	case delta > 0:
		taken, err := unitsRepo.TakeStock(ctx, unitID, delta)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "take stock")
		}
		if !taken {
			available, err := unitsRepo.GetAmount(ctx, unitID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unit not found")
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load unit stock")
			}
			return nil, limitExceeded(fmt.Sprintf("%d", delta-available))
		}
	case delta < 0:
		if err := unitsRepo.ReturnStock(ctx, unitID, -delta); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "return stock")
		}
	}
	// delta == 0 falls through: idempotent re-reservation touches nothing.

	if existing == nil {
		reservation := &models.Reservation{
			ID:     uuid.New(),
			UserID: userID,
			UnitID: unitID,
			Amount: newAmount,
		}
		if err := repo.Create(ctx, reservation); err != nil {
			// Two first-time reserves can race past the existence check.
			// The loser hits the (user, unit) unique index; the rollback
			// restores the stock it took, and a retry lands on the
			// update path.
			if pkgdb.IsUniqueViolation(err, "") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "unit already reserved")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reservation")
		}
		return reservation, nil
	}

	if delta != 0 {
		if err := repo.UpdateAmount(ctx, existing.ID, newAmount); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reservation")
		}
	}
	existing.Amount = newAmount
	return existing, nil
}

// Delete cancels a single reservation, restoring its stock.
func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		reservation, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
		}
		if reservation.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}

		if err := s.units.WithTx(tx).ReturnStock(ctx, reservation.UnitID, reservation.Amount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "return stock")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete reservation")
		}
		return nil
	})
}

// Buy converts all of the user's reservations into a single balance
// debit. Stock is untouched: it was already decremented at reservation
// time. The debit and the bulk delete are atomic.
func (s *service) Buy(ctx context.Context, userID uuid.UUID) (*BuyResult, error) {
	var result *BuyResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		accountsRepo := s.accounts.WithTx(tx)

		rows, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
		}

		total := decimal.Zero
		for i := range rows {
			total = total.Add(rows[i].Total())
		}

		if total.Sign() > 0 {
			debited, err := accountsRepo.Debit(ctx, userID, total)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit account")
			}
			if !debited {
				account, err := accountsRepo.FindByUserID(ctx, userID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
				}
				shortfall := total.Sub(account.Amount)
				return limitExceeded(shortfall.StringFixed(2))
			}
		}

		if _, err := repo.DeleteAllByUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear reservations")
		}

		result = &BuyResult{Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Clear cancels all of the user's reservations, restoring stock per
// reservation. Balance is untouched.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		unitsRepo := s.units.WithTx(tx)

		rows, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
		}

		for i := range rows {
			if err := unitsRepo.ReturnStock(ctx, rows[i].UnitID, rows[i].Amount); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "return stock")
			}
		}

		if _, err := repo.DeleteAllByUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear reservations")
		}
		return nil
	})
}

func (s *service) Search(ctx context.Context, filter SearchFilter) ([]ReservationDTO, int64, error) {
	rows, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search reservations")
	}
	dtos := make([]ReservationDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, total, nil
}
