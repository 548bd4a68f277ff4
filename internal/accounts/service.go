package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountDTO is the transport shape for a balance.
type AccountDTO struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func FromModel(a *models.Account) *AccountDTO {
	if a == nil {
		return nil
	}
	return &AccountDTO{
		ID:        a.ID,
		UserID:    a.UserID,
		Amount:    a.Amount,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// Service exposes balance reads and admin top-ups.
type Service interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*AccountDTO, error)
	Topup(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*AccountDTO, error)
}

type accountRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Account, error)
	Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (bool, error)
}

type service struct {
	repo accountRepository
}

// NewService constructs an accounts service over the provided repository.
func NewService(repo accountRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByUserID(ctx context.Context, userID uuid.UUID) (*AccountDTO, error) {
	account, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	return FromModel(account), nil
}

func (s *service) Topup(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*AccountDTO, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "top-up amount must be positive").
			WithDetails(map[string]string{"amount": "must be positive"})
	}

	credited, err := s.repo.Credit(ctx, userID, amount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit account")
	}
	if !credited {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	return s.GetByUserID(ctx, userID)
}
