package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
	"github.com/dkurilenko/freshmart-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	user *models.User
	rows []models.User
	err  error
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.err
}

func (s *stubUserRepo) List(ctx context.Context, params pagination.Params) ([]models.User, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.rows, int64(len(s.rows)), nil
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestServiceGetByIDSuccess(t *testing.T) {
	now := time.Now().UTC()
	balance := decimal.RequireFromString("42.50")
	user := &models.User{
		ID:        uuid.New(),
		Username:  "alice",
		Email:     "alice@example.com",
		IsActive:  true,
		Account:   &models.Account{Amount: balance},
		CreatedAt: now,
	}
	svc, err := NewService(&stubUserRepo{user: user})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if dto.Username != "alice" {
		t.Fatalf("expected username alice, got %s", dto.Username)
	}
	if dto.Balance == nil || !dto.Balance.Equal(balance) {
		t.Fatalf("expected balance %s, got %v", balance, dto.Balance)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc, err := NewService(&stubUserRepo{err: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestServiceListDependencyError(t *testing.T) {
	svc, err := NewService(&stubUserRepo{err: errors.New("boom")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, _, gotErr := svc.List(context.Background(), pagination.Params{})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", gotErr)
	}
}

func TestServiceList(t *testing.T) {
	rows := []models.User{
		{ID: uuid.New(), Username: "alice"},
		{ID: uuid.New(), Username: "bob"},
	}
	svc, err := NewService(&stubUserRepo{rows: rows})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dtos, total, err := svc.List(context.Background(), pagination.Params{})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if total != 2 || len(dtos) != 2 {
		t.Fatalf("expected 2 users, got total=%d len=%d", total, len(dtos))
	}
}
