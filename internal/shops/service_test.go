package shops

import (
	"context"
	"testing"

	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubShopRepo struct {
	shop    *models.Shop
	rows    []models.Shop
	deleted bool
	err     error
}

func (s *stubShopRepo) Create(ctx context.Context, shop *models.Shop) error {
	if s.err != nil {
		return s.err
	}
	s.shop = shop
	return nil
}

func (s *stubShopRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.shop, nil
}

func (s *stubShopRepo) Update(ctx context.Context, shop *models.Shop) error {
	return s.err
}

func (s *stubShopRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.deleted, s.err
}

func (s *stubShopRepo) List(ctx context.Context, filter ListFilter) ([]models.Shop, int64, error) {
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

func TestServiceCreateTrimsName(t *testing.T) {
	repo := &stubShopRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateShopInput{Name: "  Green Market  "})
	if err != nil {
		t.Fatalf("create shop: %v", err)
	}
	if dto.Name != "Green Market" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc, err := NewService(&stubShopRepo{err: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestServiceDeleteMissingShop(t *testing.T) {
	svc, err := NewService(&stubShopRepo{deleted: false})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	gotErr := svc.Delete(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestServiceList(t *testing.T) {
	rows := []models.Shop{
		{ID: uuid.New(), Name: "Alpha"},
		{ID: uuid.New(), Name: "Beta"},
	}
	svc, err := NewService(&stubShopRepo{rows: rows})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dtos, total, err := svc.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("list shops: %v", err)
	}
	if total != 2 || len(dtos) != 2 {
		t.Fatalf("expected 2 shops, got total=%d len=%d", total, len(dtos))
	}
}
