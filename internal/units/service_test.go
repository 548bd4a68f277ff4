package units

import (
	"context"
	"testing"

	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
	"github.com/dkurilenko/freshmart-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubUnitRepo struct {
	unit    *models.Unit
	rows    []models.Unit
	deleted bool
	err     error
}

func (s *stubUnitRepo) Create(ctx context.Context, unit *models.Unit) error {
	if s.err != nil {
		return s.err
	}
	s.unit = unit
	return nil
}

func (s *stubUnitRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.unit, nil
}

func (s *stubUnitRepo) Update(ctx context.Context, unit *models.Unit) error {
	return s.err
}

func (s *stubUnitRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.deleted, s.err
}

func (s *stubUnitRepo) List(ctx context.Context, filter ListFilter) ([]models.Unit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestServiceCreateValidatesWeightAndPrice(t *testing.T) {
	svc, err := NewService(&stubUnitRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Create(context.Background(), CreateUnitInput{
		ShopID: uuid.New(),
		Name:   "apples",
		Weight: decimal.Zero,
		Price:  dec("3.00"),
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero weight, got %v", gotErr)
	}

	_, gotErr = svc.Create(context.Background(), CreateUnitInput{
		ShopID: uuid.New(),
		Name:   "apples",
		Weight: dec("0.5"),
		Price:  dec("-1"),
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", gotErr)
	}
}

func TestServiceCreateComputesPriceForKg(t *testing.T) {
	svc, err := NewService(&stubUnitRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateUnitInput{
		ShopID: uuid.New(),
		Name:   "apples",
		Weight: dec("0.5"),
		Price:  dec("3.00"),
		Amount: 10,
	})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	if !dto.PriceForKg.Equal(dec("6.00")) {
		t.Fatalf("expected price_for_kg 6.00, got %s", dto.PriceForKg)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc, err := NewService(&stubUnitRepo{err: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestServiceListRejectsUnknownOrdering(t *testing.T) {
	svc, err := NewService(&stubUnitRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, _, gotErr := svc.List(context.Background(), ListFilter{}, "nope")
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", gotErr)
	}
}

func TestServiceListOrdersByDerivedField(t *testing.T) {
	rows := []models.Unit{
		{ID: uuid.New(), Name: "bulk rice", Weight: dec("5"), Price: dec("10.00")},   // 2.00/kg
		{ID: uuid.New(), Name: "saffron", Weight: dec("0.01"), Price: dec("50.00")},  // 5000.00/kg
		{ID: uuid.New(), Name: "apples", Weight: dec("0.5"), Price: dec("3.00")},     // 6.00/kg
	}
	svc, err := NewService(&stubUnitRepo{rows: rows})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dtos, _, err := svc.List(context.Background(), ListFilter{}, "-price_for_kg")
	if err != nil {
		t.Fatalf("list units: %v", err)
	}
	if len(dtos) != 3 {
		t.Fatalf("expected 3 units, got %d", len(dtos))
	}
	for i := 1; i < len(dtos); i++ {
		if dtos[i].PriceForKg.GreaterThan(dtos[i-1].PriceForKg) {
			t.Fatalf("expected non-increasing price_for_kg, got %s before %s",
				dtos[i-1].PriceForKg, dtos[i].PriceForKg)
		}
	}
	if dtos[0].Name != "saffron" || dtos[2].Name != "bulk rice" {
		t.Fatalf("unexpected order: %s, %s, %s", dtos[0].Name, dtos[1].Name, dtos[2].Name)
	}
}

func TestServiceListOrdersAcrossPages(t *testing.T) {
	// More rows than one page, inserted so that ascending price_for_kg
	// is the reverse of insertion order: row i has price i+1 per kg.
	rows := make([]models.Unit, 0, 30)
	for i := 30; i >= 1; i-- {
		rows = append(rows, models.Unit{
			ID:     uuid.New(),
			Name:   "unit",
			Weight: dec("1"),
			Price:  decimal.NewFromInt(int64(i)),
		})
	}
	svc, err := NewService(&stubUnitRepo{rows: rows})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dtos, total, err := svc.List(context.Background(), ListFilter{}, "price_for_kg")
	if err != nil {
		t.Fatalf("list units: %v", err)
	}
	if total != 30 {
		t.Fatalf("expected total 30, got %d", total)
	}
	if len(dtos) != pagination.DefaultLimit {
		t.Fatalf("expected a %d-row page, got %d", pagination.DefaultLimit, len(dtos))
	}
	if !dtos[0].PriceForKg.Equal(dec("1")) {
		t.Fatalf("first page should start at the global minimum, got %s", dtos[0].PriceForKg)
	}
	for i := 1; i < len(dtos); i++ {
		if dtos[i].PriceForKg.LessThan(dtos[i-1].PriceForKg) {
			t.Fatalf("expected non-decreasing price_for_kg, got %s before %s",
				dtos[i-1].PriceForKg, dtos[i].PriceForKg)
		}
	}

	// A later page continues the same global sequence.
	page, _, err := svc.List(context.Background(), ListFilter{
		Params: pagination.Params{Limit: 10, Offset: 25},
	}, "price_for_kg")
	if err != nil {
		t.Fatalf("list units: %v", err)
	}
	if len(page) != 5 {
		t.Fatalf("expected the 5 remaining rows, got %d", len(page))
	}
	if !page[0].PriceForKg.Equal(dec("26")) || !page[4].PriceForKg.Equal(dec("30")) {
		t.Fatalf("unexpected page bounds: %s .. %s", page[0].PriceForKg, page[4].PriceForKg)
	}
}

func TestServiceListDefaultOrdering(t *testing.T) {
	grocer := &models.Shop{ID: uuid.New(), Name: "grocer"}
	bakery := &models.Shop{ID: uuid.New(), Name: "bakery"}
	rows := []models.Unit{
		{ID: uuid.New(), Shop: grocer, Name: "apples", Weight: dec("1"), Price: dec("3.00")},
		{ID: uuid.New(), Shop: bakery, Name: "rye", Weight: dec("1"), Price: dec("4.00")},
		{ID: uuid.New(), Shop: bakery, Name: "baguette", Weight: dec("1"), Price: dec("2.50")},
		{ID: uuid.New(), Shop: bakery, Name: "baguette", Weight: dec("1"), Price: dec("1.50")},
	}
	svc, err := NewService(&stubUnitRepo{rows: rows})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	// No order_by: shop name, then unit name, then price.
	dtos, _, err := svc.List(context.Background(), ListFilter{}, "")
	if err != nil {
		t.Fatalf("list units: %v", err)
	}
	got := make([]string, 0, len(dtos))
	for _, dto := range dtos {
		got = append(got, dto.ShopName+"/"+dto.Name+"/"+dto.Price.String())
	}
	want := []string{"bakery/baguette/1.5", "bakery/baguette/2.5", "bakery/rye/4", "grocer/apples/3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected default order: %v", got)
		}
	}
}

func TestServiceListMixedOrderingKeepsPrioritySequence(t *testing.T) {
	rows := []models.Unit{
		{ID: uuid.New(), Name: "beans", Weight: dec("1"), Price: dec("4.00"), Amount: 1},
		{ID: uuid.New(), Name: "beans", Weight: dec("2"), Price: dec("4.00"), Amount: 2},
		{ID: uuid.New(), Name: "apples", Weight: dec("1"), Price: dec("9.00"), Amount: 3},
	}
	svc, err := NewService(&stubUnitRepo{rows: rows})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	// Name takes precedence; derived key only breaks the beans tie.
	dtos, _, err := svc.List(context.Background(), ListFilter{}, "name,-price_for_kg")
	if err != nil {
		t.Fatalf("list units: %v", err)
	}
	if dtos[0].Name != "apples" {
		t.Fatalf("expected apples first, got %s", dtos[0].Name)
	}
	if dtos[1].Amount != 1 || dtos[2].Amount != 2 {
		t.Fatalf("expected beans ordered by descending price_for_kg, got amounts %d, %d",
			dtos[1].Amount, dtos[2].Amount)
	}
}
