package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkurilenko/freshmart-backend/internal/units"
	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
)

type stubUnitService struct {
	items []units.UnitDTO
	item  *units.UnitDTO
	total int64
	err   error

	lastFilter  units.ListFilter
	lastOrderBy string
}

func (s *stubUnitService) List(ctx context.Context, filter units.ListFilter, orderBy string) ([]units.UnitDTO, int64, error) {
	s.lastFilter = filter
	s.lastOrderBy = orderBy
	return s.items, s.total, s.err
}

func (s *stubUnitService) GetByID(ctx context.Context, id uuid.UUID) (*units.UnitDTO, error) {
	return s.item, s.err
}

func (s *stubUnitService) Create(ctx context.Context, input units.CreateUnitInput) (*units.UnitDTO, error) {
	return s.item, s.err
}

func (s *stubUnitService) Update(ctx context.Context, id uuid.UUID, input units.UpdateUnitInput) (*units.UnitDTO, error) {
	return s.item, s.err
}

func (s *stubUnitService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func TestUnitListParsesFilters(t *testing.T) {
	shopID := uuid.New()
	svc := &stubUnitService{items: []units.UnitDTO{{ID: uuid.New(), Name: "apples"}}, total: 1}
	handler := UnitList(svc, nil)

	target := "/api/v1/units?shop_id=" + shopID.String() + "&name=app&min_price=1.50&in_stock=true&order_by=-price_for_kg&limit=10&offset=20"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastFilter.ShopID == nil || *svc.lastFilter.ShopID != shopID {
		t.Fatalf("expected shop filter %s, got %+v", shopID, svc.lastFilter.ShopID)
	}
	if svc.lastFilter.Name != "app" {
		t.Fatalf("unexpected name filter: %q", svc.lastFilter.Name)
	}
	if svc.lastFilter.MinPrice == nil || !svc.lastFilter.MinPrice.Equal(decimal.RequireFromString("1.50")) {
		t.Fatalf("unexpected min price: %+v", svc.lastFilter.MinPrice)
	}
	if !svc.lastFilter.InStock {
		t.Fatal("expected in_stock filter")
	}
	if svc.lastOrderBy != "-price_for_kg" {
		t.Fatalf("unexpected ordering: %q", svc.lastOrderBy)
	}
	if svc.lastFilter.Limit != 10 || svc.lastFilter.Offset != 20 {
		t.Fatalf("unexpected pagination: %+v", svc.lastFilter.Params)
	}

	var envelope struct {
		Data  []units.UnitDTO `json:"data"`
		Total int             `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Total != 1 || len(envelope.Data) != 1 {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestUnitListRejectsBadShopID(t *testing.T) {
	handler := UnitList(&stubUnitService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/units?shop_id=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUnitListRejectsUnknownOrdering(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeValidation, "unknown ordering field: flavor")
	handler := UnitList(&stubUnitService{err: err}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/units?order_by=flavor", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUnitCreateRejectsMissingName(t *testing.T) {
	handler := UnitCreate(&stubUnitService{}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/admin/units", []byte(`{"shop_id":"`+uuid.NewString()+`","weight":"0.5","price":"3.00"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
