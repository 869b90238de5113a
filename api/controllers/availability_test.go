package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/internal/availability"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
)

type stubAvailabilityService struct {
	slots     []availability.Slot
	err       error
	lastQuery availability.Query
}

func (s *stubAvailabilityService) Compute(_ context.Context, query availability.Query) ([]availability.Slot, error) {
	s.lastQuery = query
	return s.slots, s.err
}

func availabilityURL(storeID, serviceID, providerID uuid.UUID) string {
	return fmt.Sprintf(
		"/api/v1/availability?store_id=%s&service_id=%s&provider_id=%s&start_date=2026-10-06&end_date=2026-10-06",
		storeID, serviceID, providerID,
	)
}

func TestAvailabilityListSuccess(t *testing.T) {
	storeID := uuid.New()
	serviceID := uuid.New()
	providerID := uuid.New()
	svc := &stubAvailabilityService{slots: []availability.Slot{
		{Date: "2026-10-06", Time: "10:00", Available: true},
		{Date: "2026-10-06", Time: "10:30", Available: false},
	}}
	handler := AvailabilityList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, availabilityURL(storeID, serviceID, providerID), nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data struct {
			Slots []availability.Slot `json:"slots"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Slots) != 2 {
		t.Fatalf("expected 2 slots got %d", len(envelope.Data.Slots))
	}
	if svc.lastQuery.StoreID != storeID || svc.lastQuery.ProviderID != providerID {
		t.Fatalf("query not forwarded: %+v", svc.lastQuery)
	}
	if !svc.lastQuery.StartDate.Equal(svc.lastQuery.EndDate) {
		t.Fatalf("expected single-day range, got %v..%v", svc.lastQuery.StartDate, svc.lastQuery.EndDate)
	}
}

func TestAvailabilityListMissingParams(t *testing.T) {
	handler := AvailabilityList(&stubAvailabilityService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?store_id="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAvailabilityListBadDate(t *testing.T) {
	handler := AvailabilityList(&stubAvailabilityService{}, nil)

	url := fmt.Sprintf(
		"/api/v1/availability?store_id=%s&service_id=%s&provider_id=%s&start_date=06-10-2026&end_date=2026-10-06",
		uuid.New(), uuid.New(), uuid.New(),
	)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAvailabilityListServiceError(t *testing.T) {
	svc := &stubAvailabilityService{err: pkgerrors.New(pkgerrors.CodeNotFound, "service not found")}
	handler := AvailabilityList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, availabilityURL(uuid.New(), uuid.New(), uuid.New()), nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
