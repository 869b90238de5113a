package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/internal/timeoff"
	"github.com/chairtime/chairtime-backend/pkg/enums"
)

type stubTimeOffService struct {
	result    *timeoff.CreateResult
	err       error
	lastInput timeoff.CreateTimeOffInput
}

func (s *stubTimeOffService) Create(_ context.Context, input timeoff.CreateTimeOffInput) (*timeoff.CreateResult, error) {
	s.lastInput = input
	return s.result, s.err
}

func TestTimeOffCreateDefaultsToPrincipal(t *testing.T) {
	providerID := uuid.New()
	svc := &stubTimeOffService{result: &timeoff.CreateResult{
		TimeOff:        timeoff.TimeOffDTO{ID: uuid.New(), ProviderID: providerID},
		CancelledCount: 2,
	}}
	handler := TimeOffCreate(svc, nil)

	body := []byte(`{"starts_at":"2026-10-07T00:00:00Z","ends_at":"2026-10-08T00:00:00Z","reason":"dentist"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/time-off", bytes.NewReader(body))
	req = withPrincipal(req, providerID, "provider")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.ProviderID != providerID {
		t.Fatalf("expected provider to default to principal, got %s", svc.lastInput.ProviderID)
	}
	if svc.lastInput.ActorRole != enums.RoleProvider {
		t.Fatalf("expected provider role, got %s", svc.lastInput.ActorRole)
	}
	var envelope struct {
		Data timeoff.CreateResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CancelledCount != 2 {
		t.Fatalf("expected cascade count 2 got %d", envelope.Data.CancelledCount)
	}
}

func TestTimeOffCreateAdminForProvider(t *testing.T) {
	providerID := uuid.New()
	svc := &stubTimeOffService{result: &timeoff.CreateResult{}}
	handler := TimeOffCreate(svc, nil)

	body := []byte(`{"provider_id":"` + providerID.String() + `","starts_at":"2026-10-07T00:00:00Z","ends_at":"2026-10-08T00:00:00Z"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/time-off", bytes.NewReader(body))
	req = withPrincipal(req, uuid.New(), "admin")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.ProviderID != providerID {
		t.Fatalf("expected explicit provider, got %s", svc.lastInput.ProviderID)
	}
}

func TestTimeOffCreateRejectsMissingWindow(t *testing.T) {
	handler := TimeOffCreate(&stubTimeOffService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/time-off", bytes.NewReader([]byte(`{"reason":"vacation"}`)))
	req = withPrincipal(req, uuid.New(), "provider")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
