package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/errs"
	"github.com/GregMSThompson/onboarding/internal/middleware"
)

type stubRegistrationService struct {
	provider string
	form     dto.RegistrationFormData
	resp     dto.RegistrationResponse
	err      error

	lookupID string
	summary  dto.RegistrationSummary
}

func (s *stubRegistrationService) Register(ctx context.Context, provider string, form dto.RegistrationFormData) (dto.RegistrationResponse, error) {
	s.provider = provider
	s.form = form
	return s.resp, s.err
}

func (s *stubRegistrationService) GetRegistration(ctx context.Context, registrationID string) (dto.RegistrationSummary, error) {
	s.lookupID = registrationID
	return s.summary, s.err
}

func TestRegister_OK(t *testing.T) {
	svc := &stubRegistrationService{resp: dto.RegistrationResponse{"authtoken": "tok"}}
	resp := &stubResponseHandler{}
	h := NewRegistrationHandlers(&Deps{ResponseHandler: resp, RegistrationSvc: svc})

	body := `{"firstName":"John","surname":"Doe","bank_id":"1","account_number":"0123456789"}`
	req := httptest.NewRequest(http.MethodPost, "/route-pay/parallex-register", strings.NewReader(body))
	req = withChiParam(req, "provider", "parallex")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if svc.provider != "parallex" || svc.form.FirstName != "John" || svc.form.AccountNumber != "0123456789" {
		t.Fatalf("service received provider=%q form=%#v", svc.provider, svc.form)
	}
	if resp.writeSuccessMessage != "Registration successful" {
		t.Errorf("unexpected message %q", resp.writeSuccessMessage)
	}
}

func TestRegister_ServiceError(t *testing.T) {
	svc := &stubRegistrationService{err: errs.NewAlreadyExistsError("dup")}
	resp := &stubResponseHandler{}
	h := NewRegistrationHandlers(&Deps{ResponseHandler: resp, RegistrationSvc: svc})

	req := withChiParam(httptest.NewRequest(http.MethodPost, "/route-pay/parallex-register", strings.NewReader(`{}`)), "provider", "parallex")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	var dup *errs.AlreadyExistsError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &dup) {
		t.Fatalf("expected HandleError with AlreadyExistsError, got %v", resp.handleError)
	}
}

func TestGetMine_UsesTokenSubject(t *testing.T) {
	svc := &stubRegistrationService{summary: dto.RegistrationSummary{RegistrationID: "reg-1"}}
	resp := &stubResponseHandler{}
	h := NewRegistrationHandlers(&Deps{ResponseHandler: resp, RegistrationSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/registrations/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RegistrationIDKey, "reg-1"))
	rr := httptest.NewRecorder()
	h.GetMine(rr, req)

	if svc.lookupID != "reg-1" {
		t.Fatalf("expected lookup of reg-1, got %q", svc.lookupID)
	}
	if !resp.writeSuccessCalled {
		t.Fatalf("expected WriteSuccess")
	}
}
