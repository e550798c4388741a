package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/onboarding/internal/errs"
	"github.com/GregMSThompson/onboarding/pkg/logger"
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v (%s)", err, rr.Body.String())
	}
	return body
}

func TestHandleErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", errs.NewValidationError("Missing required fields"), http.StatusBadRequest, "Missing required fields"},
		{"wrapped validation", fmt.Errorf("register: %w", errs.NewValidationError("bad")), http.StatusBadRequest, "bad"},
		{"unauthorized", errs.NewUnauthorizedError("Invalid or expired token"), http.StatusUnauthorized, "Invalid or expired token"},
		{"not found", errs.NewNotFoundError("unknown provider"), http.StatusNotFound, "unknown provider"},
		{"exists", errs.NewAlreadyExistsError("already registered"), http.StatusConflict, "already registered"},
		{"database", errs.NewDatabaseError("create", "failed", errors.New("boom")), http.StatusInternalServerError, "An error occurred"},
		{"transient external", errs.NewExternalServiceError("name-enquiry", "timeout", true, nil), http.StatusServiceUnavailable, "Service temporarily unavailable"},
		{"external", errs.NewExternalServiceError("name-enquiry", "bad gateway", false, nil), http.StatusBadGateway, "Service temporarily unavailable"},
		{"truncated body", errs.NewMalformedBodyError(io.ErrUnexpectedEOF), http.StatusBadRequest, "Malformed request body"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	h := New(slog.New(logger.NewTestHandler(slog.LevelInfo)))

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			h.HandleError(rr, req, tc.err)

			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			body := decodeEnvelope(t, rr)
			if body["success"] != false || body["message"] != tc.message {
				t.Fatalf("unexpected body: %v", body)
			}
			if v, ok := body["data"]; !ok || v != nil {
				t.Fatalf("data must be present and null, got %v (present=%v)", v, ok)
			}
		})
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	h := New(slog.New(logger.NewTestHandler(slog.LevelInfo)))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	h.WriteSuccess(rr, req, http.StatusOK, "Regions fetched successfully", []string{"a"})

	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected response: %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}
	body := decodeEnvelope(t, rr)
	if body["success"] != true || body["message"] != "Regions fetched successfully" {
		t.Fatalf("unexpected body: %v", body)
	}
	if data, ok := body["data"].([]any); !ok || len(data) != 1 {
		t.Fatalf("unexpected data: %v", body["data"])
	}
}
