package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/pkg/storage"
)

func envelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": success, "message": message, "data": data})
}

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /regions", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "Regions fetched successfully", []map[string]string{{"id": "1", "name": "Lagos"}})
	})
	mux.HandleFunc("GET /zones/region/{id}", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, true, "Zones fetched successfully", []map[string]string{{"id": "1", "name": "Lagos Island"}})
	})
	mux.HandleFunc("POST /validate-account", func(w http.ResponseWriter, r *http.Request) {
		var req dto.AccountValidationRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.AccountNumber != "0123456789" {
			envelope(w, http.StatusBadRequest, false, "Invalid account details", nil)
			return
		}
		envelope(w, http.StatusOK, true, "Account validated successfully", map[string]string{"account_name": "John Doe"})
	})
	mux.HandleFunc("POST /route-pay/{provider}", func(w http.ResponseWriter, r *http.Request) {
		var form dto.RegistrationFormData
		_ = json.NewDecoder(r.Body).Decode(&form)
		if form.AccountName != "John Doe" {
			envelope(w, http.StatusBadRequest, false, "account name missing", nil)
			return
		}
		envelope(w, http.StatusCreated, true, "Registration successful", map[string]string{"authtoken": "tok-cli", "registration_id": "r-1"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, session string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	base := []string{"--config", writeFile(t, "config.yaml", "log_level: error\n"), "--base-url", srv.URL, "--session", session}
	cmd.SetArgs(append(append([]string{}, args[:1]...), append(base, args[1:]...)...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRegionsCommand(t *testing.T) {
	srv := fakeServer(t)
	out, err := run(t, srv, filepath.Join(t.TempDir(), "session.json"), "regions")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Lagos"`)
}

func TestZeroTimeoutFlagRejected(t *testing.T) {
	srv := fakeServer(t)
	_, err := run(t, srv, filepath.Join(t.TempDir(), "session.json"), "regions", "--timeout", "0s")
	assert.ErrorContains(t, err, "timeout must be positive")
}

func TestZonesCommandRequiresRegion(t *testing.T) {
	srv := fakeServer(t)
	_, err := run(t, srv, filepath.Join(t.TempDir(), "session.json"), "zones")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	srv := fakeServer(t)
	session := filepath.Join(t.TempDir(), "session.json")

	out, err := run(t, srv, session, "validate", "1", "0123456789")
	require.NoError(t, err)
	assert.Equal(t, "John Doe\n", out)

	_, err = run(t, srv, session, "validate", "1", "12345")
	assert.ErrorContains(t, err, "10 digits")
}

func TestSubmitCommandStoresSession(t *testing.T) {
	srv := fakeServer(t)
	session := filepath.Join(t.TempDir(), "session.json")

	out, err := run(t, srv, session, "submit",
		"--first-name", "John", "--surname", "Doe", "--phone", "08012345678",
		"--nin", "12345678901", "--bvn", "22345678901", "--address", "1 Marina Road",
		"--region", "1", "--zone", "1", "--bank", "1", "--account-number", "0123456789")
	require.NoError(t, err)
	assert.Contains(t, out, "Account name: John Doe")

	store := storage.NewFileStore(session)
	token, ok := store.Get(t.Context(), storage.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "tok-cli", token)

	out, err = run(t, srv, session, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "r-1")

	_, err = run(t, srv, session, "logout")
	require.NoError(t, err)
	_, ok = store.Get(t.Context(), storage.KeyAuthToken)
	assert.False(t, ok)
}

func TestSubmitCommandStopsOnInvalidAccount(t *testing.T) {
	srv := fakeServer(t)
	session := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, srv, session, "submit",
		"--first-name", "John", "--surname", "Doe", "--phone", "08012345678",
		"--nin", "12345678901", "--bvn", "22345678901", "--address", "1 Marina Road",
		"--bank", "1", "--account-number", "9999999999")
	assert.Error(t, err)

	_, ok := storage.NewFileStore(session).Get(t.Context(), storage.KeyAuthToken)
	assert.False(t, ok)
}
