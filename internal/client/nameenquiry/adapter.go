package nameenquiry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/errs"
)

const service = "name-enquiry"

// Adapter resolves account holder names from an upstream name-enquiry
// service that speaks the same {success, message, data} envelope as we do.
type Adapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewAdapter(baseURL, apiKey string) *Adapter {
	return &Adapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 8 * time.Second},
	}
}

func (a *Adapter) ResolveAccountName(ctx context.Context, bankCode, accountNumber string) (string, error) {
	body, err := json.Marshal(dto.AccountValidationRequest{
		BankCode:      bankCode,
		AccountNumber: accountNumber,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/name-enquiry", bytes.NewReader(body))
	if err != nil {
		return "", errs.NewExternalServiceError(service, "failed to build request", false, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if a.apiKey != "" {
		req.Header.Set("X-API-Key", a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", errs.NewExternalServiceError(service, "request failed", true, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errs.NewExternalServiceError(service, "failed to read response", true, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", errs.NewExternalServiceError(service, fmt.Sprintf("upstream returned %d", resp.StatusCode), true, nil)
	}

	// a rejected API key is our problem, not the customer's
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", errs.NewExternalServiceError(service, fmt.Sprintf("upstream rejected credentials (%d)", resp.StatusCode), false, nil)
	}

	var env dto.APIResponse[*dto.AccountValidationResponse]
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		if decodeErr == nil && env.Message != "" {
			return "", errs.NewValidationError(env.Message)
		}
		return "", errs.NewValidationError("Invalid account details")
	}
	if decodeErr != nil {
		return "", errs.NewExternalServiceError(service, "malformed response", false, decodeErr)
	}
	if !env.Success || env.Data == nil || env.Data.AccountName == "" {
		msg := env.Message
		if msg == "" || env.Success {
			msg = "Invalid account details"
		}
		return "", errs.NewValidationError(msg)
	}
	return env.Data.AccountName, nil
}
