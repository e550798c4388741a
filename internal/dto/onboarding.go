package dto

import "encoding/json"

// APIResponse is the envelope every onboarding endpoint answers with.
// Callers must check Success before trusting Data.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// RegistrationFormData is the payload posted to /route-pay/{provider}-register.
type RegistrationFormData struct {
	FirstName     string `json:"firstName" validate:"required"`
	Surname       string `json:"surname" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Email         string `json:"email,omitempty"`
	NIN           string `json:"nin" validate:"required"`
	BVN           string `json:"bvn" validate:"required"`
	Address       string `json:"address" validate:"required"`
	RegionID      string `json:"region_id"`
	ZoneID        string `json:"zone_id"`
	BankID        string `json:"bank_id" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required,len=10,number"`
	ParallexID    string `json:"parallex_id"`
	AccountName   string `json:"account_name,omitempty"`
}

// AccountNumberLength is the length of a NUBAN account number.
const AccountNumberLength = 10

// IsAccountNumber reports whether s is exactly AccountNumberLength ASCII
// digits.
func IsAccountNumber(s string) bool {
	if len(s) != AccountNumberLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

type AccountValidationRequest struct {
	BankCode      string `json:"bank_code"`
	AccountNumber string `json:"account_number"`
}

type AccountValidationResponse struct {
	AccountName string `json:"account_name"`
}

// RegistrationResponse carries the auth token plus whatever else the
// registration backend chose to return.
type RegistrationResponse map[string]any

const AuthTokenField = "authtoken"

// AuthToken returns the token field when present and a non-empty string.
func (r RegistrationResponse) AuthToken() string {
	if r == nil {
		return ""
	}
	token, _ := r[AuthTokenField].(string)
	return token
}

// JSON re-encodes the response the way it was received.
func (r RegistrationResponse) JSON() ([]byte, error) {
	return json.Marshal(map[string]any(r))
}

// RegistrationSummary is the non-sensitive view returned by /registrations/me.
type RegistrationSummary struct {
	RegistrationID string `json:"registration_id"`
	Provider       string `json:"provider"`
	FirstName      string `json:"firstName"`
	Surname        string `json:"surname"`
	Phone          string `json:"phone"`
	Email          string `json:"email,omitempty"`
	RegionID       string `json:"region_id"`
	ZoneID         string `json:"zone_id"`
	BankID         string `json:"bank_id"`
	AccountNumber  string `json:"account_number"`
	AccountName    string `json:"account_name"`
	CreatedAt      string `json:"created_at"`
}

// RegistrationCompletedEvent is published once a registration is persisted.
type RegistrationCompletedEvent struct {
	RegistrationID string `json:"registration_id"`
	Provider       string `json:"provider"`
	BankID         string `json:"bank_id"`
	RegionID       string `json:"region_id"`
	ZoneID         string `json:"zone_id"`
	CreatedAt      string `json:"created_at"`
}
