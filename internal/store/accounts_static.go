package store

import (
	"context"
)

// DefaultAccountName is returned for account numbers the static table does not know.
const DefaultAccountName = "Account Holder Name"

type staticAccounts struct {
	names map[string]string
}

// NewStaticAccounts resolves names from a fixed table, ignoring the bank code.
func NewStaticAccounts() *staticAccounts {
	return &staticAccounts{
		names: map[string]string{
			"0123456789": "John Doe",
			"9876543210": "Jane Smith",
			"1111111111": "Test User",
		},
	}
}

func (s *staticAccounts) ResolveAccountName(_ context.Context, _, accountNumber string) (string, error) {
	if name, ok := s.names[accountNumber]; ok {
		return name, nil
	}
	return DefaultAccountName, nil
}
