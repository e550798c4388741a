package onboarding

import (
	"net/http"

	"github.com/GregMSThompson/onboarding/pkg/logger"
	"github.com/GregMSThompson/onboarding/pkg/storage"
)

// bearerTransport attaches the stored auth token to every outbound request.
type bearerTransport struct {
	next  http.RoundTripper
	store storage.Store
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, ok := t.store.Get(req.Context(), storage.KeyAuthToken)
	if !ok || tok == "" {
		return t.next.RoundTrip(req)
	}
	// RoundTrippers must not mutate the caller's request
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+tok)
	return t.next.RoundTrip(r)
}

// evictTransport drops the stored token when the server rejects it. The
// response is passed through untouched; there is no retry.
type evictTransport struct {
	next  http.RoundTripper
	store storage.Store
}

func (t *evictTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err == nil && resp.StatusCode == http.StatusUnauthorized {
		logger.FromContext(req.Context()).Debug("auth token rejected, removing", "path", req.URL.Path)
		t.store.Remove(req.Context(), storage.KeyAuthToken)
	}
	return resp, err
}

func newTransport(base http.RoundTripper, store storage.Store) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &evictTransport{
		next:  &bearerTransport{next: base, store: store},
		store: store,
	}
}
