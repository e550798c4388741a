package onboarding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/models"
	"github.com/GregMSThompson/onboarding/pkg/logger"
	"github.com/GregMSThompson/onboarding/pkg/storage"
)

const (
	DefaultBaseURL  = "https://api.owoojumo.com/api/v1"
	DefaultTimeout  = 10 * time.Second
	DefaultProvider = "parallex"
)

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*options)

type options struct {
	timeout   time.Duration
	transport http.RoundTripper
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTransport replaces the base transport underneath the auth interceptors.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

func New(baseURL string, store storage.Store, opts ...Option) *Client {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if store == nil {
		store = storage.Nop{}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   o.timeout,
			Transport: newTransport(o.transport, store),
		},
	}
}

func (c *Client) Regions(ctx context.Context) ([]models.Region, error) {
	return call[[]models.Region](ctx, c, http.MethodGet, "/regions", nil)
}

func (c *Client) Zones(ctx context.Context, regionID string) ([]models.Zone, error) {
	return call[[]models.Zone](ctx, c, http.MethodGet, "/zones/region/"+url.PathEscape(regionID), nil)
}

func (c *Client) Banks(ctx context.Context) ([]models.Bank, error) {
	return call[[]models.Bank](ctx, c, http.MethodGet, "/banks", nil)
}

func (c *Client) ValidateAccount(ctx context.Context, bankCode, accountNumber string) (dto.AccountValidationResponse, error) {
	return call[dto.AccountValidationResponse](ctx, c, http.MethodPost, "/validate-account", dto.AccountValidationRequest{
		BankCode:      bankCode,
		AccountNumber: accountNumber,
	})
}

func (c *Client) Register(ctx context.Context, provider string, form dto.RegistrationFormData) (dto.RegistrationResponse, error) {
	if provider == "" {
		provider = DefaultProvider
	}
	return call[dto.RegistrationResponse](ctx, c, http.MethodPost, "/route-pay/"+url.PathEscape(provider)+"-register", form)
}

func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T
	log := logger.FromContext(ctx)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env dto.APIResponse[T]
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		herr := &HTTPError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			herr.Message = env.Message
		}
		log.Debug("onboarding api error", "method", method, "path", path, "status", resp.StatusCode)
		return zero, herr
	}
	if decodeErr != nil {
		return zero, fmt.Errorf("decode %s response: %w", path, decodeErr)
	}
	if !env.Success {
		return zero, &EnvelopeError{Message: env.Message}
	}
	return env.Data, nil
}
