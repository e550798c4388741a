package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GregMSThompson/onboarding/internal/errs"
	"github.com/GregMSThompson/onboarding/pkg/logger"
)

type fakeResolver struct {
	name  string
	err   error
	calls atomic.Int32
	gate  chan struct{}
	// ctxErr is the context error seen once the gate opens
	ctxErr error
}

func (f *fakeResolver) ResolveAccountName(ctx context.Context, bankCode, accountNumber string) (string, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.ctxErr = ctx.Err()
	return f.name, f.err
}

func TestAccountServicePreconditions(t *testing.T) {
	tests := []struct {
		name    string
		bank    string
		account string
		want    string
	}{
		{name: "missing bank", bank: "", account: "0123456789", want: "Bank code and account number are required"},
		{name: "missing account", bank: "1", account: "", want: "Bank code and account number are required"},
		{name: "short account", bank: "1", account: "12345", want: "Account number must be 10 digits"},
		{name: "long account", bank: "1", account: "01234567890", want: "Account number must be 10 digits"},
		{name: "non-digit account", bank: "1", account: "01234567a9", want: "Account number must be 10 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &fakeResolver{name: "John Doe"}
			svc := NewAccountService(res, newFakeCache(), time.Hour, nil)

			_, err := svc.ValidateAccount(logger.ToContext(context.Background(), testLogger()), tt.bank, tt.account)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) || ve.Message != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
			if res.calls.Load() != 0 {
				t.Fatalf("resolver must not be called on precondition failure")
			}
		})
	}
}

func TestAccountServiceUsesCache(t *testing.T) {
	res := &fakeResolver{name: "John Doe"}
	c := newFakeCache()
	svc := NewAccountService(res, c, time.Hour, nil)
	ctx := logger.ToContext(context.Background(), testLogger())

	for i := 0; i < 2; i++ {
		name, err := svc.ValidateAccount(ctx, "1", "0123456789")
		if err != nil || name != "John Doe" {
			t.Fatalf("got %q, %v", name, err)
		}
	}
	if res.calls.Load() != 1 {
		t.Fatalf("expected one resolver call, got %d", res.calls.Load())
	}
	if c.data["acctname:1:0123456789"] != "John Doe" {
		t.Fatalf("unexpected cache contents: %#v", c.data)
	}
}

func TestAccountServiceDoesNotCacheFailures(t *testing.T) {
	res := &fakeResolver{err: errs.NewValidationError("Invalid account details")}
	c := newFakeCache()
	svc := NewAccountService(res, c, time.Hour, nil)

	_, err := svc.ValidateAccount(logger.ToContext(context.Background(), testLogger()), "1", "0123456789")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(c.data) != 0 {
		t.Fatalf("failures must not be cached: %#v", c.data)
	}
}

func TestAccountServiceCollapsesConcurrentLookups(t *testing.T) {
	res := &fakeResolver{name: "Jane Smith", gate: make(chan struct{})}
	svc := NewAccountService(res, newFakeCache(), time.Hour, nil)
	ctx := logger.ToContext(context.Background(), testLogger())

	const callers = 5
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = svc.ValidateAccount(ctx, "2", "9876543210")
		}(i)
	}

	// let the first caller reach the resolver before releasing it
	for res.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(res.gate)
	wg.Wait()

	if got := res.calls.Load(); got != 1 {
		t.Fatalf("expected one resolver call, got %d", got)
	}
	for i, r := range results {
		if r != "Jane Smith" {
			t.Fatalf("caller %d got %q", i, r)
		}
	}
}

func TestAccountServiceSharedLookupSurvivesCallerCancel(t *testing.T) {
	res := &fakeResolver{name: "Jane Smith", gate: make(chan struct{})}
	svc := NewAccountService(res, newFakeCache(), time.Hour, nil)
	base := logger.ToContext(context.Background(), testLogger())
	first, cancel := context.WithCancel(base)

	var wg sync.WaitGroup
	var second string
	var secondErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = svc.ValidateAccount(first, "2", "9876543210")
	}()
	for res.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	go func() {
		defer wg.Done()
		second, secondErr = svc.ValidateAccount(base, "2", "9876543210")
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	close(res.gate)
	wg.Wait()

	if res.ctxErr != nil {
		t.Fatalf("resolver saw a cancelled context: %v", res.ctxErr)
	}
	if secondErr != nil || second != "Jane Smith" {
		t.Fatalf("second caller got %q, %v", second, secondErr)
	}
}
