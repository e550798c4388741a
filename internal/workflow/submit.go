package workflow

import (
	"context"
	"fmt"

	"github.com/GregMSThompson/onboarding/internal/client/onboarding"
	"github.com/GregMSThompson/onboarding/pkg/logger"
	"github.com/GregMSThompson/onboarding/pkg/storage"
)

const (
	msgRequiredFields = "Please fill in all required fields"
	msgSubmitFailed   = "Registration failed"
	msgSubmitOK       = "Registration successful!"
)

// Submit re-validates the current bank/account pair, then registers. The
// form is locked from the moment registration starts until it finishes.
// On success the response and token are persisted and navigation to
// HomePath follows after NavigateDelay.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	if err := w.editableLocked(); err != nil {
		w.mu.Unlock()
		return err
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrLocked
	}
	if !w.checkRequiredLocked() {
		w.showToast(msgRequiredFields, ToastError)
		w.mu.Unlock()
		w.notify()
		return ErrValidationFailed
	}
	if w.debounce != nil {
		w.debounce.Stop()
		w.debounce = nil
	}
	gen := w.accountGen
	w.submitting = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	if !w.validate(ctx, gen, false) {
		return ErrValidationFailed
	}

	w.mu.Lock()
	// an edit between validation and here invalidates the resolved name
	if gen != w.accountGen {
		w.mu.Unlock()
		return ErrValidationFailed
	}
	w.state = Submitting
	form := w.form
	provider := w.provider
	w.mu.Unlock()
	w.notify()

	log, ctx := logger.With(ctx, "provider", provider)
	resp, err := w.api.Register(ctx, provider, form)
	if err != nil {
		log.Warn("registration failed", "err", err)
		msg := msgSubmitFailed
		if server := onboarding.ServerMessage(err); server != "" {
			msg += " " + server
		}
		w.mu.Lock()
		w.state = SubmitFailed
		w.showToast(msg, ToastError)
		w.mu.Unlock()
		w.notify()
		return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	if resp != nil {
		if payload, err := resp.JSON(); err == nil {
			w.store.Set(ctx, storage.KeyUser, string(payload))
		}
	}
	if token := resp.AuthToken(); token != "" {
		w.store.Set(ctx, storage.KeyAuthToken, token)
	}
	log.Info("registration completed")

	w.mu.Lock()
	w.state = SubmitSucceeded
	w.showToast(msgSubmitOK, ToastSuccess)
	w.sched.AfterFunc(NavigateDelay, func() {
		w.nav.Navigate(HomePath)
	})
	w.mu.Unlock()
	w.notify()
	return nil
}
