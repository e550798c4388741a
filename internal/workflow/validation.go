package workflow

import (
	"context"
	"errors"

	"github.com/GregMSThompson/onboarding/internal/client/onboarding"
	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/pkg/logger"
)

const (
	msgSelectBankAndAccount = "Please select a bank and enter account number"
	msgAccountLength        = "Account number must be 10 digits"
	msgInvalidAccount       = "Invalid account details"
	msgValidateFailed       = "Failed to validate account"
)

// accountChangedLocked runs after every bank or account edit. Any resolved
// name belongs to the old pair, so it goes, and the debounce restarts when
// the new pair is complete. Caller holds w.mu.
func (w *Workflow) accountChangedLocked() {
	w.accountGen++
	w.accountName = ""
	w.form.AccountName = ""
	w.validationError = ""
	if w.debounce != nil {
		w.debounce.Stop()
		w.debounce = nil
	}
	w.state = Idle

	if w.form.BankID == "" || !dto.IsAccountNumber(w.form.AccountNumber) {
		return
	}
	gen := w.accountGen
	w.debounce = w.sched.AfterFunc(DebounceDelay, func() {
		w.validate(w.ctx, gen, true)
	})
}

// validate resolves the account name for the pair identified by gen and
// reports whether it succeeded. Preconditions are checked before any
// network call. A result is discarded, and counts as a failure, when the
// pair changed or a newer validation was started while it was in flight.
// Debounced (auto) validations never touch state once Submit has begun.
func (w *Workflow) validate(ctx context.Context, gen uint64, auto bool) bool {
	w.mu.Lock()
	if gen != w.accountGen || (auto && w.submitLockedOut()) {
		w.mu.Unlock()
		return false
	}
	bank, account := w.form.BankID, w.form.AccountNumber
	switch {
	case bank == "" || account == "":
		w.validationFailedLocked(msgSelectBankAndAccount)
		w.mu.Unlock()
		w.notify()
		return false
	case !dto.IsAccountNumber(account):
		w.validationFailedLocked(msgAccountLength)
		w.mu.Unlock()
		w.notify()
		return false
	}
	w.validationSeq++
	seq := w.validationSeq
	w.state = Validating
	w.mu.Unlock()
	w.notify()

	resp, err := w.api.ValidateAccount(ctx, bank, account)

	w.mu.Lock()
	if gen != w.accountGen || seq != w.validationSeq || (auto && w.submitLockedOut()) {
		w.mu.Unlock()
		logger.FromContext(ctx).Debug("discarding stale account validation", "bank_id", bank)
		return false
	}
	if err != nil {
		msg := msgValidateFailed
		var envErr *onboarding.EnvelopeError
		if errors.As(err, &envErr) {
			msg = msgInvalidAccount
		}
		logger.FromContext(ctx).Warn("account validation failed", "bank_id", bank, "err", err)
		w.validationFailedLocked(msg)
		w.mu.Unlock()
		w.notify()
		return false
	}

	w.accountName = resp.AccountName
	w.form.AccountName = resp.AccountName
	w.validationError = ""
	w.state = Validated
	w.mu.Unlock()
	w.notify()
	return true
}

// submitLockedOut reports whether Submit owns the account state. Caller
// holds w.mu.
func (w *Workflow) submitLockedOut() bool {
	return w.submitting || w.state == Submitting || w.state == SubmitSucceeded
}

// Caller holds w.mu.
func (w *Workflow) validationFailedLocked(msg string) {
	w.accountName = ""
	w.form.AccountName = ""
	w.validationError = msg
	w.state = ValidationFailed
	w.showToast(msg, ToastError)
}
