package workflow

type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

func (k ToastKind) String() string {
	if k == ToastSuccess {
		return "success"
	}
	return "error"
}

// Toast is the latest user notification. Only one is visible at a time.
type Toast struct {
	Message string
	Kind    ToastKind
}

// showToast replaces the current toast and restarts the dismiss timer.
// Caller holds w.mu.
func (w *Workflow) showToast(message string, kind ToastKind) {
	if w.toastTimer != nil {
		w.toastTimer.Stop()
	}
	w.toastSeq++
	seq := w.toastSeq
	w.toast = &Toast{Message: message, Kind: kind}

	w.toastTimer = w.sched.AfterFunc(ToastDuration, func() {
		w.mu.Lock()
		if w.toastSeq == seq {
			w.toast = nil
		}
		w.mu.Unlock()
		w.notify()
	})
}

// DismissToast hides the current toast early.
func (w *Workflow) DismissToast() {
	w.mu.Lock()
	if w.toastTimer != nil {
		w.toastTimer.Stop()
	}
	w.toastSeq++
	w.toast = nil
	w.mu.Unlock()
	w.notify()
}
