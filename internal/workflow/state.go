package workflow

type State int

const (
	Idle State = iota
	Validating
	ValidationFailed
	Validated
	Submitting
	SubmitFailed
	SubmitSucceeded
)

var stateNames = [...]string{
	Idle:             "idle",
	Validating:       "validating",
	ValidationFailed: "validation_failed",
	Validated:        "validated",
	Submitting:       "submitting",
	SubmitFailed:     "submit_failed",
	SubmitSucceeded:  "submit_succeeded",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
