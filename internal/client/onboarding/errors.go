package onboarding

import (
	"errors"
	"fmt"
)

// HTTPError is a non-2xx response. Message holds the envelope message when
// the body could be decoded.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("onboarding api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("onboarding api: status %d: %s", e.StatusCode, e.Message)
}

// EnvelopeError is a 2xx response whose envelope reported success=false.
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string {
	return "onboarding api: " + e.Message
}

// ServerMessage returns the message the server attached to err, if any.
func ServerMessage(err error) string {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Message
	}
	var ee *EnvelopeError
	if errors.As(err, &ee) {
		return ee.Message
	}
	return ""
}
