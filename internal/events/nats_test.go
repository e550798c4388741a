package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/GregMSThompson/onboarding/internal/dto"
)

type fakeConn struct {
	subject string
	data    []byte
	err     error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = data
	return f.err
}

func TestRegistrationCompletedPublishesJSON(t *testing.T) {
	fc := &fakeConn{}
	p := &natsPublisher{nc: fc}

	err := p.RegistrationCompleted(context.Background(), dto.RegistrationCompletedEvent{
		RegistrationID: "reg-1",
		Provider:       "parallex",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.subject != SubjectRegistrationCompleted {
		t.Fatalf("subject = %q", fc.subject)
	}

	var got dto.RegistrationCompletedEvent
	if err := json.Unmarshal(fc.data, &got); err != nil {
		t.Fatalf("payload not json: %v", err)
	}
	if got.RegistrationID != "reg-1" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestRegistrationCompletedErrors(t *testing.T) {
	boom := errors.New("boom")
	p := &natsPublisher{nc: &fakeConn{err: boom}}
	if err := p.RegistrationCompleted(context.Background(), dto.RegistrationCompletedEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped publish error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fc := &fakeConn{}
	p = &natsPublisher{nc: fc}
	if err := p.RegistrationCompleted(ctx, dto.RegistrationCompletedEvent{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if fc.subject != "" {
		t.Fatalf("cancelled publish reached the connection")
	}
}
