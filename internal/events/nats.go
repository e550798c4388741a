package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/GregMSThompson/onboarding/internal/dto"
)

const SubjectRegistrationCompleted = "onboarding.registration.completed"

type Publisher interface {
	RegistrationCompleted(ctx context.Context, evt dto.RegistrationCompletedEvent) error
}

// conn is the slice of *nats.Conn we publish through.
type conn interface {
	Publish(subject string, data []byte) error
}

type natsPublisher struct {
	nc conn
}

func NewNATSPublisher(nc *nats.Conn) *natsPublisher {
	return &natsPublisher{nc: nc}
}

// Publish is fire-and-forget on core NATS, so ctx is only checked up front.
func (p *natsPublisher) RegistrationCompleted(ctx context.Context, evt dto.RegistrationCompletedEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish cancelled: %w", err)
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.nc.Publish(SubjectRegistrationCompleted, data); err != nil {
		return fmt.Errorf("publish %s: %w", SubjectRegistrationCompleted, err)
	}
	return nil
}

type nopPublisher struct{}

func NewNopPublisher() nopPublisher { return nopPublisher{} }

func (nopPublisher) RegistrationCompleted(context.Context, dto.RegistrationCompletedEvent) error {
	return nil
}
