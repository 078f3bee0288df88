package alert

import (
	"context"
	"errors"
	"lightwatch/internals/modules/liveness"
)

var (
	ErrQueueFull     = errors.New("alert: queue full, message dropped")
	ErrStopped       = errors.New("alert: service stopped")
	ErrNotConfigured = errors.New("alert: sender not configured")
)

// AlertEvent is one operator message waiting for delivery.
type AlertEvent struct {
	Transition liveness.Transition
	Text       string
}

// Sender delivers an event to one channel. Failures are not retried.
type Sender interface {
	Name() string
	Send(ctx context.Context, evt AlertEvent) error
}

// DeliveryRecorder counts failed deliveries per sender.
type DeliveryRecorder interface {
	DeliveryFailed(sender string)
}
