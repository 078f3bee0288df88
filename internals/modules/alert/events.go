package alert

import (
	"context"
	"time"

	"lightwatch/internals/modules/liveness"
	"lightwatch/pkg/rabbitmq"
)

type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// TransitionEvent is the payload published for every announced transition.
type TransitionEvent struct {
	Kind        string    `json:"kind"`
	At          time.Time `json:"at"`
	ReferenceAt time.Time `json:"reference_at"`
	DurationSec int64     `json:"duration_sec"`
	HasDuration bool      `json:"has_duration"`
	Text        string    `json:"text"`
}

// EventSender fans transitions out to a message broker.
type EventSender struct {
	publisher Publisher
}

func NewEventSender(publisher Publisher) *EventSender {
	return &EventSender{publisher: publisher}
}

func (e *EventSender) Name() string { return "rabbitmq" }

func (e *EventSender) Send(ctx context.Context, evt AlertEvent) error {
	tr := evt.Transition
	body, err := rabbitmq.NewEvent(eventType(tr.Kind), TransitionEvent{
		Kind:        string(tr.Kind),
		At:          tr.At,
		ReferenceAt: tr.Reference,
		DurationSec: int64(tr.Duration / time.Second),
		HasDuration: tr.HasDuration,
		Text:        evt.Text,
	})
	if err != nil {
		return err
	}
	return e.publisher.Publish(ctx, body)
}

func eventType(kind liveness.TransitionKind) string {
	return "light." + string(kind)
}
