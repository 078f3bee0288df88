package rabbitmq

import (
	"encoding/json"

	"github.com/google/uuid"
)

// EventPayload is the envelope of every message on the exchange.
type EventPayload struct {
	ID      uuid.UUID       `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func NewEvent(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventPayload{
		ID:      uuid.New(),
		Type:    eventType,
		Payload: raw,
	})
}
