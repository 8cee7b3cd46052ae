package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"research-chat/events"
)

// ErrMalformedEnvelope is returned for payloads that aren't a chat event envelope.
// Malformed messages go through retries like any other failure and end up in the DLQ.
var ErrMalformedEnvelope = errors.New("malformed chat event envelope")

// newEnvelopeEvent wraps a chat event envelope for the bus with the full retry budget.
// An empty id gets a random one.
func newEnvelopeEvent(id, key string, env events.Envelope) (Event, error) {
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(env)
	if err != nil {
		return Event{}, fmt.Errorf("envelope marshal 실패: %w", err)
	}
	return Event{
		ID:       id,
		Key:      key,
		Payload:  b,
		MaxRetry: len(RetryDelays),
	}, nil
}

// DecodeEnvelope unmarshals evt's payload into a chat event envelope.
func DecodeEnvelope(evt Event) (events.Envelope, error) {
	var env events.Envelope
	if err := json.Unmarshal(evt.Payload, &env); err != nil {
		return events.Envelope{}, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if env.Type == "" || len(env.Data) == 0 {
		return events.Envelope{}, fmt.Errorf("%w: missing type or data", ErrMalformedEnvelope)
	}
	return env, nil
}

// SubscribeChatEvents consumes topic and hands each decoded envelope to handler
// together with the bus metadata (id, retry count).
func SubscribeChatEvents(ctx context.Context, bus EventBus, groupID string, topic Topic, handler func(ctx context.Context, env events.Envelope, meta Event) error) error {
	return bus.Subscribe(ctx, groupID, topic, func(ctx context.Context, evt Event) error {
		env, err := DecodeEnvelope(evt)
		if err != nil {
			return err
		}
		return handler(ctx, env, evt)
	})
}
