package eventbus

import (
	"context"
	"fmt"
	"time"

	"research-chat/events"
)

// Publisher is the publishing half of EventBus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

// ChatEventPublisher sends chat lifecycle events to the chat topic, keyed by
// session so one session's events stay ordered.
type ChatEventPublisher struct {
	bus     Publisher
	topic   Topic
	timeout time.Duration
}

func NewChatEventPublisher(bus Publisher, topic Topic) *ChatEventPublisher {
	return &ChatEventPublisher{bus: bus, topic: topic, timeout: 5 * time.Second}
}

func (p *ChatEventPublisher) PublishChatEvent(ctx context.Context, event interface{}) error {
	base, ok := events.Base(event)
	if !ok {
		return fmt.Errorf("unsupported chat event %T", event)
	}
	env, err := events.SerializeEvent(event)
	if err != nil {
		return err
	}
	evt, err := newEnvelopeEvent(base.ID, base.SessionID, env)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.bus.Publish(ctx, p.topic.Base(), evt)
}
