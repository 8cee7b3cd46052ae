package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-chat/events"
)

func TestTopicNames(t *testing.T) {
	topic := ChatTopic("")
	assert.Equal(t, DefaultChatTopic, topic.Base())
	assert.Equal(t, "research-chat.events.dlq", topic.DLQ())
	assert.Equal(t, []string{
		"research-chat.events.retry.5s",
		"research-chat.events.retry.30s",
		"research-chat.events.retry.2m0s",
	}, topic.RetryTopics())

	_, err := topic.RetryTopic(0)
	assert.ErrorIs(t, err, ErrMaxRetryExceeded)
	_, err = topic.RetryTopic(len(RetryDelays) + 1)
	assert.ErrorIs(t, err, ErrMaxRetryExceeded)
}

func TestRetryDelayFromTopic(t *testing.T) {
	tests := []struct {
		name   string
		topic  string
		want   time.Duration
		wantOK bool
	}{
		{"seconds", "research-chat.events.retry.5s", 5 * time.Second, true},
		{"minutes", "research-chat.events.retry.2m0s", 2 * time.Minute, true},
		{"base topic", "research-chat.events", 0, false},
		{"empty suffix", "research-chat.events.retry.", 0, false},
		{"garbage suffix", "research-chat.events.retry.soon", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RetryDelayFromTopic(tt.topic)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	// every generated retry topic parses back to its delay
	for i, name := range ChatTopic("x").RetryTopics() {
		d, ok := RetryDelayFromTopic(name)
		require.True(t, ok)
		assert.Equal(t, RetryDelays[i], d)
	}
}

func TestNextDestination(t *testing.T) {
	topic := ChatTopic("")
	cause := errors.New("mongo down")

	dest, evt := nextDestination(topic, Event{ID: "e1", MaxRetry: 3}, cause)
	assert.Equal(t, "research-chat.events.retry.5s", dest)
	assert.Equal(t, 1, evt.Retry)
	assert.Equal(t, "mongo down", evt.LastError)

	dest, evt = nextDestination(topic, Event{ID: "e1", Retry: 2, MaxRetry: 3}, cause)
	assert.Equal(t, "research-chat.events.retry.2m0s", dest)
	assert.Equal(t, 3, evt.Retry)

	dest, _ = nextDestination(topic, Event{ID: "e1", Retry: 3, MaxRetry: 3}, cause)
	assert.Equal(t, topic.DLQ(), dest)

	dest, _ = nextDestination(topic, Event{ID: "e1", Retry: 1, MaxRetry: 1}, cause)
	assert.Equal(t, topic.DLQ(), dest)
}

type recordingPublisher struct {
	topic string
	event Event
	err   error
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, event Event) error {
	r.topic = topic
	r.event = event
	return r.err
}

func TestChatEventPublisher(t *testing.T) {
	bus := &recordingPublisher{}
	p := NewChatEventPublisher(bus, ChatTopic("chat"))
	now := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)

	evt := events.SessionRenamedEvent{
		BaseEvent: events.NewBase(events.SessionRenamed, "u1", "s1", now),
		Title:     "Neuroblastoma",
	}
	require.NoError(t, p.PublishChatEvent(context.Background(), evt))

	assert.Equal(t, "chat", bus.topic)
	assert.Equal(t, evt.ID, bus.event.ID)
	assert.Equal(t, "s1", bus.event.PartitionKey())

	env, err := DecodeEnvelope(bus.event)
	require.NoError(t, err)
	decoded, err := events.DeserializeEvent(env)
	require.NoError(t, err)
	renamed, ok := decoded.(*events.SessionRenamedEvent)
	require.True(t, ok)
	assert.Equal(t, "Neuroblastoma", renamed.Title)

	assert.Error(t, p.PublishChatEvent(context.Background(), "not an event"))

	bus.err = errors.New("broker down")
	assert.EqualError(t, p.PublishChatEvent(context.Background(), evt), "broker down")
}

func TestPartitionKeyFallsBackToID(t *testing.T) {
	assert.Equal(t, "id-1", Event{ID: "id-1"}.PartitionKey())
	assert.Equal(t, "k", Event{ID: "id-1", Key: "k"}.PartitionKey())
}

func TestDecodeEnvelopeRejectsMalformed(t *testing.T) {
	for _, payload := range []string{`not json`, `{}`, `{"type":"session.created"}`} {
		_, err := DecodeEnvelope(Event{ID: "e", Payload: []byte(payload)})
		assert.ErrorIs(t, err, ErrMalformedEnvelope, payload)
	}
}

func TestNewEnvelopeEventDefaults(t *testing.T) {
	evt, err := newEnvelopeEvent("", "s1", events.Envelope{Type: events.SessionDeleted, Data: []byte(`{}`)})
	require.NoError(t, err)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, len(RetryDelays), evt.MaxRetry)
	assert.Equal(t, "s1", evt.PartitionKey())
}
