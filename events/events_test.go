package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeChatEvents(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event interface{}
		want  EventType
	}{
		{"created", SessionCreatedEvent{BaseEvent: NewBase(SessionCreated, "u1", "s1", now), Implicit: true}, SessionCreated},
		{"renamed", SessionRenamedEvent{BaseEvent: NewBase(SessionRenamed, "u1", "s1", now), Title: "Neuro"}, SessionRenamed},
		{"deleted", SessionDeletedEvent{BaseEvent: NewBase(SessionDeleted, "u1", "s1", now)}, SessionDeleted},
		{"submission", SubmissionCompletedEvent{BaseEvent: NewBase(SubmissionCompleted, "u1", "s1", now), Outcome: "completed"}, SubmissionCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := SerializeEvent(tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, env.Type)

			// survives the trip through a kafka payload
			raw, err := json.Marshal(env)
			require.NoError(t, err)
			var back Envelope
			require.NoError(t, json.Unmarshal(raw, &back))

			decoded, err := DeserializeEvent(back)
			require.NoError(t, err)
			base, ok := Base(decoded)
			require.True(t, ok)
			assert.Equal(t, "s1", base.SessionID)
			assert.Equal(t, "u1", base.UserID)
			assert.Equal(t, SourceAPI, base.Source)
		})
	}
}

func TestSerializeRejectsUnknownEvent(t *testing.T) {
	_, err := SerializeEvent(struct{}{})
	assert.Error(t, err)

	_, err = DeserializeEvent(Envelope{Type: "post.created", Data: []byte(`{}`)})
	assert.Error(t, err)
}
