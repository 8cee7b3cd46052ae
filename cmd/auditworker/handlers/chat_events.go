package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"research-chat/eventbus"
	"research-chat/events"
	"research-chat/internal/logger"
	"research-chat/models"
)

type ChatEventWriter interface {
	Insert(ctx context.Context, e models.ChatEvent) error
}

// ChatEventHandler stores every chat lifecycle event it receives.
type ChatEventHandler struct {
	writer ChatEventWriter
	now    func() time.Time
}

func NewChatEventHandler(writer ChatEventWriter) *ChatEventHandler {
	return &ChatEventHandler{writer: writer, now: time.Now}
}

// Handle returns an error only for write failures so the bus retries them.
// Events this worker does not know are logged and dropped.
func (h *ChatEventHandler) Handle(ctx context.Context, env events.Envelope, meta eventbus.Event) error {
	decoded, err := events.DeserializeEvent(env)
	if err != nil {
		logger.WarnWithFields("dropping unknown chat event", logger.Fields{
			"event_id": meta.ID,
			"type":     string(env.Type),
			"error":    err.Error(),
		})
		return nil
	}
	base, _ := events.Base(decoded)

	var payload map[string]any
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil
	}

	if err := h.writer.Insert(ctx, models.ChatEvent{
		EventID:    base.ID,
		Type:       string(base.Type),
		UserID:     base.UserID,
		SessionID:  base.SessionID,
		OccurredAt: base.Timestamp,
		Payload:    payload,
		ReceivedAt: h.now(),
	}); err != nil {
		return fmt.Errorf("store chat event %s: %w", base.ID, err)
	}

	logger.DebugWithFields("chat event stored", logger.Fields{
		"event_id":   base.ID,
		"type":       string(base.Type),
		"session_id": base.SessionID,
		"retry":      meta.Retry,
	})
	return nil
}
