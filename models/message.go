package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageType distinguishes the kinds of records stored in a session's message log.
type MessageType string

const (
	MessageTypeMessage   MessageType = "message"
	MessageTypeDocuments MessageType = "documents"
	MessageTypeAnalysis  MessageType = "analysis"
	MessageTypeError     MessageType = "error"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// WelcomeText is the greeting every session starts with.
const WelcomeText = "Hello! Go ahead and search clinical research material of interest."

// Message id kinds. They only show up inside ids and logs.
const (
	IDKindUser      = "user"
	IDKindDocuments = "assistant-docs"
	IDKindAnalysis  = "analysis"
	IDKindError     = "error"
)

// PersistedMessage is one record of a session's append-only message log.
// Collection: sessions (embedded in sessions.messages)
type PersistedMessage struct {
	MessageID string      `bson:"message_id" json:"message_id"`
	Type      MessageType `bson:"type" json:"type"`
	Role      Role        `bson:"role" json:"role"`
	Content   string      `bson:"content" json:"content"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
}

// NewMessageID returns "<unix ms>-<kind>-<9 chars>", unique within a session.
func NewMessageID(kind string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), kind, suffix)
}

// NewWelcomeMessage builds the synthetic assistant greeting stored at session creation.
func NewWelcomeMessage(now time.Time) PersistedMessage {
	return PersistedMessage{
		MessageID: fmt.Sprintf("welcome-%d", now.UnixMilli()),
		Type:      MessageTypeMessage,
		Role:      RoleAssistant,
		Content:   WelcomeText,
		Timestamp: now,
	}
}

// IsWelcome reports whether m is a greeting record.
func (m PersistedMessage) IsWelcome() bool {
	return m.Type == MessageTypeMessage && m.Content == WelcomeText
}

// CloneMessages copies a message slice so callers can't alias the log.
func CloneMessages(in []PersistedMessage) []PersistedMessage {
	if in == nil {
		return nil
	}
	out := make([]PersistedMessage, len(in))
	copy(out, in)
	return out
}
