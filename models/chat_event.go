package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatEvent is the audit copy of one chat lifecycle event.
// Collection: chat_events
type ChatEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID    string             `bson:"event_id" json:"event_id"`
	Type       string             `bson:"type" json:"type"`
	UserID     string             `bson:"user_id" json:"user_id"`
	SessionID  string             `bson:"session_id" json:"session_id"`
	OccurredAt time.Time          `bson:"occurred_at" json:"occurred_at"`
	Payload    map[string]any     `bson:"payload" json:"payload"`
	ReceivedAt time.Time          `bson:"received_at" json:"received_at"`
}
