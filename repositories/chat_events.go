package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"research-chat/models"
)

type ChatEventRepository struct {
	col *mongo.Collection
}

func NewChatEventRepository(db *mongo.Database) *ChatEventRepository {
	return &ChatEventRepository{col: db.Collection("chat_events")}
}

// Insert stores e. A redelivered event (same event_id) is ignored.
func (r *ChatEventRepository) Insert(ctx context.Context, e models.ChatEvent) error {
	_, err := r.col.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}
