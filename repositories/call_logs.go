package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"research-chat/models"
)

type CallLogRepository struct {
	col *mongo.Collection
}

func NewCallLogRepository(db *mongo.Database) *CallLogRepository {
	return &CallLogRepository{col: db.Collection("call_logs")}
}

func (r *CallLogRepository) Record(ctx context.Context, log models.CallLog) error {
	if log.RequestedAt.IsZero() {
		log.RequestedAt = time.Now()
	}
	_, err := r.col.InsertOne(ctx, log)
	return err
}
