package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"research-chat/models"
)

type SessionRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{col: db.Collection("sessions"), now: time.Now}
}

// CreateSession inserts a new session seeded with initial and returns its id.
func (r *SessionRepository) CreateSession(ctx context.Context, userID string, initial []models.PersistedMessage) (string, error) {
	now := r.now()
	s := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  initial,
	}
	if s.Messages == nil {
		s.Messages = []models.PersistedMessage{}
	}
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return s.ID, nil
}

// AppendMessages replaces the session's whole message list (last writer wins).
func (r *SessionRepository) AppendMessages(ctx context.Context, userID, sessionID string, messages []models.PersistedMessage) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": sessionID, "user_id": userID},
		bson.M{"$set": bson.M{"messages": messages, "updated_at": r.now()}},
	)
	if err != nil {
		return fmt.Errorf("update session messages: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListSessions returns the user's sessions without their messages, most
// recent first.
func (r *SessionRepository) ListSessions(ctx context.Context, userID string) ([]models.Session, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"messages": 0})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	defer cur.Close(ctx)

	sessions := []models.Session{}
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) GetSession(ctx context.Context, userID, sessionID string) (*models.Session, error) {
	var s models.Session
	err := r.col.FindOne(ctx, bson.M{"_id": sessionID, "user_id": userID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) RenameSession(ctx context.Context, userID, sessionID, title string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": sessionID, "user_id": userID},
		bson.M{"$set": bson.M{"title": title, "updated_at": r.now()}},
	)
	if err != nil {
		return fmt.Errorf("rename session: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteSession(ctx context.Context, userID, sessionID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": sessionID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}
