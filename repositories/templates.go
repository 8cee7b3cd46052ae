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

type TemplateRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewTemplateRepository(db *mongo.Database) *TemplateRepository {
	return &TemplateRepository{col: db.Collection("templates"), now: time.Now}
}

// ListTemplates returns every template ordered by name.
func (r *TemplateRepository) ListTemplates(ctx context.Context) ([]models.Template, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find templates: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Template{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	return out, nil
}

func (r *TemplateRepository) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	var t models.Template
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find template: %w", err)
	}
	return &t, nil
}

// InsertTemplate assigns an id and timestamps to t and stores it.
func (r *TemplateRepository) InsertTemplate(ctx context.Context, t *models.Template) error {
	now := r.now()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTemplate
		}
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// ReplaceTemplate overwrites name and content of an existing template and
// reloads t from the stored document.
func (r *TemplateRepository) ReplaceTemplate(ctx context.Context, t *models.Template) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": t.ID},
		bson.M{"$set": bson.M{"name": t.Name, "content": t.Content, "updated_at": r.now()}},
		opts,
	).Decode(t)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrTemplateNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateTemplate
	default:
		return fmt.Errorf("replace template: %w", err)
	}
}

func (r *TemplateRepository) DeleteTemplate(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
