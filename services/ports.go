package services

import (
	"context"

	"research-chat/models"
)

// SessionStore persists sessions per user. AppendMessages replaces the whole
// message list; the last writer wins.
type SessionStore interface {
	CreateSession(ctx context.Context, userID string, initial []models.PersistedMessage) (string, error)
	AppendMessages(ctx context.Context, userID, sessionID string, messages []models.PersistedMessage) error
	// ListSessions returns summaries without messages, most recent first.
	ListSessions(ctx context.Context, userID string) ([]models.Session, error)
	GetSession(ctx context.Context, userID, sessionID string) (*models.Session, error)
	RenameSession(ctx context.Context, userID, sessionID, title string) error
	DeleteSession(ctx context.Context, userID, sessionID string) error
}

type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]models.Template, error)
	GetTemplate(ctx context.Context, id string) (*models.Template, error)
	InsertTemplate(ctx context.Context, t *models.Template) error
	ReplaceTemplate(ctx context.Context, t *models.Template) error
	DeleteTemplate(ctx context.Context, id string) error
}

// Retriever finds documents relevant to a query.
type Retriever interface {
	Search(ctx context.Context, query string) ([]models.Document, error)
}

// Analyzer produces the analysis text for a query. An empty templateContent
// means no template context.
type Analyzer interface {
	Analyze(ctx context.Context, query, templateContent string) (string, error)
}

type SampleCaseGenerator interface {
	GenerateSampleCase(ctx context.Context) (string, error)
}

type CallRecorder interface {
	Record(ctx context.Context, log models.CallLog) error
}

type EventPublisher interface {
	PublishChatEvent(ctx context.Context, event interface{}) error
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, models.CallLog) error { return nil }

type noopPublisher struct{}

func (noopPublisher) PublishChatEvent(context.Context, interface{}) error { return nil }

