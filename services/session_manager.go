package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"research-chat/events"
	"research-chat/internal/logger"
	"research-chat/models"
)

// SessionManager keeps one user's session list in sync with the store.
// The in-memory list holds metadata only; message logs are read with Get.
type SessionManager struct {
	userID    string
	store     SessionStore
	publisher EventPublisher
	now       func() time.Time

	mu       sync.RWMutex
	sessions []models.Session
}

func NewSessionManager(userID string, store SessionStore, publisher EventPublisher) *SessionManager {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &SessionManager{
		userID:    userID,
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// Sessions returns the last known list, most recent first.
func (m *SessionManager) Sessions() []models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// List reloads the list from the store.
func (m *SessionManager) List(ctx context.Context) ([]models.Session, error) {
	items, err := m.store.ListSessions(ctx, m.userID)
	if err != nil {
		return nil, storeError("list sessions", err)
	}

	m.mu.Lock()
	m.sessions = items
	m.mu.Unlock()

	return m.Sessions(), nil
}

func (m *SessionManager) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	s, err := m.store.GetSession(ctx, m.userID, sessionID)
	if err != nil {
		return nil, storeError("get session", err)
	}
	return s, nil
}

// Create stores a new session holding only the welcome message.
func (m *SessionManager) Create(ctx context.Context) (string, error) {
	id, _, err := m.create(ctx, false)
	return id, err
}

func (m *SessionManager) create(ctx context.Context, implicit bool) (string, []models.PersistedMessage, error) {
	now := m.now()
	initial := []models.PersistedMessage{models.NewWelcomeMessage(now)}

	id, err := m.store.CreateSession(ctx, m.userID, models.CloneMessages(initial))
	if err != nil {
		return "", nil, storeError("create session", err)
	}

	m.mu.Lock()
	m.sessions = append([]models.Session{{
		ID:        id,
		UserID:    m.userID,
		CreatedAt: now,
		UpdatedAt: now,
	}}, m.sessions...)
	m.mu.Unlock()

	m.publish(ctx, events.SessionCreatedEvent{
		BaseEvent: events.NewBase(events.SessionCreated, m.userID, id, now),
		Implicit:  implicit,
	})
	return id, initial, nil
}

func (m *SessionManager) Rename(ctx context.Context, sessionID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrBlankTitle
	}
	if err := m.store.RenameSession(ctx, m.userID, sessionID, title); err != nil {
		return storeError("rename session", err)
	}

	now := m.now()
	m.mu.Lock()
	for i := range m.sessions {
		if m.sessions[i].ID == sessionID {
			m.sessions[i].Title = title
			m.sessions[i].UpdatedAt = now
		}
	}
	m.mu.Unlock()

	m.publish(ctx, events.SessionRenamedEvent{
		BaseEvent: events.NewBase(events.SessionRenamed, m.userID, sessionID, now),
		Title:     title,
	})
	return nil
}

// Delete removes the session. It never creates a replacement.
func (m *SessionManager) Delete(ctx context.Context, sessionID string) error {
	if err := m.store.DeleteSession(ctx, m.userID, sessionID); err != nil {
		return storeError("delete session", err)
	}

	m.mu.Lock()
	kept := m.sessions[:0]
	for _, s := range m.sessions {
		if s.ID != sessionID {
			kept = append(kept, s)
		}
	}
	m.sessions = kept
	m.mu.Unlock()

	m.publish(ctx, events.SessionDeletedEvent{
		BaseEvent: events.NewBase(events.SessionDeleted, m.userID, sessionID, m.now()),
	})
	return nil
}

func (m *SessionManager) publish(ctx context.Context, event interface{}) {
	if err := m.publisher.PublishChatEvent(ctx, event); err != nil {
		logger.WarnWithFields("chat event publish failed", logger.Fields{
			"user_id": m.userID,
			"event":   fmt.Sprintf("%T", event),
			"error":   err.Error(),
		})
	}
}

// storeError keeps not-found/duplicate errors matchable and tags everything else as ErrPersistence.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrTemplateNotFound), errors.Is(err, ErrDuplicateTemplate):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, ErrPersistence):
		return err
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}
}
