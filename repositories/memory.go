package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"research-chat/models"
)

// maxMemoryCallLogs bounds the call logs kept by MemoryStore; older entries are dropped.
const maxMemoryCallLogs = 1000

// MemoryStore keeps sessions, templates and call logs in process memory.
// It backs the "memory" storage backend and the unit tests.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string][]*models.Session // per user, most recent first
	templates map[string]*models.Template
	callLogs  []models.CallLog
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[string][]*models.Session),
		templates: make(map[string]*models.Template),
		now:       time.Now,
	}
}

func (s *MemoryStore) CreateSession(_ context.Context, userID string, initial []models.PersistedMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  models.CloneMessages(initial),
	}
	s.sessions[userID] = append([]*models.Session{sess}, s.sessions[userID]...)
	return sess.ID, nil
}

func (s *MemoryStore) AppendMessages(_ context.Context, userID, sessionID string, messages []models.PersistedMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(userID, sessionID)
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.Messages = models.CloneMessages(messages)
	sess.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) ListSessions(_ context.Context, userID string) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Session, 0, len(s.sessions[userID]))
	for _, sess := range s.sessions[userID] {
		c := *sess
		c.Messages = nil
		out = append(out, c)
	}
	return out, nil
}

func (s *MemoryStore) GetSession(_ context.Context, userID, sessionID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := s.findLocked(userID, sessionID)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	c := copySession(sess)
	return &c, nil
}

func (s *MemoryStore) RenameSession(_ context.Context, userID, sessionID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(userID, sessionID)
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.Title = title
	sess.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.sessions[userID]
	for i, sess := range list {
		if sess.ID == sessionID {
			s.sessions[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrSessionNotFound
}

func (s *MemoryStore) findLocked(userID, sessionID string) *models.Session {
	for _, sess := range s.sessions[userID] {
		if sess.ID == sessionID {
			return sess
		}
	}
	return nil
}

func copySession(s *models.Session) models.Session {
	c := *s
	c.Messages = models.CloneMessages(s.Messages)
	return c
}

func (s *MemoryStore) ListTemplates(_ context.Context) ([]models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) GetTemplate(_ context.Context, id string) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	c := *t
	return &c, nil
}

func (s *MemoryStore) InsertTemplate(_ context.Context, t *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTakenLocked(t.Name, "") {
		return ErrDuplicateTemplate
	}
	now := s.now()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	c := *t
	s.templates[t.ID] = &c
	return nil
}

func (s *MemoryStore) ReplaceTemplate(_ context.Context, t *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.templates[t.ID]
	if !ok {
		return ErrTemplateNotFound
	}
	if s.nameTakenLocked(t.Name, t.ID) {
		return ErrDuplicateTemplate
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = s.now()
	c := *t
	s.templates[t.ID] = &c
	return nil
}

func (s *MemoryStore) DeleteTemplate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return ErrTemplateNotFound
	}
	delete(s.templates, id)
	return nil
}

func (s *MemoryStore) nameTakenLocked(name, exceptID string) bool {
	for id, t := range s.templates {
		if id != exceptID && strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) Record(_ context.Context, log models.CallLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if log.RequestedAt.IsZero() {
		log.RequestedAt = s.now()
	}
	if log.ErrorMessage != nil {
		msg := *log.ErrorMessage
		log.ErrorMessage = &msg
	}
	s.callLogs = append(s.callLogs, log)
	if over := len(s.callLogs) - maxMemoryCallLogs; over > 0 {
		s.callLogs = append(s.callLogs[:0:0], s.callLogs[over:]...)
	}
	return nil
}

// CallLogs returns the recorded calls for sessionID, oldest first. An empty
// sessionID matches calls made outside a session.
func (s *MemoryStore) CallLogs(sessionID string) []models.CallLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.CallLog{}
	for _, l := range s.callLogs {
		if l.SessionID == sessionID {
			out = append(out, l)
		}
	}
	return out
}
