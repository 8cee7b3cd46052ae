package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"research-chat/internal/logger"
	"research-chat/models"
)

// Dependencies are shared by every user's workspace.
type Dependencies struct {
	Sessions    SessionStore
	Retriever   Retriever
	Analyzer    Analyzer
	SampleCases SampleCaseGenerator
	Recorder    CallRecorder
	Publisher   EventPublisher
}

// Workspace pairs one user's session manager with their chat orchestrator.
type Workspace struct {
	UserID   string
	Sessions *SessionManager
	Chat     *ChatOrchestrator

	sampleCases SampleCaseGenerator
	recorder    CallRecorder
	now         func() time.Time
}

func NewWorkspace(userID string, deps Dependencies) *Workspace {
	if deps.Recorder == nil {
		deps.Recorder = noopRecorder{}
	}
	sessions := NewSessionManager(userID, deps.Sessions, deps.Publisher)
	return &Workspace{
		UserID:   userID,
		Sessions: sessions,
		Chat: NewChatOrchestrator(userID, sessions, ChatDeps{
			Store:     deps.Sessions,
			Retriever: deps.Retriever,
			Analyzer:  deps.Analyzer,
			Recorder:  deps.Recorder,
			Publisher: deps.Publisher,
		}),
		sampleCases: deps.SampleCases,
		recorder:    deps.Recorder,
		now:         time.Now,
	}
}

// SwitchSession activates the stored session, or a new one when sessionID is empty.
func (w *Workspace) SwitchSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		if err := w.Chat.SelectSession(ctx, nil); err != nil {
			return "", err
		}
		return w.Chat.State().SessionID, nil
	}
	s, err := w.Sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if err := w.Chat.SelectSession(ctx, s); err != nil {
		return "", err
	}
	return s.ID, nil
}

// DeleteSession removes a session. When it was the active one the chat has
// no active session afterwards and the next submit creates a new one. A
// failed store delete leaves the active session untouched.
func (w *Workspace) DeleteSession(ctx context.Context, sessionID string) error {
	return w.Chat.Forget(sessionID, func() error {
		return w.Sessions.Delete(ctx, sessionID)
	})
}

// GenerateSampleCase asks the analysis backend for a sample case text. It
// does not touch the active chat or its loading flags.
func (w *Workspace) GenerateSampleCase(ctx context.Context) (string, error) {
	if w.sampleCases == nil {
		return "", ErrSampleCase
	}
	start := w.now()
	text, err := w.sampleCases.GenerateSampleCase(ctx)
	log := newCallLog(w.UserID, "", models.CallStageSampleCase, "", false, start, w.now(), err)
	if err == nil {
		log.ResponseExcerpt = excerpt(text)
	}
	if rerr := w.recorder.Record(ctx, log); rerr != nil {
		logger.WarnWithFields("call log record failed", logger.Fields{
			"stage": string(models.CallStageSampleCase),
			"error": rerr.Error(),
		})
	}
	if err != nil {
		logger.ErrorWithFields("sample case generation failed", logger.Fields{
			"user_id": w.UserID,
			"error":   err.Error(),
		})
		return "", fmt.Errorf("%w: %w", ErrSampleCase, err)
	}
	return text, nil
}

// Registry hands out one Workspace per user.
type Registry struct {
	deps Dependencies

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(deps Dependencies) *Registry {
	return &Registry{deps: deps, workspaces: make(map[string]*Workspace)}
}

func (r *Registry) Workspace(userID string) (*Workspace, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workspaces[userID]
	if !ok {
		w = NewWorkspace(userID, r.deps)
		r.workspaces[userID] = w
	}
	return w, nil
}
