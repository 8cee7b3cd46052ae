package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"research-chat/events"
	"research-chat/internal/logger"
	"research-chat/models"
	"research-chat/transcript"
)

const (
	RetrievalErrorText = "I'm sorry, there was an error retrieving documents. Please try again."
	AnalysisErrorText  = "I'm sorry, there was an error generating the analysis. Please try again."
)

type Outcome string

const (
	OutcomeCompleted       Outcome = "completed"
	OutcomeRetrievalFailed Outcome = "retrieval_failed"
	OutcomeAnalysisFailed  Outcome = "analysis_failed"
)

// SubmitResult reports how a submission ended. Err carries the collaborator
// failure (wrapping ErrRetrieval or ErrAnalysis); it is already in the transcript.
type SubmitResult struct {
	SessionID string  `json:"session_id"`
	Outcome   Outcome `json:"outcome"`
	Err       error   `json:"-"`
}

// ChatState is a snapshot of the active chat.
type ChatState struct {
	SessionID        string                      `json:"session_id"`
	Messages         []models.PersistedMessage   `json:"messages"`
	Transcript       []transcript.DisplayMessage `json:"transcript"`
	LoadingDocuments bool                        `json:"loading_documents"`
	LoadingAnalysis  bool                        `json:"loading_analysis"`
}

type ChatDeps struct {
	Store     SessionStore
	Retriever Retriever
	Analyzer  Analyzer
	Recorder  CallRecorder
	Publisher EventPublisher
}

// ChatOrchestrator runs one user's submissions against the active session.
// Collaborator calls happen outside mu; busy spans a whole submission.
type ChatOrchestrator struct {
	userID    string
	sessions  *SessionManager
	store     SessionStore
	retriever Retriever
	analyzer  Analyzer
	recorder  CallRecorder
	publisher EventPublisher
	now       func() time.Time

	mu               sync.Mutex
	busy             bool
	sessionID        string
	messages         []models.PersistedMessage
	loadingDocuments bool
	loadingAnalysis  bool
	subs             map[int]chan ChatState
	nextSub          int
}

func NewChatOrchestrator(userID string, sessions *SessionManager, deps ChatDeps) *ChatOrchestrator {
	if deps.Recorder == nil {
		deps.Recorder = noopRecorder{}
	}
	if deps.Publisher == nil {
		deps.Publisher = noopPublisher{}
	}
	return &ChatOrchestrator{
		userID:    userID,
		sessions:  sessions,
		store:     deps.Store,
		retriever: deps.Retriever,
		analyzer:  deps.Analyzer,
		recorder:  deps.Recorder,
		publisher: deps.Publisher,
		now:       time.Now,
		subs:      make(map[int]chan ChatState),
	}
}

// Submit runs retrieval then analysis for text. Collaborator failures end up
// as error records in the transcript; only rejections are returned as errors.
func (o *ChatOrchestrator) Submit(ctx context.Context, text string, tmpl *models.Template) (*SubmitResult, error) {
	if strings.TrimSpace(o.userID) == "" {
		return nil, ErrMissingUser
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankMessage
	}
	if err := o.begin(); err != nil {
		return nil, err
	}
	defer o.end()

	started := o.now()
	sessionID, err := o.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	templateContent := ""
	if tmpl != nil {
		templateContent = tmpl.Content
	}

	o.appendMessage(ctx, sessionID, models.PersistedMessage{
		MessageID: models.NewMessageID(models.IDKindUser, o.now()),
		Type:      models.MessageTypeMessage,
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: o.now(),
	}, func() { o.loadingDocuments = true })

	result := &SubmitResult{SessionID: sessionID}
	docCount := 0
	defer func() {
		o.publishSubmission(ctx, sessionID, text, templateContent != "", result.Outcome, docCount, started)
	}()

	docs, encoded, err := o.retrieve(ctx, sessionID, text)
	if err != nil {
		o.appendMessage(ctx, sessionID, errorMessage(RetrievalErrorText, o.now()),
			func() { o.loadingDocuments = false })
		result.Outcome = OutcomeRetrievalFailed
		result.Err = err
		return result, nil
	}
	docCount = len(docs)

	o.appendMessage(ctx, sessionID, models.PersistedMessage{
		MessageID: models.NewMessageID(models.IDKindDocuments, o.now()),
		Type:      models.MessageTypeDocuments,
		Role:      models.RoleAssistant,
		Content:   encoded,
		Timestamp: o.now(),
	}, func() {
		o.loadingDocuments = false
		o.loadingAnalysis = true
	})

	analysis, err := o.analyze(ctx, sessionID, text, templateContent)
	if err != nil {
		o.appendMessage(ctx, sessionID, errorMessage(AnalysisErrorText, o.now()),
			func() { o.loadingAnalysis = false })
		result.Outcome = OutcomeAnalysisFailed
		result.Err = err
		return result, nil
	}

	o.appendMessage(ctx, sessionID, models.PersistedMessage{
		MessageID: models.NewMessageID(models.IDKindAnalysis, o.now()),
		Type:      models.MessageTypeAnalysis,
		Role:      models.RoleAssistant,
		Content:   analysis,
		Timestamp: o.now(),
	}, func() { o.loadingAnalysis = false })

	result.Outcome = OutcomeCompleted
	return result, nil
}

// SelectSession makes s the active session. A nil s starts a new one.
func (o *ChatOrchestrator) SelectSession(ctx context.Context, s *models.Session) error {
	if s == nil {
		_, err := o.CreateSession(ctx, "")
		return err
	}
	if err := o.begin(); err != nil {
		return err
	}
	defer o.end()

	o.mu.Lock()
	o.sessionID = s.ID
	o.messages = models.CloneMessages(s.Messages)
	o.notifyLocked()
	o.mu.Unlock()
	return nil
}

// CreateSession activates a fresh session seeded with the welcome message.
// A non-empty sessionID is reused as is and the store is not touched.
func (o *ChatOrchestrator) CreateSession(ctx context.Context, sessionID string) (string, error) {
	if err := o.begin(); err != nil {
		return "", err
	}
	defer o.end()

	if sessionID != "" {
		o.activate(sessionID, []models.PersistedMessage{models.NewWelcomeMessage(o.now())})
		return sessionID, nil
	}

	id, initial, err := o.sessions.create(ctx, false)
	if err != nil {
		return "", err
	}
	o.activate(id, initial)
	return id, nil
}

// Forget runs remove and then drops the active session when it is sessionID.
// The active session is held busy while remove runs and stays active when
// remove fails.
func (o *ChatOrchestrator) Forget(sessionID string, remove func() error) error {
	o.mu.Lock()
	active := o.sessionID == sessionID
	if active {
		if o.busy {
			o.mu.Unlock()
			return ErrSubmissionInFlight
		}
		o.busy = true
	}
	o.mu.Unlock()
	if active {
		defer o.end()
	}

	if err := remove(); err != nil {
		return err
	}
	if !active {
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessionID = ""
	o.messages = nil
	o.notifyLocked()
	return nil
}

func (o *ChatOrchestrator) State() ChatState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Subscribe returns a channel that always holds the latest state. Call the
// returned func to stop receiving.
func (o *ChatOrchestrator) Subscribe() (<-chan ChatState, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextSub
	o.nextSub++
	ch := make(chan ChatState, 1)
	ch <- o.snapshotLocked()
	o.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
			close(ch)
		})
	}
}

func (o *ChatOrchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return ErrSubmissionInFlight
	}
	o.busy = true
	return nil
}

func (o *ChatOrchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false
	if o.loadingDocuments || o.loadingAnalysis {
		o.loadingDocuments = false
		o.loadingAnalysis = false
		o.notifyLocked()
	}
}

func (o *ChatOrchestrator) ensureSession(ctx context.Context) (string, error) {
	o.mu.Lock()
	id := o.sessionID
	o.mu.Unlock()
	if id != "" {
		return id, nil
	}

	id, initial, err := o.sessions.create(ctx, true)
	if err != nil {
		logger.ErrorWithFields("implicit session creation failed", logger.Fields{
			"user_id": o.userID,
			"error":   err.Error(),
		})
		return "", err
	}
	o.activate(id, initial)
	return id, nil
}

func (o *ChatOrchestrator) activate(sessionID string, msgs []models.PersistedMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessionID = sessionID
	o.messages = models.CloneMessages(msgs)
	o.notifyLocked()
}

// appendMessage updates live state (and flags via mutate) first, then
// persists the full list. A store failure is logged and swallowed.
func (o *ChatOrchestrator) appendMessage(ctx context.Context, sessionID string, msg models.PersistedMessage, mutate func()) {
	o.mu.Lock()
	o.messages = append(o.messages, msg)
	if mutate != nil {
		mutate()
	}
	full := models.CloneMessages(o.messages)
	o.notifyLocked()
	o.mu.Unlock()

	if err := o.store.AppendMessages(ctx, o.userID, sessionID, full); err != nil {
		logger.ErrorWithFields("message persist failed", logger.Fields{
			"user_id":    o.userID,
			"session_id": sessionID,
			"message_id": msg.MessageID,
			"type":       string(msg.Type),
			"error":      err.Error(),
		})
	}
}

func (o *ChatOrchestrator) retrieve(ctx context.Context, sessionID, query string) ([]models.Document, string, error) {
	start := o.now()
	docs, err := o.retriever.Search(ctx, query)
	var encoded string
	if err == nil {
		encoded, err = models.EncodeDocuments(docs)
	}

	log := newCallLog(o.userID, sessionID, models.CallStageRetrieval, query, false, start, o.now(), err)
	if err != nil {
		logger.ErrorWithFields("document retrieval failed", logger.Fields{
			"user_id":     o.userID,
			"session_id":  sessionID,
			"stage":       string(models.CallStageRetrieval),
			"duration_ms": log.DurationMs,
			"error":       err.Error(),
		})
		o.record(ctx, log)
		return nil, "", fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	log.ResultCount = len(docs)
	log.ResponseExcerpt = excerpt(encoded)
	logger.DebugWithFields("documents retrieved", logger.Fields{
		"session_id":  sessionID,
		"count":       len(docs),
		"duration_ms": log.DurationMs,
	})
	o.record(ctx, log)
	return docs, encoded, nil
}

func (o *ChatOrchestrator) analyze(ctx context.Context, sessionID, query, templateContent string) (string, error) {
	start := o.now()
	analysis, err := o.analyzer.Analyze(ctx, query, templateContent)

	log := newCallLog(o.userID, sessionID, models.CallStageAnalysis, query, templateContent != "", start, o.now(), err)
	if err != nil {
		logger.ErrorWithFields("analysis failed", logger.Fields{
			"user_id":       o.userID,
			"session_id":    sessionID,
			"stage":         string(models.CallStageAnalysis),
			"template_used": templateContent != "",
			"duration_ms":   log.DurationMs,
			"error":         err.Error(),
		})
		o.record(ctx, log)
		return "", fmt.Errorf("%w: %w", ErrAnalysis, err)
	}

	log.ResponseExcerpt = excerpt(analysis)
	logger.DebugWithFields("analysis generated", logger.Fields{
		"session_id":  sessionID,
		"duration_ms": log.DurationMs,
	})
	o.record(ctx, log)
	return analysis, nil
}

func (o *ChatOrchestrator) record(ctx context.Context, log models.CallLog) {
	if err := o.recorder.Record(ctx, log); err != nil {
		logger.WarnWithFields("call log record failed", logger.Fields{
			"session_id": log.SessionID,
			"stage":      string(log.Stage),
			"error":      err.Error(),
		})
	}
}

func (o *ChatOrchestrator) publishSubmission(ctx context.Context, sessionID, query string, templateUsed bool, outcome Outcome, docCount int, started time.Time) {
	if outcome == "" {
		return
	}
	now := o.now()
	err := o.publisher.PublishChatEvent(ctx, events.SubmissionCompletedEvent{
		BaseEvent:     events.NewBase(events.SubmissionCompleted, o.userID, sessionID, now),
		Outcome:       string(outcome),
		Query:         query,
		TemplateUsed:  templateUsed,
		DocumentCount: docCount,
		DurationMs:    now.Sub(started).Milliseconds(),
	})
	if err != nil {
		logger.WarnWithFields("chat event publish failed", logger.Fields{
			"session_id": sessionID,
			"event":      string(events.SubmissionCompleted),
			"error":      err.Error(),
		})
	}
}

func (o *ChatOrchestrator) snapshotLocked() ChatState {
	msgs := models.CloneMessages(o.messages)
	return ChatState{
		SessionID:        o.sessionID,
		Messages:         msgs,
		Transcript:       transcript.Project(o.sessionID, msgs),
		LoadingDocuments: o.loadingDocuments,
		LoadingAnalysis:  o.loadingAnalysis,
	}
}

// notifyLocked replaces whatever a subscriber has not read yet with the
// current state. Callers hold mu, so this is the only sender.
func (o *ChatOrchestrator) notifyLocked() {
	if len(o.subs) == 0 {
		return
	}
	state := o.snapshotLocked()
	for _, ch := range o.subs {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}

func errorMessage(text string, now time.Time) models.PersistedMessage {
	return models.PersistedMessage{
		MessageID: models.NewMessageID(models.IDKindError, now),
		Type:      models.MessageTypeError,
		Role:      models.RoleAssistant,
		Content:   text,
		Timestamp: now,
	}
}
