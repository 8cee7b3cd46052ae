package services

import (
	"context"
	"errors"
	"sync"

	"research-chat/models"
	"research-chat/repositories"
)

var errBackend = errors.New("backend unavailable")

type fakeRetriever struct {
	mu    sync.Mutex
	docs  []models.Document
	err   error
	calls []string
	// during runs inside Search, before returning
	during func()
}

func (f *fakeRetriever) Search(_ context.Context, query string) ([]models.Document, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	during := f.during
	f.mu.Unlock()
	if during != nil {
		during()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func (f *fakeRetriever) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type analyzeCall struct {
	query    string
	template string
}

type fakeAnalyzer struct {
	mu     sync.Mutex
	result string
	err    error
	calls  []analyzeCall
	during func()
}

func (f *fakeAnalyzer) Analyze(_ context.Context, query, templateContent string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, analyzeCall{query: query, template: templateContent})
	during := f.during
	f.mu.Unlock()
	if during != nil {
		during()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSampleCases struct {
	text string
	err  error
}

func (f fakeSampleCases) GenerateSampleCase(context.Context) (string, error) {
	return f.text, f.err
}

// flakyStore wraps the memory store and fails selected operations.
type flakyStore struct {
	*repositories.MemoryStore
	failCreate bool
	failAppend bool
	failDelete bool
	appends    int
	mu         sync.Mutex
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: repositories.NewMemoryStore()}
}

func (s *flakyStore) CreateSession(ctx context.Context, userID string, initial []models.PersistedMessage) (string, error) {
	if s.failCreate {
		return "", errBackend
	}
	return s.MemoryStore.CreateSession(ctx, userID, initial)
}

func (s *flakyStore) AppendMessages(ctx context.Context, userID, sessionID string, messages []models.PersistedMessage) error {
	s.mu.Lock()
	s.appends++
	s.mu.Unlock()
	if s.failAppend {
		return errBackend
	}
	return s.MemoryStore.AppendMessages(ctx, userID, sessionID, messages)
}

func (s *flakyStore) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if s.failDelete {
		return errBackend
	}
	return s.MemoryStore.DeleteSession(ctx, userID, sessionID)
}

func (s *flakyStore) appendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appends
}

type captureRecorder struct {
	mu   sync.Mutex
	logs []models.CallLog
}

func (r *captureRecorder) Record(_ context.Context, log models.CallLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *captureRecorder) all() []models.CallLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.CallLog(nil), r.logs...)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []interface{}
	err    error
}

func (p *capturePublisher) PublishChatEvent(_ context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *capturePublisher) all() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interface{}(nil), p.events...)
}

type fixture struct {
	store     *flakyStore
	retriever *fakeRetriever
	analyzer  *fakeAnalyzer
	recorder  *captureRecorder
	publisher *capturePublisher
	ws        *Workspace
}

func newFixture() *fixture {
	f := &fixture{
		store: newFlakyStore(),
		retriever: &fakeRetriever{docs: []models.Document{
			{Title: "Neuroblastoma outcomes", Summary: "Cohort study"},
			{Title: "MIBG therapy", Summary: "Phase II trial"},
		}},
		analyzer:  &fakeAnalyzer{result: "Risk-stratified therapy is recommended."},
		recorder:  &captureRecorder{},
		publisher: &capturePublisher{},
	}
	f.ws = NewWorkspace("user-1", Dependencies{
		Sessions:    f.store,
		Retriever:   f.retriever,
		Analyzer:    f.analyzer,
		SampleCases: fakeSampleCases{text: "A 3-year-old presents with an abdominal mass."},
		Recorder:    f.recorder,
		Publisher:   f.publisher,
	})
	return f
}

func (f *fixture) stored(sessionID string) []models.PersistedMessage {
	s, err := f.store.GetSession(context.Background(), "user-1", sessionID)
	if err != nil {
		return nil
	}
	return s.Messages
}

func types(msgs []models.PersistedMessage) []models.MessageType {
	out := make([]models.MessageType, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}
