package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	SessionCreated      EventType = "session.created"
	SessionRenamed      EventType = "session.renamed"
	SessionDeleted      EventType = "session.deleted"
	SubmissionCompleted EventType = "submission.completed"
)

const (
	SourceAPI    = "api"
	EventVersion  = "1"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
}

func (e BaseEvent) GetType() EventType {
	return e.Type
}

// NewBase 는 새 이벤트 ID 와 현재 시각으로 BaseEvent 를 채운다.
func NewBase(t EventType, userID, sessionID string, now time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: now.UTC(),
		Source:    SourceAPI,
		Version:   EventVersion,
		UserID:    userID,
		SessionID: sessionID,
	}
}

// SessionCreatedEvent 세션 생성 이벤트 (명시적 생성, 첫 질문에 의한 암묵적 생성 모두)
type SessionCreatedEvent struct {
	BaseEvent
	Implicit bool `json:"implicit"`
}

// SessionRenamedEvent 세션 제목 변경 이벤트
type SessionRenamedEvent struct {
	BaseEvent
	Title string `json:"title"`
}

// SessionDeletedEvent 세션 삭제 이벤트
type SessionDeletedEvent struct {
	BaseEvent
}

// SubmissionCompletedEvent 질문 한 건의 처리가 끝났을 때 발행된다.
// Outcome 은 completed / retrieval_failed / analysis_failed 중 하나.
type SubmissionCompletedEvent struct {
	BaseEvent
	Outcome       string `json:"outcome"`
	Query         string `json:"query"`
	TemplateUsed  bool   `json:"template_used"`
	DocumentCount int    `json:"document_count"`
	DurationMs    int64  `json:"duration_ms"`
}

// Envelope 는 Kafka 페이로드로 쓰이는 공통 래퍼다. Data 는 Type 에 맞는 이벤트 JSON 이다.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SerializeEvent 이벤트를 Envelope 로 감싼다.
func SerializeEvent(event interface{}) (Envelope, error) {
	var eventType EventType

	switch e := event.(type) {
	case SessionCreatedEvent:
		eventType = e.Type
	case SessionRenamedEvent:
		eventType = e.Type
	case SessionDeletedEvent:
		eventType = e.Type
	case SubmissionCompletedEvent:
		eventType = e.Type
	default:
		return Envelope{}, fmt.Errorf("unknown event type: %T", event)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return Envelope{Type: eventType, Data: data}, nil
}

// DeserializeEvent 이벤트 타입에 따라 적절한 구조체로 역직렬화
func DeserializeEvent(env Envelope) (interface{}, error) {
	var event interface{}

	switch env.Type {
	case SessionCreated:
		event = &SessionCreatedEvent{}
	case SessionRenamed:
		event = &SessionRenamedEvent{}
	case SessionDeleted:
		event = &SessionDeletedEvent{}
	case SubmissionCompleted:
		event = &SubmissionCompletedEvent{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", env.Type)
	}

	if err := json.Unmarshal(env.Data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}

// Base 는 이벤트(값 또는 포인터)에서 BaseEvent 를 꺼낸다.
func Base(event interface{}) (BaseEvent, bool) {
	switch e := event.(type) {
	case SessionCreatedEvent:
		return e.BaseEvent, true
	case *SessionCreatedEvent:
		return e.BaseEvent, true
	case SessionRenamedEvent:
		return e.BaseEvent, true
	case *SessionRenamedEvent:
		return e.BaseEvent, true
	case SessionDeletedEvent:
		return e.BaseEvent, true
	case *SessionDeletedEvent:
		return e.BaseEvent, true
	case SubmissionCompletedEvent:
		return e.BaseEvent, true
	case *SubmissionCompletedEvent:
		return e.BaseEvent, true
	}
	return BaseEvent{}, false
}
