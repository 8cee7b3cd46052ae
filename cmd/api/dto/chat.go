package dto

import "time"

// DocumentDTO is a search hit. Fields other than title and summary are passed through as-is.
type DocumentDTO map[string]any

// ChatMessageDTO is one rendered transcript line.
type ChatMessageDTO struct {
	ID        string        `json:"id" example:"1718000000000-user-a1b2c3d4e"`
	Text      string        `json:"text"`
	IsUser    bool          `json:"is_user"`
	Documents []DocumentDTO `json:"documents,omitempty"`
	Analysis  string        `json:"analysis,omitempty"`
	Timestamp *time.Time    `json:"timestamp,omitempty"`
}

// ChatStateDTO는 현재 활성 채팅의 스냅샷이다.
type ChatStateDTO struct {
	SessionID        string           `json:"session_id"`
	Messages         []ChatMessageDTO `json:"messages"`
	LoadingDocuments bool             `json:"loading_documents"`
	LoadingAnalysis  bool             `json:"loading_analysis"`
}

// SubmitMessageRequestDTO submits a query. template_id wins over template_name
// when both are set.
type SubmitMessageRequestDTO struct {
	Message      string `json:"message" binding:"required" example:"SGLT2 inhibitors in heart failure"`
	TemplateID   string `json:"template_id,omitempty"`
	TemplateName string `json:"template_name,omitempty"`
}

type SubmitMessageResponseDTO struct {
	SessionID string       `json:"session_id"`
	Outcome   string       `json:"outcome" example:"completed"`
	State     ChatStateDTO `json:"state"`
}

// SelectSessionRequestDTO activates a stored session. A null or empty
// session_id starts a new one.
type SelectSessionRequestDTO struct {
	SessionID *string `json:"session_id"`
}

type SelectSessionResponseDTO struct {
	SessionID string       `json:"session_id"`
	State     ChatStateDTO `json:"state"`
}

type SampleCaseResponseDTO struct {
	Case string `json:"case"`
}
