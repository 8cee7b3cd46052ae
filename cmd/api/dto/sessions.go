package dto

import "time"

// SessionSummaryDTO is a session without its message log.
type SessionSummaryDTO struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	DisplayTitle string    `json:"display_title" example:"Chat from Jun 10, 2024 3:04 PM"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListSessionsResponseDTO struct {
	Items []SessionSummaryDTO `json:"items"`
}

type CreateSessionResponseDTO struct {
	ID string `json:"id"`
}

type RenameSessionRequestDTO struct {
	Title string `json:"title" binding:"required" example:"Heart failure review"`
}
