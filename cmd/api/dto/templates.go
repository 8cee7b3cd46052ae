package dto

import "time"

type TemplateDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" example:"PICO summary"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListTemplatesResponseDTO struct {
	Items []TemplateDTO `json:"items"`
}

// SaveTemplateRequestDTO는 템플릿 생성/수정 요청 바디이다.
type SaveTemplateRequestDTO struct {
	Name    string `json:"name" example:"PICO summary"`
	Content string `json:"content"`
}
