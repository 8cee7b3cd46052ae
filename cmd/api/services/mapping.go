package services

import (
	"encoding/json"

	"research-chat/cmd/api/dto"
	"research-chat/models"
	core "research-chat/services"
	"research-chat/transcript"
)

// ToChatStateDTO renders a chat snapshot for the wire. Loading flags are
// passed through so a client can show "searching" and "analyzing" states.
func ToChatStateDTO(s core.ChatState) dto.ChatStateDTO {
	out := dto.ChatStateDTO{
		SessionID:        s.SessionID,
		Messages:         make([]dto.ChatMessageDTO, 0, len(s.Transcript)),
		LoadingDocuments: s.LoadingDocuments,
		LoadingAnalysis:  s.LoadingAnalysis,
	}
	for _, line := range s.Transcript {
		out.Messages = append(out.Messages, toChatMessageDTO(line))
	}
	return out
}

func toChatMessageDTO(line transcript.DisplayMessage) dto.ChatMessageDTO {
	msg := dto.ChatMessageDTO{
		ID:        line.ID,
		Text:      line.Text,
		IsUser:    line.IsUser,
		Analysis:  line.Analysis,
		Timestamp: line.Timestamp,
	}
	for _, d := range line.Documents {
		msg.Documents = append(msg.Documents, toDocumentDTO(d))
	}
	return msg
}

func toDocumentDTO(d models.Document) dto.DocumentDTO {
	out := dto.DocumentDTO{}
	b, err := json.Marshal(d)
	if err != nil {
		return dto.DocumentDTO{"title": d.Title, "summary": d.Summary}
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return dto.DocumentDTO{"title": d.Title, "summary": d.Summary}
	}
	return out
}

func toSessionSummaryDTO(s models.Session) dto.SessionSummaryDTO {
	return dto.SessionSummaryDTO{
		ID:           s.ID,
		Title:        s.Title,
		DisplayTitle: s.DisplayTitle(),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func toTemplateDTO(t models.Template) dto.TemplateDTO {
	return dto.TemplateDTO{
		ID:        t.ID,
		Name:      t.Name,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
