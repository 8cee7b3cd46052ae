package services

import (
	"context"
	"strings"

	"research-chat/cmd/api/dto"
	"research-chat/models"
	core "research-chat/services"
)

// ChatService adapts the per-user chat workspaces to the HTTP layer.
type ChatService struct {
	registry  *core.Registry
	templates *core.TemplateService
}

func NewChatService(registry *core.Registry, templates *core.TemplateService) *ChatService {
	return &ChatService{registry: registry, templates: templates}
}

func (s *ChatService) workspace(userID string) (*core.Workspace, *APIError) {
	w, err := s.registry.Workspace(userID)
	if err != nil {
		return nil, normalizeError(err)
	}
	return w, nil
}

func (s *ChatService) State(userID string) (dto.ChatStateDTO, *APIError) {
	w, apiErr := s.workspace(userID)
	if apiErr != nil {
		return dto.ChatStateDTO{}, apiErr
	}
	return ToChatStateDTO(w.Chat.State()), nil
}

// Subscribe streams state snapshots of the user's active chat until cancel is called.
func (s *ChatService) Subscribe(userID string) (<-chan core.ChatState, func(), *APIError) {
	w, apiErr := s.workspace(userID)
	if apiErr != nil {
		return nil, nil, apiErr
	}
	ch, cancel := w.Chat.Subscribe()
	return ch, cancel, nil
}

// Submit resolves the optional template and runs one submission.
// Collaborator failures are part of the returned state, not an error.
func (s *ChatService) Submit(ctx context.Context, userID string, req dto.SubmitMessageRequestDTO) (dto.SubmitMessageResponseDTO, *APIError) {
	w, apiErr := s.workspace(userID)
	if apiErr != nil {
		return dto.SubmitMessageResponseDTO{}, apiErr
	}

	tmpl, err := s.resolveTemplate(ctx, req.TemplateID, req.TemplateName)
	if err != nil {
		return dto.SubmitMessageResponseDTO{}, normalizeError(err)
	}

	result, err := w.Chat.Submit(ctx, req.Message, tmpl)
	if err != nil {
		return dto.SubmitMessageResponseDTO{}, normalizeError(err)
	}
	return dto.SubmitMessageResponseDTO{
		SessionID: result.SessionID,
		Outcome:   string(result.Outcome),
		State:     ToChatStateDTO(w.Chat.State()),
	}, nil
}

func (s *ChatService) resolveTemplate(ctx context.Context, id, name string) (*models.Template, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	switch {
	case id != "":
		return s.templates.Get(ctx, id)
	case name != "":
		return s.templates.FindByName(ctx, name)
	default:
		return nil, nil
	}
}

// Select activates a stored session, or starts a new one when sessionID is nil or empty.
func (s *ChatService) Select(ctx context.Context, userID string, sessionID *string) (dto.SelectSessionResponseDTO, *APIError) {
	w, apiErr := s.workspace(userID)
	if apiErr != nil {
		return dto.SelectSessionResponseDTO{}, apiErr
	}
	target := ""
	if sessionID != nil {
		target = strings.TrimSpace(*sessionID)
	}
	id, err := w.SwitchSession(ctx, target)
	if err != nil {
		return dto.SelectSessionResponseDTO{}, normalizeError(err)
	}
	return dto.SelectSessionResponseDTO{SessionID: id, State: ToChatStateDTO(w.Chat.State())}, nil
}

func (s *ChatService) SampleCase(ctx context.Context, userID string) (dto.SampleCaseResponseDTO, *APIError) {
	w, apiErr := s.workspace(userID)
	if apiErr != nil {
		return dto.SampleCaseResponseDTO{}, apiErr
	}
	text, err := w.GenerateSampleCase(ctx)
	if err != nil {
		return dto.SampleCaseResponseDTO{}, normalizeError(err)
	}
	return dto.SampleCaseResponseDTO{Case: text}, nil
}

func (s *ChatService) ListSessions(ctx context.Context, userID string) (dto.ListSessionsResponseDTO, *APIError) {
	w, apiErr := s.workspace(userID)
	if apiErr != nil {
		return dto.ListSessionsResponseDTO{}, apiErr
	}
	items, err := w.Sessions.List(ctx)
	if err != nil {
		return dto.ListSessionsResponseDTO{}, normalizeError(err)
	}
	out := dto.ListSessionsResponseDTO{Items: make([]dto.SessionSummaryDTO, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, toSessionSummaryDTO(it))
	}
	return out, nil
}

// CreateSession stores an empty session. It does not become the active one.
func (s *ChatService) CreateSession(ctx context.Context, userID string) (dto.CreateSessionResponseDTO, *APIError) {
	w, apiErr := s.workspace(userID)
	if apiErr != nil {
		return dto.CreateSessionResponseDTO{}, apiErr
	}
	id, err := w.Sessions.Create(ctx)
	if err != nil {
		return dto.CreateSessionResponseDTO{}, normalizeError(err)
	}
	return dto.CreateSessionResponseDTO{ID: id}, nil
}

func (s *ChatService) RenameSession(ctx context.Context, userID, sessionID, title string) *APIError {
	w, apiErr := s.workspace(userID)
	if apiErr != nil {
		return apiErr
	}
	return normalizeError(w.Sessions.Rename(ctx, sessionID, title))
}

func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID string) *APIError {
	w, apiErr := s.workspace(userID)
	if apiErr != nil {
		return apiErr
	}
	return normalizeError(w.DeleteSession(ctx, sessionID))
}
