package services

import (
	"context"

	"research-chat/cmd/api/dto"
	core "research-chat/services"
)

type TemplateService struct {
	svc *core.TemplateService
}

func NewTemplateService(svc *core.TemplateService) *TemplateService {
	return &TemplateService{svc: svc}
}

func (s *TemplateService) List(ctx context.Context) (dto.ListTemplatesResponseDTO, *APIError) {
	items, err := s.svc.List(ctx)
	if err != nil {
		return dto.ListTemplatesResponseDTO{}, normalizeError(err)
	}
	out := dto.ListTemplatesResponseDTO{Items: make([]dto.TemplateDTO, 0, len(items))}
	for _, t := range items {
		out.Items = append(out.Items, toTemplateDTO(t))
	}
	return out, nil
}

// Save creates a template when id is empty, otherwise replaces it.
func (s *TemplateService) Save(ctx context.Context, id string, req dto.SaveTemplateRequestDTO) (dto.TemplateDTO, *APIError) {
	t, err := s.svc.Save(ctx, id, req.Name, req.Content)
	if err != nil {
		return dto.TemplateDTO{}, normalizeError(err)
	}
	return toTemplateDTO(*t), nil
}

func (s *TemplateService) Delete(ctx context.Context, id string) *APIError {
	return normalizeError(s.svc.Delete(ctx, id))
}
