package services

import (
	"context"
	"strings"

	"research-chat/models"
)

// TemplateService manages analysis templates. Templates are shared and
// independent of sessions.
type TemplateService struct {
	store TemplateStore
}

func NewTemplateService(store TemplateStore) *TemplateService {
	return &TemplateService{store: store}
}

func (s *TemplateService) List(ctx context.Context) ([]models.Template, error) {
	items, err := s.store.ListTemplates(ctx)
	if err != nil {
		return nil, storeError("list templates", err)
	}
	return items, nil
}

func (s *TemplateService) Get(ctx context.Context, id string) (*models.Template, error) {
	t, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, storeError("get template", err)
	}
	return t, nil
}

// FindByName returns the template whose name matches, ignoring case.
func (s *TemplateService) FindByName(ctx context.Context, name string) (*models.Template, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	for i := range items {
		if strings.EqualFold(items[i].Name, name) {
			return &items[i], nil
		}
	}
	return nil, ErrTemplateNotFound
}

// Save creates the template when id is empty and fully replaces it otherwise.
func (s *TemplateService) Save(ctx context.Context, id, name, content string) (*models.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(content) == "" {
		return nil, ErrInvalidTemplate
	}

	t := &models.Template{ID: id, Name: name, Content: content}
	if id == "" {
		if err := s.store.InsertTemplate(ctx, t); err != nil {
			return nil, storeError("insert template", err)
		}
		return t, nil
	}
	if err := s.store.ReplaceTemplate(ctx, t); err != nil {
		return nil, storeError("replace template", err)
	}
	return t, nil
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTemplate(ctx, id); err != nil {
		return storeError("delete template", err)
	}
	return nil
}
