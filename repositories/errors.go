package repositories

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrDuplicateTemplate = errors.New("template name already exists")
)
