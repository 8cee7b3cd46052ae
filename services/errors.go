package services

import (
	"errors"

	"research-chat/repositories"
)

// ErrValidation is the parent of every input rejection. Nothing is recorded
// or persisted when one of them is returned.
var ErrValidation = errors.New("validation failed")

var (
	ErrBlankMessage    = validationError("message must not be blank")
	ErrMissingUser     = validationError("user identity is required")
	ErrBlankTitle      = validationError("title must not be blank")
	ErrInvalidTemplate = validationError("template name and content are required")
)

var (
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrPersistence        = errors.New("persistence failure")
	ErrRetrieval          = errors.New("document retrieval failed")
	ErrAnalysis           = errors.New("analysis failed")
	ErrSampleCase         = errors.New("sample case generation failed")
)

var (
	ErrSessionNotFound   = repositories.ErrSessionNotFound
	ErrTemplateNotFound  = repositories.ErrTemplateNotFound
	ErrDuplicateTemplate = repositories.ErrDuplicateTemplate
)

type validationErr struct{ msg string }

func (e *validationErr) Error() string { return e.msg }
func (e *validationErr) Unwrap() error { return ErrValidation }

func validationError(msg string) error { return &validationErr{msg: msg} }
