package services

import (
	"errors"
	"net/http"

	core "research-chat/services"
)

// APIError는 서비스 에러를 HTTP 상태 코드와 에러 코드로 정규화한 결과이다.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Cause      error
}

func (e *APIError) Error() string {
	if e == nil {
		return "internal_error"
	}
	return e.ErrorCode
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// normalizeError maps an error from the chat core onto a status and an error code.
func normalizeError(err error) *APIError {
	if err == nil {
		return nil
	}
	status, code := normalizeStatus(err)
	return &APIError{StatusCode: status, ErrorCode: code, Cause: err}
}

func normalizeStatus(err error) (normalizedStatus int, errorCode string) {
	switch {
	case errors.Is(err, core.ErrMissingUser):
		return http.StatusUnauthorized, "missing_user_id"
	case errors.Is(err, core.ErrBlankMessage):
		return http.StatusBadRequest, "blank_message"
	case errors.Is(err, core.ErrBlankTitle):
		return http.StatusBadRequest, "blank_title"
	case errors.Is(err, core.ErrInvalidTemplate):
		return http.StatusBadRequest, "invalid_template"
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, core.ErrSubmissionInFlight):
		return http.StatusConflict, "submission_in_flight"
	case errors.Is(err, core.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, core.ErrTemplateNotFound):
		return http.StatusNotFound, "template_not_found"
	case errors.Is(err, core.ErrDuplicateTemplate):
		return http.StatusConflict, "duplicate_template"
	case errors.Is(err, core.ErrSampleCase):
		return http.StatusServiceUnavailable, "sample_case_unavailable"
	case errors.Is(err, core.ErrPersistence):
		return http.StatusInternalServerError, "persistence_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
