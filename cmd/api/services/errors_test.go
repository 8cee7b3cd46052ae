package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	core "research-chat/services"
)

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{core.ErrMissingUser, http.StatusUnauthorized, "missing_user_id"},
		{core.ErrBlankMessage, http.StatusBadRequest, "blank_message"},
		{core.ErrBlankTitle, http.StatusBadRequest, "blank_title"},
		{core.ErrInvalidTemplate, http.StatusBadRequest, "invalid_template"},
		{core.ErrSubmissionInFlight, http.StatusConflict, "submission_in_flight"},
		{fmt.Errorf("get session: %w", core.ErrSessionNotFound), http.StatusNotFound, "session_not_found"},
		{core.ErrTemplateNotFound, http.StatusNotFound, "template_not_found"},
		{core.ErrDuplicateTemplate, http.StatusConflict, "duplicate_template"},
		{fmt.Errorf("%w: %w", core.ErrSampleCase, errors.New("quota")), http.StatusServiceUnavailable, "sample_case_unavailable"},
		{fmt.Errorf("%w: %w", core.ErrPersistence, errors.New("mongo down")), http.StatusInternalServerError, "persistence_failed"},
		{errors.New("unexpected"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			apiErr := normalizeError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
			assert.ErrorIs(t, apiErr, tt.err)
		})
	}

	assert.Nil(t, normalizeError(nil))
}
