package services

import (
	"time"
	"unicode/utf8"

	"research-chat/models"
)

const maxExcerptLen = 500

func newCallLog(userID, sessionID string, stage models.CallStage, query string, templateUsed bool, start, end time.Time, err error) models.CallLog {
	log := models.CallLog{
		UserID:       userID,
		SessionID:    sessionID,
		Stage:        stage,
		Query:        query,
		TemplateUsed: templateUsed,
		DurationMs:   end.Sub(start).Milliseconds(),
		Success:      err == nil,
		RequestedAt:  start,
		CompletedAt:  end,
	}
	if err != nil {
		msg := err.Error()
		log.ErrorMessage = &msg
	}
	return log
}

// excerpt cuts s to maxExcerptLen bytes without splitting a rune.
func excerpt(s string) string {
	if len(s) <= maxExcerptLen {
		return s
	}
	cut := maxExcerptLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
