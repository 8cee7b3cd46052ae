// Package transcript turns a session's persisted message log into the ordered list of lines a client displays.
package transcript

import (
	"time"

	"research-chat/models"
)

const (
	DocumentsText = "I've retrieved some relevant documents. Analyzing them now..."
	AnalysisText  = "I've completed the analysis. You can view the results below."
)

// DisplayMessage is a derived, display-ready line. It is never persisted.
type DisplayMessage struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	IsUser    bool              `json:"is_user"`
	Documents []models.Document `json:"documents,omitempty"`
	Analysis  string            `json:"analysis,omitempty"`
	Timestamp *time.Time        `json:"timestamp,omitempty"`
}

// Project maps msgs to display lines in input order.
// A synthetic welcome line is prepended when no message record carries the welcome text;
// msgs itself is left untouched.
func Project(sessionID string, msgs []models.PersistedMessage) []DisplayMessage {
	out := make([]DisplayMessage, 0, len(msgs)+1)
	hasWelcome := false

	for _, m := range msgs {
		ts := m.Timestamp
		line := DisplayMessage{ID: m.MessageID, Timestamp: &ts}

		switch m.Type {
		case models.MessageTypeMessage:
			line.Text = m.Content
			line.IsUser = m.Role == models.RoleUser
			if m.IsWelcome() {
				hasWelcome = true
			}
		case models.MessageTypeDocuments:
			line.Text = DocumentsText
			// Undecodable content still yields the line, just without documents.
			if docs, err := models.DecodeDocuments(m.Content); err == nil {
				line.Documents = docs
			}
		case models.MessageTypeAnalysis:
			line.Text = AnalysisText
			line.Analysis = m.Content
		case models.MessageTypeError:
			line.Text = m.Content
		default:
			continue
		}
		out = append(out, line)
	}

	if !hasWelcome {
		out = append([]DisplayMessage{Welcome(sessionID)}, out...)
	}
	return out
}

// Welcome is the synthetic greeting line used for sessions that never stored one.
func Welcome(sessionID string) DisplayMessage {
	id := "welcome"
	if sessionID != "" {
		id = "welcome-" + sessionID
	}
	return DisplayMessage{ID: id, Text: models.WelcomeText}
}
