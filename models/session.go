package models

import "time"

// Session is a persisted, user-owned conversation thread.
// Collection: sessions
type Session struct {
	ID        string             `bson:"_id" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	Messages  []PersistedMessage `bson:"messages" json:"messages"`
}

const sessionTitleLayout = "Jan 2, 2006 3:04 PM"

// DisplayTitle returns the session title, falling back to its creation time for untitled sessions.
func (s Session) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return "Chat from " + s.CreatedAt.Format(sessionTitleLayout)
}
