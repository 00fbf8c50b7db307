package models

import "time"

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment is a decoded inline file sent along with a chat message.
// The binary data is request-scoped and never persisted.
type Attachment struct {
	MimeType string
	Data     []byte
}

// AttachmentMeta is the part of an attachment that survives persistence:
// declared MIME type and optional display name, never the bytes.
type AttachmentMeta struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime_type"`
}

// ChatTurn is one message within a conversation. Immutable once appended
// to a session's history.
type ChatTurn struct {
	Role        Role             `json:"role"`
	Text        string           `json:"text"`
	Attachments []AttachmentMeta `json:"attachments,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

// ChatSession is an admin conversation with its full turn history.
type ChatSession struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Title     string     `json:"title"`
	Turns     []ChatTurn `json:"turns"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SessionSummary is the listing view of a session.
type SessionSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionTitle derives a session title from the first user message:
// at most 30 characters, with an ellipsis marker when truncated.
func SessionTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= 30 {
		return text
	}
	return string(runes[:30]) + "..."
}
