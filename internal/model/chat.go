package model

import "time"

type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderBot  ChatSender = "bot"
)

type ChatSession struct {
	ID           int64         `db:"id" json:"id"`
	UserID       int64         `db:"user_id" json:"user_id"`
	Title        string        `db:"title" json:"title"`
	UploadedData JSONB         `db:"uploaded_data" json:"uploaded_data,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
	Messages     []ChatMessage `db:"-" json:"messages,omitempty"`
}

// UsesUpload reports whether a spreadsheet has been attached to the session.
func (s *ChatSession) UsesUpload() bool {
	return len(s.UploadedData) > 0 && string(s.UploadedData) != "null"
}

type ChatMessage struct {
	ID        int64      `db:"id" json:"id"`
	SessionID int64      `db:"session_id" json:"session"`
	Sender    ChatSender `db:"sender" json:"sender"`
	Text      string     `db:"text" json:"text"`
	Data      JSONB      `db:"data" json:"data,omitempty"`
	Timestamp time.Time  `db:"timestamp" json:"timestamp"`
}
