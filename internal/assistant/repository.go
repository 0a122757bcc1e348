package assistant

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Repository stores chat sessions and their messages. Sessions are always
// scoped to their owner; lookups for another user's session return nil.
type Repository interface {
	CreateSession(ctx context.Context, s *model.ChatSession) error
	// CreateSessionWithMessages inserts a new session and its first
	// messages in one transaction.
	CreateSessionWithMessages(ctx context.Context, s *model.ChatSession, msgs ...*model.ChatMessage) error
	FindSession(ctx context.Context, id, userID int64) (*model.ChatSession, error)
	ListSessions(ctx context.Context, userID int64) ([]model.ChatSession, error)
	DeleteSession(ctx context.Context, id, userID int64) (bool, error)
	SetUploadedData(ctx context.Context, id int64, data model.JSONB) error
	// AddMessages appends messages in order and bumps the session's
	// updated_at.
	AddMessages(ctx context.Context, sessionID int64, msgs ...*model.ChatMessage) error
	// RecentMessages returns the last limit messages, oldest first.
	RecentMessages(ctx context.Context, sessionID int64, limit int) ([]model.ChatMessage, error)
	Messages(ctx context.Context, sessionID int64) ([]model.ChatMessage, error)
}
