package assistant

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/assistant/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	Chat(ctx context.Context, input *dto.ChatInput) (*dto.ChatReply, error)
	UploadSheet(ctx context.Context, input *dto.UploadInput) (*dto.UploadResult, error)
	AnalyzeSheet(ctx context.Context, userID, sessionID int64) (*dto.AnalyzeResult, error)

	ListSessions(ctx context.Context, userID int64) ([]model.ChatSession, error)
	GetSession(ctx context.Context, userID, sessionID int64) (*model.ChatSession, error)
	DeleteSession(ctx context.Context, userID, sessionID int64) error
}
