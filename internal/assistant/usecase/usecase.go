package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/assistant"
	"github.com/fekuna/omnipos-inventory-service/internal/assistant/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/llm"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	historyLimit   = 3
	activityWindow = 30 * 24 * time.Hour
	titleLength    = 50

	statusSuccess = "success"
)

type assistantUseCase struct {
	repo   assistant.Repository
	stats  analytics.Repository
	llm    llm.Generator
	logger logger.ZapLogger
	now    func() time.Time
}

func NewAssistantUseCase(repo assistant.Repository, stats analytics.Repository, gen llm.Generator, log logger.ZapLogger) assistant.UseCase {
	return &assistantUseCase{
		repo:   repo,
		stats:  stats,
		llm:    gen,
		logger: log,
		now:    time.Now,
	}
}

func (uc *assistantUseCase) Chat(ctx context.Context, input *dto.ChatInput) (*dto.ChatReply, error) {
	query := strings.TrimSpace(input.Message)
	if query == "" {
		return nil, assistant.ErrNoQuery
	}

	session, err := uc.sessionFor(ctx, input.UserID, input.SessionID, query)
	if err != nil {
		return nil, err
	}

	var answer string
	answered := false
	if !session.UsesUpload() {
		answer, answered, err = assistant.DirectAnswer(ctx, uc.stats, query)
		if err != nil {
			return nil, fmt.Errorf("direct answer: %w", err)
		}
	}

	if !answered {
		pc, err := uc.promptContext(ctx, session)
		if err != nil {
			return nil, err
		}
		raw, err := uc.llm.Generate(ctx, assistant.BuildPrompt(pc, query))
		if err != nil {
			uc.logger.Error("Failed to generate chat response", zap.Int64("session_id", session.ID), zap.Error(err))
			return nil, assistant.ErrGenerate(err)
		}
		answer = llm.CleanResponse(raw)
	}

	userMsg := &model.ChatMessage{Sender: model.SenderUser, Text: query}
	botMsg := &model.ChatMessage{Sender: model.SenderBot, Text: answer}
	if session.ID == 0 {
		if err := uc.repo.CreateSessionWithMessages(ctx, session, userMsg, botMsg); err != nil {
			return nil, fmt.Errorf("save chat session: %w", err)
		}
		uc.logger.Info("Chat session created", zap.Int64("session_id", session.ID), zap.Int64("user_id", input.UserID))
	} else if err := uc.repo.AddMessages(ctx, session.ID, userMsg, botMsg); err != nil {
		return nil, fmt.Errorf("save chat messages: %w", err)
	}

	return &dto.ChatReply{Response: answer, Status: statusSuccess, ChatSessionID: session.ID}, nil
}

// sessionFor loads the caller's session. Without an id it returns an unsaved
// session titled after the first message; Chat persists it with the reply.
func (uc *assistantUseCase) sessionFor(ctx context.Context, userID int64, sessionID *int64, title string) (*model.ChatSession, error) {
	if sessionID != nil {
		return uc.loadSession(ctx, userID, *sessionID)
	}
	return &model.ChatSession{UserID: userID, Title: truncate(title, titleLength)}, nil
}

func (uc *assistantUseCase) promptContext(ctx context.Context, session *model.ChatSession) (*assistant.PromptContext, error) {
	var history []model.ChatMessage
	if session.ID != 0 {
		var err error
		history, err = uc.repo.RecentMessages(ctx, session.ID, historyLimit)
		if err != nil {
			return nil, fmt.Errorf("recent messages: %w", err)
		}
	}

	if session.UsesUpload() {
		var data dto.UploadedData
		if err := json.Unmarshal(session.UploadedData, &data); err != nil {
			return nil, fmt.Errorf("decode uploaded data: %w", err)
		}
		s := data.Stats
		return &assistant.PromptContext{
			Source:        assistant.SourceSpreadsheet,
			TotalProducts: int64(s.TotalProducts),
			Categories:    int64(s.Categories),
			TotalValue:    s.TotalValue,
			AvgPrice:      s.AvgPrice,
			LowStock:      int64(s.LowStockCount),
			OutOfStock:    int64(s.OutOfStockCount),
			Breakdown:     s.CategoriesBreakdown,
			Analysis:      analytics.Analyze(s.TotalValue, s.LowStockCount, s.TotalProducts),
			History:       history,
		}, nil
	}

	stats, err := uc.stats.InventoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory stats: %w", err)
	}
	activity, err := uc.stats.RecentActivity(ctx, uc.now().Add(-activityWindow))
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return &assistant.PromptContext{
		Source:        assistant.SourceDatabase,
		TotalProducts: stats.TotalProducts,
		Categories:    stats.Categories,
		TotalValue:    stats.TotalValue,
		AvgPrice:      stats.AvgPrice,
		LowStock:      stats.LowStock,
		OutOfStock:    stats.OutOfStock,
		TopCategories: stats.TopCategories,
		Analysis:      analytics.Analyze(stats.TotalValue, int(stats.LowStock), int(stats.TotalProducts)),
		Activity:      activity,
		History:       history,
	}, nil
}

func (uc *assistantUseCase) UploadSheet(ctx context.Context, input *dto.UploadInput) (*dto.UploadResult, error) {
	data, err := assistant.ParseSheet(input.Filename, input.File)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode uploaded data: %w", err)
	}

	var session *model.ChatSession
	if input.SessionID != nil {
		if session, err = uc.loadSession(ctx, input.UserID, *input.SessionID); err != nil {
			return nil, err
		}
		if err := uc.repo.SetUploadedData(ctx, session.ID, raw); err != nil {
			return nil, fmt.Errorf("store uploaded data: %w", err)
		}
	} else {
		session = &model.ChatSession{
			UserID:       input.UserID,
			Title:        truncate("Spreadsheet: "+input.Filename, titleLength),
			UploadedData: raw,
		}
		if err := uc.repo.CreateSession(ctx, session); err != nil {
			return nil, err
		}
	}

	s := data.Stats
	uc.logger.Info("Spreadsheet attached to chat session",
		zap.Int64("session_id", session.ID),
		zap.Int("rows", len(data.Products)),
	)
	return &dto.UploadResult{
		ChatSessionID:     session.ID,
		RowCount:          len(data.Products),
		Stats:             s,
		InventoryAnalysis: analytics.Analyze(s.TotalValue, s.LowStockCount, s.TotalProducts),
	}, nil
}

func (uc *assistantUseCase) AnalyzeSheet(ctx context.Context, userID, sessionID int64) (*dto.AnalyzeResult, error) {
	session, err := uc.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.UsesUpload() {
		return nil, assistant.ErrNoUpload
	}

	var data dto.UploadedData
	if err := json.Unmarshal(session.UploadedData, &data); err != nil {
		return nil, fmt.Errorf("decode uploaded data: %w", err)
	}

	raw, err := uc.llm.Generate(ctx, assistant.SheetPrompt(session.UploadedData))
	if err != nil {
		return nil, apperror.Upstream(fmt.Sprintf("AI provider request failed: %v", err), err)
	}
	var insights dto.SheetInsights
	if err := llm.DecodeStrict(raw, &insights); err != nil {
		return nil, apperror.Parse(raw, err)
	}

	s := data.Stats
	return &dto.AnalyzeResult{
		ChatSessionID:     session.ID,
		InventoryAnalysis: analytics.Analyze(s.TotalValue, s.LowStockCount, s.TotalProducts),
		SheetInsights:     insights,
	}, nil
}

func (uc *assistantUseCase) ListSessions(ctx context.Context, userID int64) ([]model.ChatSession, error) {
	return uc.repo.ListSessions(ctx, userID)
}

func (uc *assistantUseCase) GetSession(ctx context.Context, userID, sessionID int64) (*model.ChatSession, error) {
	s, err := uc.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Messages, err = uc.repo.Messages(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

// loadSession fetches a session owned by userID without its messages.
func (uc *assistantUseCase) loadSession(ctx context.Context, userID, sessionID int64) (*model.ChatSession, error) {
	s, err := uc.repo.FindSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, assistant.ErrSessionNotFound(sessionID)
	}
	return s, nil
}

func (uc *assistantUseCase) DeleteSession(ctx context.Context, userID, sessionID int64) error {
	deleted, err := uc.repo.DeleteSession(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return assistant.ErrSessionNotFound(sessionID)
	}
	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
