package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/assistant"
	"github.com/fekuna/omnipos-inventory-service/internal/assistant/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/httpx"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20

type AssistantHandler struct {
	uc      assistant.UseCase
	limitAI func(http.Handler) http.Handler
	logger  logger.ZapLogger
}

func NewAssistantHandler(uc assistant.UseCase, limitAI func(http.Handler) http.Handler, log logger.ZapLogger) *AssistantHandler {
	return &AssistantHandler{
		uc:      uc,
		limitAI: limitAI,
		logger:  log,
	}
}

func (h *AssistantHandler) Routes(r chi.Router) {
	r.Post("/excel/upload/", h.Upload)

	r.Route("/chat-sessions", func(r chi.Router) {
		r.Get("/", h.ListSessions)
		r.Get("/{id}/", h.GetSession)
		r.Delete("/{id}/", h.DeleteSession)
	})

	r.Group(func(r chi.Router) {
		if h.limitAI != nil {
			r.Use(h.limitAI)
		}
		r.Post("/chatbot/", h.Chat)
		r.Post("/excel/analyze/", h.Analyze)
	})
}

type chatRequest struct {
	Message       string `json:"message"`
	ChatSessionID *int64 `json:"chat_session_id"`
}

type analyzeRequest struct {
	ChatSessionID int64 `json:"chat_session_id" validate:"required"`
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	reply, err := h.uc.Chat(r.Context(), &dto.ChatInput{
		UserID:    auth.UserID(r.Context()),
		Message:   req.Message,
		SessionID: req.ChatSessionID,
	})
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, reply)
}

func (h *AssistantHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		httpx.Error(w, r, h.logger, assistant.ErrNoFile)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Error(w, r, h.logger, apperror.Validation("Invalid multipart upload: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, r, h.logger, assistant.ErrNoFile)
		return
	}
	defer file.Close()

	input := &dto.UploadInput{
		UserID:   auth.UserID(r.Context()),
		Filename: header.Filename,
		File:     file,
	}
	if raw := r.FormValue("chat_session_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httpx.Error(w, r, h.logger, apperror.Validation("chat_session_id must be a positive integer."))
			return
		}
		input.SessionID = &id
	}

	res, err := h.uc.UploadSheet(r.Context(), input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

func (h *AssistantHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	res, err := h.uc.AnalyzeSheet(r.Context(), auth.UserID(r.Context()), req.ChatSessionID)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *AssistantHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.uc.ListSessions(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if sessions == nil {
		sessions = []model.ChatSession{}
	}
	httpx.JSON(w, http.StatusOK, sessions)
}

func (h *AssistantHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	session, err := h.uc.GetSession(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, session)
}

func (h *AssistantHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := h.uc.DeleteSession(r.Context(), auth.UserID(r.Context()), id); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.NoContent(w)
}
