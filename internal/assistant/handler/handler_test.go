package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics"
	analyticsdto "github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/assistant"
	"github.com/fekuna/omnipos-inventory-service/internal/assistant/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Chat(ctx context.Context, input *dto.ChatInput) (*dto.ChatReply, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*dto.ChatReply)
	return res, args.Error(1)
}

func (m *mockUseCase) UploadSheet(ctx context.Context, input *dto.UploadInput) (*dto.UploadResult, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*dto.UploadResult)
	return res, args.Error(1)
}

func (m *mockUseCase) AnalyzeSheet(ctx context.Context, userID, sessionID int64) (*dto.AnalyzeResult, error) {
	args := m.Called(ctx, userID, sessionID)
	res, _ := args.Get(0).(*dto.AnalyzeResult)
	return res, args.Error(1)
}

func (m *mockUseCase) ListSessions(ctx context.Context, userID int64) ([]model.ChatSession, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).([]model.ChatSession)
	return res, args.Error(1)
}

func (m *mockUseCase) GetSession(ctx context.Context, userID, sessionID int64) (*model.ChatSession, error) {
	args := m.Called(ctx, userID, sessionID)
	res, _ := args.Get(0).(*model.ChatSession)
	return res, args.Error(1)
}

func (m *mockUseCase) DeleteSession(ctx context.Context, userID, sessionID int64) error {
	return m.Called(ctx, userID, sessionID).Error(0)
}

var _ assistant.UseCase = (*mockUseCase)(nil)

const userID int64 = 7

func newRouter(uc assistant.UseCase, limit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithPrincipal(r.Context(), &auth.Principal{UserID: userID, Username: "clerk"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	NewAssistantHandler(uc, limit, logger.NewNop()).Routes(r)
	return r
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestChat(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("Chat", mock.Anything, mock.MatchedBy(func(in *dto.ChatInput) bool {
		return in.UserID == userID && in.Message == "hello" && in.SessionID != nil && *in.SessionID == 3
	})).Return(&dto.ChatReply{Response: "hi there", Status: "success", ChatSessionID: 3}, nil)
	h := newRouter(uc, nil)

	rec := do(h, jsonRequest(http.MethodPost, "/chatbot/", `{"message":"hello","chat_session_id":3}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"hi there","status":"success","chat_session_id":3}`, rec.Body.String())
}

func TestChatErrors(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("Chat", mock.Anything, mock.MatchedBy(func(in *dto.ChatInput) bool { return in.Message == "" })).
		Return(nil, assistant.ErrNoQuery)
	uc.On("Chat", mock.Anything, mock.MatchedBy(func(in *dto.ChatInput) bool { return in.Message == "boom" })).
		Return(nil, assistant.ErrGenerate(errors.New("quota exceeded")))
	h := newRouter(uc, nil)

	rec := do(h, jsonRequest(http.MethodPost, "/chatbot/", `{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No query provided","resolution":"Please provide a question or command","status":"error"}`, rec.Body.String())

	rec = do(h, jsonRequest(http.MethodPost, "/chatbot/", `{"message":"boom"}`))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to generate response","details":"quota exceeded","status":"error"}`, rec.Body.String())
}

func uploadRequest(t *testing.T, filename, content, sessionID string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if sessionID != "" {
		require.NoError(t, mw.WriteField("chat_session_id", sessionID))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/excel/upload/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	uc := new(mockUseCase)
	var gotBody string
	uc.On("UploadSheet", mock.Anything, mock.MatchedBy(func(in *dto.UploadInput) bool {
		return in.UserID == userID && in.Filename == "stock.csv" && in.SessionID != nil && *in.SessionID == 4
	})).Run(func(args mock.Arguments) {
		b, _ := io.ReadAll(args.Get(1).(*dto.UploadInput).File)
		gotBody = string(b)
	}).Return(&dto.UploadResult{
		ChatSessionID:     4,
		RowCount:          1,
		InventoryAnalysis: analytics.Analyze(10, 0, 1),
	}, nil)
	h := newRouter(uc, nil)

	rec := do(h, uploadRequest(t, "stock.csv", "name,price,quantity_in_stock\nHammer,1,10\n", "4"))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"chat_session_id":4`)
	assert.Contains(t, rec.Body.String(), `"status":"Healthy"`)
	assert.Equal(t, "name,price,quantity_in_stock\nHammer,1,10\n", gotBody)
}

func TestUploadErrors(t *testing.T) {
	h := newRouter(new(mockUseCase), nil)

	rec := do(h, jsonRequest(http.MethodPost, "/excel/upload/", `{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No file uploaded."}`, rec.Body.String())

	rec = do(h, uploadRequest(t, "stock.csv", "name\n", "abc"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "chat_session_id must be a positive integer.")
}

func TestAnalyze(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("AnalyzeSheet", mock.Anything, userID, int64(5)).Return(&dto.AnalyzeResult{
		ChatSessionID:     5,
		InventoryAnalysis: analyticsdto.InventoryAnalysis{Status: "Warning", Insights: []string{}},
		SheetInsights:     dto.SheetInsights{Summary: "Fine.", Recommendations: []string{"Reorder saws"}},
	}, nil)
	uc.On("AnalyzeSheet", mock.Anything, userID, int64(6)).Return(nil, assistant.ErrNoUpload)
	h := newRouter(uc, nil)

	rec := do(h, jsonRequest(http.MethodPost, "/excel/analyze/", `{"chat_session_id":5}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"chat_session_id":5,"inventory_analysis":{"status":"Warning","insights":[]},"summary":"Fine.","recommendations":["Reorder saws"]}`, rec.Body.String())

	rec = do(h, jsonRequest(http.MethodPost, "/excel/analyze/", `{"chat_session_id":6}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, jsonRequest(http.MethodPost, "/excel/analyze/", `{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessions(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("ListSessions", mock.Anything, userID).Return(nil, nil)
	uc.On("GetSession", mock.Anything, userID, int64(2)).Return(&model.ChatSession{
		ID:       2,
		UserID:   userID,
		Title:    "Stock check",
		Messages: []model.ChatMessage{{ID: 1, SessionID: 2, Sender: model.SenderUser, Text: "hi"}},
	}, nil)
	uc.On("GetSession", mock.Anything, userID, int64(3)).Return(nil, assistant.ErrSessionNotFound(3))
	uc.On("DeleteSession", mock.Anything, userID, int64(2)).Return(nil)
	h := newRouter(uc, nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/chat-sessions/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(h, httptest.NewRequest(http.MethodGet, "/chat-sessions/2/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Stock check"`)
	assert.Contains(t, rec.Body.String(), `"sender":"user"`)

	rec = do(h, httptest.NewRequest(http.MethodGet, "/chat-sessions/3/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Chat session 3 not found."}`, rec.Body.String())

	rec = do(h, httptest.NewRequest(http.MethodDelete, "/chat-sessions/2/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	uc.AssertExpectations(t)
}

func TestAIRoutesAreLimited(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	h := newRouter(new(mockUseCase), deny)

	assert.Equal(t, http.StatusTooManyRequests, do(h, jsonRequest(http.MethodPost, "/chatbot/", `{}`)).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(h, jsonRequest(http.MethodPost, "/excel/analyze/", `{}`)).Code)
}
