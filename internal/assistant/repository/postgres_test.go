package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "pgx")), mock
}

var sessionColumns = []string{"id", "user_id", "title", "uploaded_data", "created_at", "updated_at"}

func TestCreateSession(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO chat_sessions (user_id, title, uploaded_data)")).
		WithArgs(int64(1), "Stock check", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, now, now))

	s := &model.ChatSession{UserID: 1, Title: "Stock check"}
	require.NoError(t, repo.CreateSession(context.Background(), s))
	assert.Equal(t, int64(10), s.ID)
	assert.Equal(t, now, s.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSessionScopedToOwner(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	query := regexp.QuoteMeta("SELECT * FROM chat_sessions WHERE id = $1 AND user_id = $2")

	mock.ExpectQuery(query).WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows(sessionColumns).AddRow(10, 1, "Stock check", []byte(`{"products":[]}`), now, now))
	mock.ExpectQuery(query).WithArgs(int64(10), int64(2)).
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	s, err := repo.FindSession(context.Background(), 10, 1)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.True(t, s.UsesUpload())

	s, err = repo.FindSession(context.Background(), 10, 2)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSession(t *testing.T) {
	repo, mock := newMock(t)
	query := regexp.QuoteMeta("DELETE FROM chat_sessions WHERE id = $1 AND user_id = $2")

	mock.ExpectExec(query).WithArgs(int64(10), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(int64(11), int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DeleteSession(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteSession(context.Background(), 11, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddMessagesInTransaction(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	insert := regexp.QuoteMeta("INSERT INTO chat_messages (session_id, sender, text, data)")

	mock.ExpectBegin()
	mock.ExpectQuery(insert).WithArgs(int64(10), "user", "hi", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(1, now))
	mock.ExpectQuery(insert).WithArgs(int64(10), "bot", "hello", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(2, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE chat_sessions SET updated_at = NOW() WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user := &model.ChatMessage{Sender: model.SenderUser, Text: "hi"}
	bot := &model.ChatMessage{Sender: model.SenderBot, Text: "hello"}
	require.NoError(t, repo.AddMessages(context.Background(), 10, user, bot))
	assert.Equal(t, int64(2), bot.ID)
	assert.Equal(t, int64(10), user.SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMessagesRollsBack(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO chat_messages")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.AddMessages(context.Background(), 10, &model.ChatMessage{Sender: model.SenderUser, Text: "hi"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSessionWithMessages(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	insert := regexp.QuoteMeta("INSERT INTO chat_messages (session_id, sender, text, data)")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO chat_sessions (user_id, title, uploaded_data)")).
		WithArgs(int64(1), "Plan my week", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(12, now, now))
	mock.ExpectQuery(insert).WithArgs(int64(12), "user", "Plan my week", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(1, now))
	mock.ExpectQuery(insert).WithArgs(int64(12), "bot", "Sure", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(2, now))
	mock.ExpectCommit()

	s := &model.ChatSession{UserID: 1, Title: "Plan my week"}
	user := &model.ChatMessage{Sender: model.SenderUser, Text: "Plan my week"}
	bot := &model.ChatMessage{Sender: model.SenderBot, Text: "Sure"}
	require.NoError(t, repo.CreateSessionWithMessages(context.Background(), s, user, bot))
	assert.Equal(t, int64(12), s.ID)
	assert.Equal(t, int64(12), bot.SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSessionWithMessagesRollsBack(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO chat_sessions")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(12, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO chat_messages")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	s := &model.ChatSession{UserID: 1, Title: "Plan my week"}
	err := repo.CreateSessionWithMessages(context.Background(), s, &model.ChatMessage{Sender: model.SenderUser, Text: "Plan my week"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentMessages(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $2")).WithArgs(int64(10), 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "sender", "text", "data", "timestamp"}).
			AddRow(4, 10, "user", "q", nil, now).
			AddRow(5, 10, "bot", "a", nil, now))

	msgs, err := repo.RecentMessages(context.Background(), 10, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.SenderBot, msgs[1].Sender)
}
