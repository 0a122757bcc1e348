package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/assistant"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateSession(ctx context.Context, s *model.ChatSession) error {
	err := r.DB.QueryRowxContext(ctx, `
		INSERT INTO chat_sessions (user_id, title, uploaded_data)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, s.UserID, s.Title, s.UploadedData).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert chat session: %w", err)
	}
	return nil
}

func (r *PGRepository) FindSession(ctx context.Context, id, userID int64) (*model.ChatSession, error) {
	var s model.ChatSession
	err := r.DB.GetContext(ctx, &s,
		`SELECT * FROM chat_sessions WHERE id = $1 AND user_id = $2 LIMIT 1`, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) ListSessions(ctx context.Context, userID int64) ([]model.ChatSession, error) {
	sessions := []model.ChatSession{}
	err := r.DB.SelectContext(ctx, &sessions, `
		SELECT id, user_id, title, NULL::jsonb AS uploaded_data, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC
	`, userID)
	return sessions, err
}

func (r *PGRepository) DeleteSession(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) SetUploadedData(ctx context.Context, id int64, data model.JSONB) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE chat_sessions SET uploaded_data = $1, updated_at = NOW() WHERE id = $2`, data, id)
	return err
}

func (r *PGRepository) CreateSessionWithMessages(ctx context.Context, s *model.ChatSession, msgs ...*model.ChatMessage) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO chat_sessions (user_id, title, uploaded_data)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`, s.UserID, s.Title, s.UploadedData).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert chat session: %w", err)
		}
		return insertMessages(ctx, tx, s.ID, msgs)
	})
}

func (r *PGRepository) AddMessages(ctx context.Context, sessionID int64, msgs ...*model.ChatMessage) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := insertMessages(ctx, tx, sessionID, msgs); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE chat_sessions SET updated_at = NOW() WHERE id = $1`, sessionID)
		return err
	})
}

func insertMessages(ctx context.Context, tx *sqlx.Tx, sessionID int64, msgs []*model.ChatMessage) error {
	for _, m := range msgs {
		m.SessionID = sessionID
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO chat_messages (session_id, sender, text, data)
			VALUES ($1, $2, $3, $4)
			RETURNING id, timestamp
		`, sessionID, string(m.Sender), m.Text, m.Data).Scan(&m.ID, &m.Timestamp)
		if err != nil {
			return fmt.Errorf("insert chat message: %w", err)
		}
	}
	return nil
}

func (r *PGRepository) RecentMessages(ctx context.Context, sessionID int64, limit int) ([]model.ChatMessage, error) {
	msgs := []model.ChatMessage{}
	err := r.DB.SelectContext(ctx, &msgs, `
		SELECT * FROM (
			SELECT * FROM chat_messages
			WHERE session_id = $1
			ORDER BY timestamp DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY timestamp ASC, id ASC
	`, sessionID, limit)
	return msgs, err
}

func (r *PGRepository) Messages(ctx context.Context, sessionID int64) ([]model.ChatMessage, error) {
	msgs := []model.ChatMessage{}
	err := r.DB.SelectContext(ctx, &msgs,
		`SELECT * FROM chat_messages WHERE session_id = $1 ORDER BY timestamp ASC, id ASC`, sessionID)
	return msgs, err
}

var _ assistant.Repository = (*PGRepository)(nil)
