package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name)
		VALUES (:username, :email, :password_hash, :first_name, :last_name)
		RETURNING id, date_joined
	`
	rows, err := r.DB.NamedQueryContext(ctx, query, u)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			switch postgres.ConstraintName(err) {
			case emailConstraint:
				return auth.ErrEmailTaken
			default:
				return auth.ErrUsernameTaken
			}
		}
		return fmt.Errorf("insert user: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&u.ID, &u.DateJoined); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE username = $1 LIMIT 1`, username)
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE lower(email) = lower($1) LIMIT 1`, email)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User
	if err := r.DB.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	return err
}

func (r *PGRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	_, err := r.DB.NamedExecContext(ctx,
		`UPDATE users SET first_name = :first_name, last_name = :last_name WHERE id = :id`, u)
	return err
}

var _ auth.Repository = (*PGRepository)(nil)
