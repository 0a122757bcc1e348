package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigURL(t *testing.T) {
	cfg := &Config{Host: "db", Port: "5432", User: "app", Password: "p@ss", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "pgx5://app:p%40ss@db:5432/inv?sslmode=disable", cfg.URL("pgx5"))
}

func TestWithTx(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	t.Run("commits on success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
			_, err := tx.Exec("UPDATE products SET quantity_in_stock = 1")
			return err
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := WithTx(context.Background(), db, func(tx *sqlx.Tx) error { return boom })
		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConstraintHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsCheckViolation(unique))
	assert.True(t, IsCheckViolation(&pgconn.PgError{Code: "23514"}))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}
