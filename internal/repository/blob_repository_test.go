package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestBlobGet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlobRepository(db)

	document := []byte(`{"6th":{"students":[]}}`)
	mock.ExpectQuery(`SELECT document FROM school_documents WHERE key = \$1`).
		WithArgs(DocumentKey).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(document))

	got, err := repo.Get(context.Background(), DocumentKey)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(document), got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlobGetNoDocument(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlobRepository(db)

	mock.ExpectQuery(`SELECT document FROM school_documents`).
		WithArgs(DocumentKey).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), DocumentKey)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlobSaveUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlobRepository(db)

	document := json.RawMessage(`{"6th":{"students":[]}}`)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO school_documents .+ ON CONFLICT \(key\) DO UPDATE`).
		WithArgs(DocumentKey, []byte(document), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), DocumentKey, document, now)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
