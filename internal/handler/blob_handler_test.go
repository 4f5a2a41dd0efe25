package handler

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/edubridge-api/internal/repository"
)

func newBlobRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewBlobHandler(repository.NewBlobRepository(sqlx.NewDb(db, "postgres")), nil)
	r := gin.New()
	r.GET("/api/school-data", h.Get)
	r.POST("/api/school-data", h.Save)
	return r, mock
}

func TestBlobGetReturnsDocument(t *testing.T) {
	r, mock := newBlobRouter(t)

	mock.ExpectQuery(`SELECT document FROM school_documents`).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow([]byte(`{"6th":{}}`)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/school-data", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"6th":{}}`, w.Body.String())
}

func TestBlobGetEmptyStoreReturnsNull(t *testing.T) {
	r, mock := newBlobRouter(t)

	mock.ExpectQuery(`SELECT document FROM school_documents`).
		WillReturnError(sql.ErrNoRows)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/school-data", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestBlobSavePersists(t *testing.T) {
	r, mock := newBlobRouter(t)

	mock.ExpectExec(`INSERT INTO school_documents`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/school-data",
		bytes.NewReader([]byte(`{"6th":{"students":[]}}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlobSaveRejectsInvalidJSON(t *testing.T) {
	r, _ := newBlobRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/school-data",
		bytes.NewReader([]byte(`{"6th":`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
