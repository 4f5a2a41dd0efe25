package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edubridge/edubridge-api/internal/repository"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
	"github.com/edubridge/edubridge-api/pkg/response"
)

// maxDocumentBytes caps the accepted school document size.
const maxDocumentBytes = 16 << 20

// BlobHandler is the blob-server endpoint pair: GET returns the stored
// school document verbatim (null when none exists yet), POST overwrites it.
type BlobHandler struct {
	repo   *repository.BlobRepository
	logger *zap.Logger
}

// NewBlobHandler creates a new handler.
func NewBlobHandler(repo *repository.BlobRepository, logger *zap.Logger) *BlobHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlobHandler{repo: repo, logger: logger}
}

// Get serves the stored document.
func (h *BlobHandler) Get(c *gin.Context) {
	doc, err := h.repo.Get(c.Request.Context(), repository.DocumentKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Data(http.StatusOK, "application/json", []byte("null"))
			return
		}
		h.logger.Error("failed to read school document", zap.Error(err))
		response.Error(c, appErrors.ErrInternal)
		return
	}
	c.Data(http.StatusOK, "application/json", doc)
}

// Save overwrites the stored document.
func (h *BlobHandler) Save(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentBytes+1))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "failed to read request body"))
		return
	}
	if len(body) > maxDocumentBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "document too large"))
		return
	}
	if !json.Valid(body) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "document must be valid JSON"))
		return
	}

	if err := h.repo.Save(c.Request.Context(), repository.DocumentKey, body, time.Now().UTC()); err != nil {
		h.logger.Error("failed to save school document", zap.Error(err))
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"saved": true})
}
