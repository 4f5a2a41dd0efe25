package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edubridge/edubridge-api/internal/service"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
	"github.com/edubridge/edubridge-api/pkg/response"
)

// NoticeHandler exposes the school notice board.
type NoticeHandler struct {
	notices *service.NoticeService
}

// NewNoticeHandler creates a new handler.
func NewNoticeHandler(notices *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{notices: notices}
}

// List godoc
// @Summary List notices visible to the caller, newest first
// @Tags Notices
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	identity, _ := identityFromContext(c)
	response.JSON(c, http.StatusOK, h.notices.List(identity))
}

// Add godoc
// @Summary Publish a notice
// @Tags Notices
// @Accept json
// @Produce json
// @Param payload body service.PublishNoticeRequest true "Notice"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notices [post]
func (h *NoticeHandler) Add(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req service.PublishNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notice payload"))
		return
	}

	notice, err := h.notices.Add(identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notice)
}
