package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/service"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
	"github.com/edubridge/edubridge-api/pkg/response"
)

// RequestHandler exposes the student admission request workflow.
type RequestHandler struct {
	requests *service.RequestService
}

// NewRequestHandler creates a new handler.
func NewRequestHandler(requests *service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// Submit godoc
// @Summary Submit a student admission request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body models.StudentPayload true "Proposed student"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Submit(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var payload models.StudentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	// Teachers request into their own class regardless of the body.
	if identity.Role == models.RoleTeacher {
		payload.Class = identity.TeacherClass
	}
	if payload.Class == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "target class is required"))
		return
	}

	req, err := h.requests.Submit(identity, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, req)
}

// List godoc
// @Summary List admission requests, newest first
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	identity, _ := identityFromContext(c)
	requests, err := h.requests.List(identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests)
}

// PendingCount godoc
// @Summary Count of requests awaiting review
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /requests/pending-count [get]
func (h *RequestHandler) PendingCount(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"pending": h.requests.PendingCount()})
}

// Approve godoc
// @Summary Approve a pending request and admit the student
// @Tags Requests
// @Produce json
// @Param id path string true "Request id"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *gin.Context) {
	identity, _ := identityFromContext(c)
	student, err := h.requests.Approve(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Deny godoc
// @Summary Deny a pending request
// @Tags Requests
// @Produce json
// @Param id path string true "Request id"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/{id}/deny [post]
func (h *RequestHandler) Deny(c *gin.Context) {
	identity, _ := identityFromContext(c)
	if err := h.requests.Deny(identity, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
