package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/policy"
	"github.com/edubridge/edubridge-api/internal/service"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
	"github.com/edubridge/edubridge-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
	metrics *service.MetricsService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{service: svc, metrics: metrics}
}

// Login godoc
// @Summary Authenticate a role
// @Description Resolve role-specific credentials and issue a session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(req)
	h.metrics.RecordLogin(string(req.Role), err == nil)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Logout godoc
// @Summary Logout current session
// @Description Revoke the session token
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	h.service.Logout(identity.SessionID)
	response.NoContent(c)
}

// ChangePassword godoc
// @Summary Change own password
// @Description Update the stored password on the caller's record
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.ChangePasswordRequest true "New password"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "password must be at least 4 characters"))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), identity, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me godoc
// @Summary Current identity
// @Description Return the session identity resolved against the live snapshot
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if identity.Student != nil {
		redacted := policy.RedactStudent(identity.Role, *identity.Student)
		identity.Student = &redacted
	}
	if identity.Teacher != nil {
		redacted := policy.RedactTeacher(identity.Role, *identity.Teacher)
		identity.Teacher = &redacted
	}
	response.JSON(c, http.StatusOK, identity)
}
