package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/service"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
	"github.com/edubridge/edubridge-api/pkg/response"
)

// TeacherHandler exposes teacher management endpoints.
type TeacherHandler struct {
	school *service.SchoolService
}

// NewTeacherHandler creates a new handler.
func NewTeacherHandler(school *service.SchoolService) *TeacherHandler {
	return &TeacherHandler{school: school}
}

// Create godoc
// @Summary Add a teacher to a class
// @Tags Teachers
// @Accept json
// @Produce json
// @Param name path string true "Class name"
// @Param payload body object true "Teacher name"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{name}/teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "teacher name is required"))
		return
	}

	teacher, err := h.school.AddTeacher(c.Request.Context(), identity, c.Param("name"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Delete godoc
// @Summary Remove a teacher from a class
// @Description Destructive; requires confirm=true
// @Tags Teachers
// @Produce json
// @Param name path string true "Class name"
// @Param id path string true "Teacher id"
// @Param confirm query bool true "Must be true"
// @Success 204 {object} response.Envelope
// @Router /classes/{name}/teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	identity, _ := identityFromContext(c)

	if c.Query("confirm") != "true" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "removing a teacher cannot be undone; pass confirm=true"))
		return
	}
	if err := h.school.DeleteTeacher(c.Request.Context(), identity, c.Param("name"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type updateTeacherRequest struct {
	Name          string `json:"name" binding:"required"`
	LoginCode     string `json:"loginCode" binding:"required"`
	ProfilePicURL string `json:"profilePicUrl"`
}

// Update godoc
// @Summary Update a teacher's profile
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher id"
// @Param payload body updateTeacherRequest true "Profile fields"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req updateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}

	err := h.school.UpdateTeacher(c.Request.Context(), identity, models.Teacher{
		ID:            c.Param("id"),
		Name:          req.Name,
		LoginCode:     req.LoginCode,
		ProfilePicURL: req.ProfilePicURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateSubjects godoc
// @Summary Set a teacher's subject list
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher id"
// @Param payload body object true "Subjects"
// @Success 204 {object} response.Envelope
// @Router /teachers/{id}/subjects [put]
func (h *TeacherHandler) UpdateSubjects(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req struct {
		Subjects []string `json:"subjects" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "subjects list is required"))
		return
	}

	if err := h.school.UpdateTeacherSubjects(c.Request.Context(), identity, c.Param("id"), req.Subjects); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateClasses godoc
// @Summary Rewrite the classes a teacher appears in
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher id"
// @Param payload body object true "Class names"
// @Success 204 {object} response.Envelope
// @Router /teachers/{id}/classes [put]
func (h *TeacherHandler) UpdateClasses(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req struct {
		Classes []string `json:"classes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "classes list is required"))
		return
	}

	if err := h.school.UpdateTeacherClasses(c.Request.Context(), identity, c.Param("id"), req.Classes); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
