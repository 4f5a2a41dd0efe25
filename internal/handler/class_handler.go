package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/service"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
	"github.com/edubridge/edubridge-api/pkg/response"
)

// ClassHandler exposes class management and e-content endpoints.
type ClassHandler struct {
	school *service.SchoolService
}

// NewClassHandler creates a new handler.
func NewClassHandler(school *service.SchoolService) *ClassHandler {
	return &ClassHandler{school: school}
}

// List godoc
// @Summary List class names
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.school.ClassNames())
}

// Get godoc
// @Summary Get one class with members
// @Tags Classes
// @Produce json
// @Param name path string true "Class name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{name} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	identity, _ := identityFromContext(c)
	class, err := h.school.Class(identity, c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class)
}

// Create godoc
// @Summary Create an empty class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body object true "Class name"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "class name is required"))
		return
	}

	if err := h.school.CreateClass(c.Request.Context(), identity, req.Name); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"name": req.Name})
}

// Delete godoc
// @Summary Delete a class and everything in it
// @Description Destructive; requires confirm=true
// @Tags Classes
// @Produce json
// @Param name path string true "Class name"
// @Param confirm query bool true "Must be true"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{name} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	identity, _ := identityFromContext(c)

	if c.Query("confirm") != "true" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "deleting a class removes all its students and teachers; pass confirm=true"))
		return
	}
	if err := h.school.DeleteClass(c.Request.Context(), identity, c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetAcademicHead godoc
// @Summary Designate the class academic head
// @Tags Classes
// @Accept json
// @Produce json
// @Param name path string true "Class name"
// @Param payload body object true "Teacher id"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /classes/{name}/academic-head [put]
func (h *ClassHandler) SetAcademicHead(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req struct {
		TeacherID string `json:"teacher_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "teacher_id is required"))
		return
	}

	if err := h.school.SetAcademicHead(c.Request.Context(), identity, c.Param("name"), req.TeacherID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListEContent godoc
// @Summary List class learning material
// @Tags EContent
// @Produce json
// @Param name path string true "Class name"
// @Success 200 {object} response.Envelope
// @Router /classes/{name}/econtent [get]
func (h *ClassHandler) ListEContent(c *gin.Context) {
	identity, _ := identityFromContext(c)
	items, err := h.school.EContent(identity, c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

type addEContentRequest struct {
	Title string              `json:"title" binding:"required"`
	Type  models.EContentType `json:"type" binding:"required,oneof=pdf note video"`
	URL   string              `json:"url" binding:"required"`
}

// AddEContent godoc
// @Summary Upload learning material into a class
// @Tags EContent
// @Accept json
// @Produce json
// @Param name path string true "Class name"
// @Param payload body addEContentRequest true "Item"
// @Success 201 {object} response.Envelope
// @Router /classes/{name}/econtent [post]
func (h *ClassHandler) AddEContent(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req addEContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid e-content payload"))
		return
	}

	created, err := h.school.AddEContent(c.Request.Context(), identity, c.Param("name"), models.EContentItem{
		Title: req.Title,
		Type:  req.Type,
		URL:   req.URL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// DeleteEContent godoc
// @Summary Remove learning material from a class
// @Tags EContent
// @Produce json
// @Param name path string true "Class name"
// @Param id path string true "Content id"
// @Success 204 {object} response.Envelope
// @Router /classes/{name}/econtent/{id} [delete]
func (h *ClassHandler) DeleteEContent(c *gin.Context) {
	identity, _ := identityFromContext(c)
	if err := h.school.DeleteEContent(c.Request.Context(), identity, c.Param("name"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
