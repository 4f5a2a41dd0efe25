package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/service"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
	"github.com/edubridge/edubridge-api/pkg/response"
)

// StudentHandler exposes student record endpoints.
type StudentHandler struct {
	school  *service.SchoolService
	auth    *service.AuthService
	reports *service.ReportService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(school *service.SchoolService, auth *service.AuthService, reports *service.ReportService) *StudentHandler {
	return &StudentHandler{school: school, auth: auth, reports: reports}
}

// List godoc
// @Summary List visible students
// @Description All students for Admin, class roster for Teacher, own record otherwise
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	identity, _ := identityFromContext(c)
	response.JSON(c, http.StatusOK, h.school.Students(identity))
}

// Get godoc
// @Summary Get one student record
// @Tags Students
// @Produce json
// @Param id path string true "Student id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	identity, _ := identityFromContext(c)
	student, err := h.school.Student(identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Add a student directly (Admin)
// @Tags Students
// @Accept json
// @Produce json
// @Param name path string true "Class name"
// @Param payload body models.StudentPayload true "Student fields"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{name}/students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var payload models.StudentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	payload.Class = c.Param("name")

	student, err := h.school.AddStudent(c.Request.Context(), identity, payload, "")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Delete godoc
// @Summary Remove a student from a class
// @Description Destructive; requires confirm=true
// @Tags Students
// @Produce json
// @Param name path string true "Class name"
// @Param id path string true "Student id"
// @Param confirm query bool true "Must be true"
// @Success 204 {object} response.Envelope
// @Router /classes/{name}/students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	identity, _ := identityFromContext(c)

	if c.Query("confirm") != "true" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "removing a student cannot be undone; pass confirm=true"))
		return
	}
	if err := h.school.DeleteStudent(c.Request.Context(), identity, c.Param("name"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type scoreRequest struct {
	Subject string `json:"subject" binding:"required"`
	Score   int    `json:"score" binding:"min=0,max=100"`
}

// UpdateScore godoc
// @Summary Upsert an official subject score
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student id"
// @Param payload body scoreRequest true "Score"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{id}/scores [put]
func (h *StudentHandler) UpdateScore(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "score must be between 0 and 100"))
		return
	}

	if err := h.school.UpdateScore(c.Request.Context(), identity, c.Param("id"), req.Subject, req.Score); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdatePracticeScore godoc
// @Summary Upsert a self-tracked practice score
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student id"
// @Param payload body scoreRequest true "Score"
// @Success 204 {object} response.Envelope
// @Router /students/{id}/practice-scores [put]
func (h *StudentHandler) UpdatePracticeScore(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "score must be between 0 and 100"))
		return
	}

	if err := h.school.UpdatePracticeScore(c.Request.Context(), identity, c.Param("id"), req.Subject, req.Score); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateAttendance godoc
// @Summary Set a student's present-day count
// @Description Values outside 0..total are clamped
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student id"
// @Param payload body object true "Present days"
// @Success 204 {object} response.Envelope
// @Router /students/{id}/attendance [put]
func (h *StudentHandler) UpdateAttendance(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req struct {
		Present int `json:"present"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "present day count is required"))
		return
	}

	if err := h.school.UpdateAttendance(c.Request.Context(), identity, c.Param("id"), req.Present); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SelfMarkAttendance godoc
// @Summary Mark own attendance for today
// @Description Once per session per calendar day
// @Tags Students
// @Produce json
// @Param id path string true "Student id"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/attendance/self-mark [post]
func (h *StudentHandler) SelfMarkAttendance(c *gin.Context) {
	identity, _ := identityFromContext(c)
	if identity.Student == nil || identity.Student.ID != c.Param("id") {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	if err := h.auth.ClaimDailySelfMark(identity.SessionID); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.school.SelfMarkAttendance(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// UpdateSkills godoc
// @Summary Replace a student's skill list
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student id"
// @Param payload body object true "Skills"
// @Success 204 {object} response.Envelope
// @Router /students/{id}/skills [put]
func (h *StudentHandler) UpdateSkills(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req struct {
		Skills []models.Skill `json:"skills" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid skills payload"))
		return
	}
	for _, sk := range req.Skills {
		if sk.Rating < 1 || sk.Rating > 5 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "skill rating must be between 1 and 5"))
			return
		}
	}

	if err := h.school.UpdateSkills(c.Request.Context(), identity, c.Param("id"), req.Skills); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateProfilePic godoc
// @Summary Replace a student's profile picture URL
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student id"
// @Param payload body object true "URL"
// @Success 204 {object} response.Envelope
// @Router /students/{id}/profile-pic [put]
func (h *StudentHandler) UpdateProfilePic(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req struct {
		URL string `json:"url" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "a valid url is required"))
		return
	}

	if err := h.school.UpdateProfilePic(c.Request.Context(), identity, c.Param("id"), req.URL); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PayFees godoc
// @Summary Mark every due fee as paid
// @Description Idempotent; already-paid fees stay paid
// @Tags Students
// @Produce json
// @Param id path string true "Student id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{id}/fees/pay [post]
func (h *StudentHandler) PayFees(c *gin.Context) {
	identity, _ := identityFromContext(c)
	student, err := h.school.PayFees(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

type addDocumentRequest struct {
	Title        string              `json:"title" binding:"required"`
	DocumentType models.DocumentType `json:"documentType" binding:"required"`
	URL          string              `json:"url" binding:"required"`
}

// AddDocument godoc
// @Summary Attach a digital document to a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student id"
// @Param payload body addDocumentRequest true "Document"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/documents [post]
func (h *StudentHandler) AddDocument(c *gin.Context) {
	identity, _ := identityFromContext(c)

	var req addDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document payload"))
		return
	}

	created, err := h.school.AddDocument(c.Request.Context(), identity, c.Param("id"), models.DigitalDocument{
		Title:        req.Title,
		DocumentType: req.DocumentType,
		URL:          req.URL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// DeleteDocument godoc
// @Summary Remove a digital document from a student
// @Tags Students
// @Produce json
// @Param id path string true "Student id"
// @Param docId path string true "Document id"
// @Success 204 {object} response.Envelope
// @Router /students/{id}/documents/{docId} [delete]
func (h *StudentHandler) DeleteDocument(c *gin.Context) {
	identity, _ := identityFromContext(c)
	if err := h.school.DeleteDocument(c.Request.Context(), identity, c.Param("id"), c.Param("docId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ReportCard godoc
// @Summary Download the student's report card as PDF
// @Tags Students
// @Produce application/pdf
// @Param id path string true "Student id"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /students/{id}/report-card [get]
func (h *StudentHandler) ReportCard(c *gin.Context) {
	identity, _ := identityFromContext(c)
	pdf, filename, err := h.reports.ReportCardPDF(identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
