package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edubridge/edubridge-api/internal/service"
	"github.com/edubridge/edubridge-api/pkg/response"
)

// SchoolHandler serves the role-scoped school view.
type SchoolHandler struct {
	school *service.SchoolService
}

// NewSchoolHandler creates a new handler.
func NewSchoolHandler(school *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{school: school}
}

// Get godoc
// @Summary Role-scoped school view
// @Description Whole school for Admin, own class for everyone else
// @Tags School
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /school [get]
func (h *SchoolHandler) Get(c *gin.Context) {
	identity, _ := identityFromContext(c)
	response.JSON(c, http.StatusOK, h.school.SchoolView(identity))
}
