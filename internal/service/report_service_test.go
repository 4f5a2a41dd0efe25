package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/pkg/export"
)

func TestReportCardPDF(t *testing.T) {
	school, _ := newTestSchool(t)
	reports := NewReportService(school, export.NewPDFExporter(), nil)

	pdf, filename, err := reports.ReportCardPDF(adminID(), "stu-1")
	require.NoError(t, err)
	assert.True(t, len(pdf) > 0)
	assert.Equal(t, "%PDF", string(pdf[:4]))
	assert.Equal(t, "report-card-601-6th.pdf", filename)

	_, _, err = reports.ReportCardPDF(adminID(), "stu-404")
	assert.Error(t, err)
}

func TestReportCardVisibility(t *testing.T) {
	school, _ := newTestSchool(t)
	reports := NewReportService(school, export.NewPDFExporter(), nil)

	// A teacher from another class cannot pull the card.
	outsider := models.Identity{
		Role:         models.RoleTeacher,
		Teacher:      &models.Teacher{ID: "T-9"},
		TeacherClass: "7th",
	}
	_, _, err := reports.ReportCardPDF(outsider, "stu-1")
	assert.Error(t, err)

	// The student's parent can.
	_, _, err = reports.ReportCardPDF(parentID(school), "stu-1")
	assert.NoError(t, err)
}
