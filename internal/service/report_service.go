package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/policy"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
	"github.com/edubridge/edubridge-api/pkg/export"
)

const schoolDisplayName = "EduBridge Public School"

// ReportService renders student report cards as PDF.
type ReportService struct {
	school   *SchoolService
	exporter *export.PDFExporter
	logger   *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(school *SchoolService, exporter *export.PDFExporter, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{school: school, exporter: exporter, logger: logger}
}

// ReportCardPDF renders the report card for a student the identity may view.
func (s *ReportService) ReportCardPDF(id models.Identity, studentID string) ([]byte, string, error) {
	student, ok := s.school.studentRaw(studentID)
	if !ok {
		return nil, "", appErrors.ErrNotFound
	}
	if !policy.CanViewStudent(id, student) {
		return nil, "", appErrors.ErrForbidden
	}

	card := export.ReportCard{
		SchoolName:   schoolDisplayName,
		StudentName:  student.Name,
		ClassName:    student.Class,
		RollNumber:   student.RollNumber,
		GuardianName: student.GuardianName,
		Present:      student.Attendance.Present,
		TotalDays:    student.Attendance.Total,
	}
	for _, sc := range student.Scores {
		card.Scores = append(card.Scores, export.SubjectScore{Subject: sc.Subject, Score: sc.Score})
	}
	for _, sk := range student.Skills {
		card.Skills = append(card.Skills, export.SkillEntry{
			Name:     sk.Name,
			Category: string(sk.Category),
			Level:    fmt.Sprintf("%d / 5", sk.Rating),
		})
	}
	for _, fee := range student.Fees {
		if fee.Status == models.FeePaid {
			card.FeesPaid++
		} else {
			card.FeesDue++
		}
	}

	pdf, err := s.exporter.Render(card)
	if err != nil {
		s.logger.Error("failed to render report card", zap.String("student_id", studentID), zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report card")
	}
	filename := fmt.Sprintf("report-card-%d-%s.pdf", student.RollNumber, student.Class)
	return pdf, filename, nil
}
