package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// ReportCard is the flattened data a report card renders from.
type ReportCard struct {
	SchoolName   string
	StudentName  string
	ClassName    string
	RollNumber   int
	GuardianName string
	Scores       []SubjectScore
	Skills       []SkillEntry
	Present      int
	TotalDays    int
	FeesDue      int
	FeesPaid     int
}

// SubjectScore is one official score row.
type SubjectScore struct {
	Subject string
	Score   int
}

// SkillEntry is one skill row.
type SkillEntry struct {
	Name     string
	Category string
	Level    string
}

// Grade maps a 0-100 score onto a letter grade.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B+"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C"
	default:
		return "D"
	}
}

// PDFExporter renders report cards into a printable PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render produces the report card document.
func (e *PDFExporter) Render(card ReportCard) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, card.SchoolName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, "Student Report Card", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", card.StudentName), "", 0, "", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Class: %s", card.ClassName), "", 1, "", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Roll Number: %d", card.RollNumber), "", 0, "", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Guardian: %s", card.GuardianName), "", 1, "", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 8, "Subject", "1", 0, "C", false, 0, "")
	pdf.CellFormat(47.5, 8, "Score", "1", 0, "C", false, 0, "")
	pdf.CellFormat(47.5, 8, "Grade", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	total := 0
	for _, sc := range card.Scores {
		pdf.CellFormat(95, 7, sc.Subject, "1", 0, "", false, 0, "")
		pdf.CellFormat(47.5, 7, fmt.Sprintf("%d / 100", sc.Score), "1", 0, "C", false, 0, "")
		pdf.CellFormat(47.5, 7, Grade(sc.Score), "1", 1, "C", false, 0, "")
		total += sc.Score
	}
	if n := len(card.Scores); n > 0 {
		avg := total / n
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(95, 7, "Overall", "1", 0, "", false, 0, "")
		pdf.CellFormat(47.5, 7, fmt.Sprintf("%d / 100", avg), "1", 0, "C", false, 0, "")
		pdf.CellFormat(47.5, 7, Grade(avg), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	if len(card.Skills) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 8, "Skills", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, sk := range card.Skills {
			pdf.CellFormat(95, 7, sk.Name, "1", 0, "", false, 0, "")
			pdf.CellFormat(47.5, 7, sk.Category, "1", 0, "C", false, 0, "")
			pdf.CellFormat(47.5, 7, sk.Level, "1", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "", 10)
	if card.TotalDays > 0 {
		pct := float64(card.Present) / float64(card.TotalDays) * 100
		pdf.CellFormat(0, 7, fmt.Sprintf("Attendance: %d of %d days (%.1f%%)", card.Present, card.TotalDays, pct), "", 1, "", false, 0, "")
	}
	pdf.CellFormat(0, 7, fmt.Sprintf("Fees: %d paid, %d due", card.FeesPaid, card.FeesDue), "", 1, "", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
