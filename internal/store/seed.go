package store

import (
	"time"

	"github.com/edubridge/edubridge-api/internal/models"
)

func seedTeacher(id, name, code string, subjects []string, present, weekly, total int) models.Teacher {
	return models.Teacher{
		ID:            id,
		Name:          name,
		LoginCode:     code,
		Password:      DefaultPassword,
		ProfilePicURL: "",
		Subjects:      subjects,
		Attendance:    models.Attendance{Total: 180, Present: present},
		ClassesTaken:  models.ClassesTaken{Weekly: weekly, Total: total},
	}
}

// Seed synthesizes the default dataset used when neither the remote store nor
// the local cache has a document: classes 6th through 10th with two teachers
// each, two sample students in 6th and starter e-content.
func Seed() models.SchoolData {
	teachers := []models.Teacher{
		seedTeacher("T01", "Mrs. Sharma", "T-SHARMA6", []string{"Science", "Mathematics"}, 178, 20, 580),
		seedTeacher("T02", "Mr. Kumar", "T-KUMAR6", []string{"English", "History"}, 176, 20, 585),
		seedTeacher("T03", "Mr. Verma", "T-VERMA7", []string{"History", "English"}, 170, 18, 550),
		seedTeacher("T04", "Ms. Reddy", "T-REDDY7", []string{"Geography"}, 172, 18, 560),
		seedTeacher("T05", "Ms. Gupta", "T-GUPTA8", []string{"Geography", "Hindi"}, 175, 22, 610),
		seedTeacher("T06", "Mr. Joshi", "T-JOSHI8", []string{"Science", "Physical Education"}, 177, 23, 620),
		seedTeacher("T07", "Mr. Singh", "T-SINGH9", []string{"Physical Education", "Art"}, 179, 19, 575),
		seedTeacher("T08", "Mrs. Das", "T-DAS9", []string{"English", "Art"}, 179, 19, 570),
		seedTeacher("T09", "Mrs. Patel", "T-PATEL10", []string{"Mathematics", "Science"}, 165, 21, 590),
		seedTeacher("T10", "Mr. Menon", "T-MENON10", []string{"Mathematics", "Hindi"}, 174, 20, 595),
	}

	students := []models.Student{
		{
			ID:            "stu-6th-0",
			Name:          "Aarav Sharma",
			Class:         "6th",
			RollNumber:    601,
			GuardianName:  "Ravi Sharma",
			Contact:       "9876543210",
			Address:       "123, Main Street, Delhi",
			ProfilePicURL: "",
			Password:      DefaultPassword,
			Skills: []models.Skill{
				{Name: "Creativity", Category: models.SkillCreative, Rating: 4},
				{Name: "Communication", Category: models.SkillOther, Rating: 3},
				{Name: "Teamwork", Category: models.SkillOther, Rating: 5},
			},
			Scores: []models.Score{
				{Subject: "Science", Score: 88},
				{Subject: "Mathematics", Score: 92},
				{Subject: "English", Score: 85},
				{Subject: "History", Score: 78},
			},
			PracticeScores: []models.Score{
				{Subject: "Science", Score: 80},
				{Subject: "Mathematics", Score: 85},
			},
			Attendance: models.Attendance{Total: 180, Present: 170},
			Fees: []models.Fee{
				{ID: "fee-1", Type: models.FeeTuition, Amount: 1500, DueDate: "2024-09-01", Status: models.FeeDue},
			},
			DigitalDocuments: []models.DigitalDocument{
				{ID: "doc-1", Title: "Term 1 Marksheet", DocumentType: models.DocMarksheet, URL: "#", UploadedBy: "Admin", Date: time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)},
				{ID: "doc-2", Title: "Aadhaar Card Scan", DocumentType: models.DocAadhaarCard, URL: "#", UploadedBy: "Admin", Date: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			ID:            "stu-6th-1",
			Name:          "Priya Patel",
			Class:         "6th",
			RollNumber:    602,
			GuardianName:  "Suresh Patel",
			Contact:       "9876543211",
			Address:       "456, Park Avenue, Mumbai",
			ProfilePicURL: "",
			Password:      DefaultPassword,
			Skills: []models.Skill{
				{Name: "Leadership", Category: models.SkillOther, Rating: 5},
				{Name: "Problem Solving", Category: models.SkillAcademic, Rating: 4},
				{Name: "Art", Category: models.SkillCreative, Rating: 3},
			},
			Scores: []models.Score{
				{Subject: "Science", Score: 95},
				{Subject: "Mathematics", Score: 89},
				{Subject: "English", Score: 91},
				{Subject: "History", Score: 85},
			},
			PracticeScores: []models.Score{
				{Subject: "Science", Score: 90},
			},
			Attendance: models.Attendance{Total: 180, Present: 175},
			Fees: []models.Fee{
				{ID: "fee-2", Type: models.FeeTuition, Amount: 1500, DueDate: "2024-09-01", Status: models.FeePaid},
			},
			DigitalDocuments: []models.DigitalDocument{
				{ID: "doc-3", Title: "Term 1 Marksheet", DocumentType: models.DocMarksheet, URL: "#", UploadedBy: "Admin", Date: time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)},
			},
		},
	}

	classes := []string{"6th", "7th", "8th", "9th", "10th"}
	data := make(models.SchoolData, len(classes))

	for i, className := range classes {
		classTeachers := cloneTeachers(teachers[i*2 : i*2+2])
		for j := range classTeachers {
			classTeachers[j].ClassesTeaching = []string{className}
		}
		// The first teacher seeds as academic head of their class.
		classTeachers[0].HeadOfClass = strPtr(className)

		class := models.ClassData{
			Teachers:       classTeachers,
			Students:       []models.Student{},
			AcademicHeadID: classTeachers[0].ID,
			EContent:       []models.EContentItem{},
		}
		if className == "6th" {
			class.Students = cloneStudents(students)
			class.EContent = []models.EContentItem{
				{ID: "ec-1", Title: "Chapter 1: The Living World - Notes", Type: models.EContentPDF, URL: "#", UploadedBy: "Mrs. Sharma", Date: time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)},
				{ID: "ec-2", Title: "Algebra Basics Video Lecture", Type: models.EContentVideo, URL: "#", UploadedBy: "Mrs. Sharma", Date: time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)},
			}
		}
		data[className] = class
	}

	return data
}

// SeedNotices returns the starter notice board entries.
func SeedNotices() []models.Notice {
	return []models.Notice{
		{
			ID:             "notice-1",
			Title:          "Holiday Notice",
			Content:        "The school will be closed on account of Guru Nanak Jayanti.",
			Date:           time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC),
			TargetAudience: []models.UserRole{models.RoleStudent, models.RoleTeacher, models.RoleParent},
			IssuedBy:       "Admin",
		},
		{
			ID:             "notice-2",
			Title:          "Scholarship Notice A.Y 2025-26",
			Content:        "Students can apply for the new scholarship program starting next week.",
			Date:           time.Date(2025, 10, 29, 0, 0, 0, 0, time.UTC),
			TargetAudience: []models.UserRole{models.RoleStudent, models.RoleParent},
			IssuedBy:       "Admin",
		},
		{
			ID:             "notice-3",
			Title:          "Diwali Festival Notice",
			Content:        "Happy Diwali! School will remain closed for the festival.",
			Date:           time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
			TargetAudience: []models.UserRole{models.RoleStudent, models.RoleTeacher, models.RoleParent},
			IssuedBy:       "Admin",
		},
		{
			ID:             "notice-4",
			Title:          "Staff Meeting",
			Content:        "A mandatory staff meeting will be held on Friday.",
			Date:           time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			TargetAudience: []models.UserRole{models.RoleTeacher},
			IssuedBy:       "Admin",
		},
	}
}

func strPtr(s string) *string { return &s }
