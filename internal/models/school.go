package models

import "time"

// SchoolData is the full persisted document, keyed by class name (e.g. "6th").
type SchoolData map[string]ClassData

// ClassData groups everything belonging to one class/division.
type ClassData struct {
	Students       []Student      `json:"students"`
	Teachers       []Teacher      `json:"teachers"`
	AcademicHeadID string         `json:"academicHeadId"`
	EContent       []EContentItem `json:"eContent"`
	Division       string         `json:"division,omitempty"`
}

// Student is a pupil record owned by exactly one class.
type Student struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Class            string            `json:"class"`
	RollNumber       int               `json:"rollNumber"`
	GuardianName     string            `json:"guardianName"`
	Contact          string            `json:"contact"`
	Address          string            `json:"address"`
	ProfilePicURL    string            `json:"profilePicUrl"`
	Password         string            `json:"password,omitempty"`
	Skills           []Skill           `json:"skills"`
	Scores           []Score           `json:"scores"`
	PracticeScores   []Score           `json:"practiceScores,omitempty"`
	Attendance       Attendance        `json:"attendance"`
	Fees             []Fee             `json:"fees"`
	DigitalDocuments []DigitalDocument `json:"digitalDocuments"`
}

// Teacher may appear in several classes' teacher lists when teaching multiple classes.
type Teacher struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	LoginCode       string       `json:"loginCode"`
	Password        string       `json:"password,omitempty"`
	ProfilePicURL   string       `json:"profilePicUrl"`
	Subjects        []string     `json:"subjects"`
	Attendance      Attendance   `json:"attendance"`
	ClassesTaken    ClassesTaken `json:"classesTaken"`
	ClassesTeaching []string     `json:"classesTeaching,omitempty"`
	HeadOfClass     *string      `json:"headOfClass,omitempty"`
}

// ClassesTaken counts delivered lessons; not mutated by this core.
type ClassesTaken struct {
	Weekly int `json:"weekly"`
	Total  int `json:"total"`
}

// Attendance holds present-out-of-total day counts, 0 <= Present <= Total.
type Attendance struct {
	Total   int `json:"total"`
	Present int `json:"present"`
}

// Score is a per-subject mark; subjects are unique within a score list.
type Score struct {
	Subject string `json:"subject"`
	Score   int    `json:"score"`
}

// SkillCategory classifies a student skill entry.
type SkillCategory string

const (
	SkillAcademic  SkillCategory = "Academic"
	SkillSports    SkillCategory = "Sports"
	SkillCreative  SkillCategory = "Creative"
	SkillTechnical SkillCategory = "Technical"
	SkillOther     SkillCategory = "Other"
)

// Skill is a rated (1-5) soft-skill entry on a student.
type Skill struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name"`
	Category  SkillCategory `json:"category"`
	Rating    int           `json:"rating"`
	Remarks   string        `json:"remarks,omitempty"`
	UpdatedBy string        `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
}

// FeeStatus is the payment state of a fee item.
type FeeStatus string

const (
	FeeDue  FeeStatus = "Due"
	FeePaid FeeStatus = "Paid"
)

// FeeType categorises a fee item.
type FeeType string

const (
	FeeTuition FeeType = "Tuition"
	FeeExam    FeeType = "Exam"
	FeeSports  FeeType = "Sports"
	FeeLibrary FeeType = "Library"
)

// Fee is a single billable item on a student record.
type Fee struct {
	ID      string    `json:"id"`
	Type    FeeType   `json:"type"`
	Amount  float64   `json:"amount"`
	DueDate string    `json:"dueDate"`
	Status  FeeStatus `json:"status"`
}

// EContentType is the media kind of a shared learning item.
type EContentType string

const (
	EContentPDF   EContentType = "pdf"
	EContentNote  EContentType = "note"
	EContentVideo EContentType = "video"
)

// EContentItem is class-scoped shared learning material uploaded by teachers.
type EContentItem struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Type       EContentType `json:"type"`
	URL        string       `json:"url"`
	UploadedBy string       `json:"uploadedBy"`
	Date       time.Time    `json:"date"`
}

// DocumentType categorises a stored student document.
type DocumentType string

const (
	DocMarksheet        DocumentType = "Marksheet"
	DocAadhaarCard      DocumentType = "Aadhaar Card"
	DocBirthCertificate DocumentType = "Birth Certificate"
	DocOther            DocumentType = "Other"
)

// DigitalDocument is an uploaded student document reference.
type DigitalDocument struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	DocumentType DocumentType `json:"documentType"`
	URL          string       `json:"url"`
	UploadedBy   string       `json:"uploadedBy"`
	Date         time.Time    `json:"date"`
}
