package models

// RequestStatus tracks the lifecycle of a StudentRequest.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDenied   RequestStatus = "denied"
)

// StudentPayload is a pending student record without id and profile picture;
// those are assigned when the request is approved.
type StudentPayload struct {
	Name             string            `json:"name" binding:"required"`
	Class            string            `json:"class"`
	RollNumber       int               `json:"rollNumber" binding:"required,min=1"`
	GuardianName     string            `json:"guardianName" binding:"required"`
	Contact          string            `json:"contact"`
	Address          string            `json:"address"`
	Password         string            `json:"password,omitempty"`
	Skills           []Skill           `json:"skills"`
	Scores           []Score           `json:"scores"`
	PracticeScores   []Score           `json:"practiceScores,omitempty"`
	Attendance       Attendance        `json:"attendance"`
	Fees             []Fee             `json:"fees"`
	DigitalDocuments []DigitalDocument `json:"digitalDocuments"`
}

// StudentRequest is a teacher-submitted proposal to add a student,
// resolved by an admin. Terminal once approved or denied.
type StudentRequest struct {
	ID          string         `json:"id"`
	Student     StudentPayload `json:"student"`
	TeacherName string         `json:"teacherName"`
	Status      RequestStatus  `json:"status"`
}
