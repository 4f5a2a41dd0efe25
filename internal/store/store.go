// Package store implements the Domain Store: pure transforms over the
// SchoolData snapshot. Every operation takes the current snapshot and returns
// a new one; inputs are never mutated in place. Structural sharing is used
// where a class is untouched. Lookup misses return the input snapshot
// unchanged and never error; validation conflicts return a typed error with
// no partial mutation.
package store

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edubridge/edubridge-api/internal/models"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
)

// DefaultPassword is applied whenever a record is created without one.
const DefaultPassword = "1234"

var nonDigits = regexp.MustCompile(`\D`)

func cloneTop(data models.SchoolData) models.SchoolData {
	next := make(models.SchoolData, len(data))
	for name, class := range data {
		next[name] = class
	}
	return next
}

func cloneStudents(students []models.Student) []models.Student {
	next := make([]models.Student, len(students))
	copy(next, students)
	return next
}

func cloneTeachers(teachers []models.Teacher) []models.Teacher {
	next := make([]models.Teacher, len(teachers))
	copy(next, teachers)
	return next
}

// CreateClass inserts an empty class. Conflict if the name is already taken.
func CreateClass(data models.SchoolData, name string) (models.SchoolData, error) {
	if _, exists := data[name]; exists {
		return data, appErrors.ErrClassExists
	}
	next := cloneTop(data)
	next[name] = models.ClassData{
		Students: []models.Student{},
		Teachers: []models.Teacher{},
		EContent: []models.EContentItem{},
	}
	return next, nil
}

// DeleteClass removes the class key entirely, discarding all contained
// members and content. No cascading cleanup: a teacher referenced in another
// class's list keeps that copy untouched.
func DeleteClass(data models.SchoolData, name string) models.SchoolData {
	if _, exists := data[name]; !exists {
		return data
	}
	next := cloneTop(data)
	delete(next, name)
	return next
}

// AddStudent creates a student in the payload's class. The id is assigned
// here, the password defaults when absent and the document list is
// initialised. Fails if the target class does not exist.
func AddStudent(data models.SchoolData, payload models.StudentPayload, profilePicURL string) (models.SchoolData, models.Student, error) {
	class, exists := data[payload.Class]
	if !exists {
		return data, models.Student{}, appErrors.ErrClassNotFound
	}

	password := payload.Password
	if password == "" {
		password = DefaultPassword
	}
	docs := payload.DigitalDocuments
	if docs == nil {
		docs = []models.DigitalDocument{}
	}

	id := "stu-" + uuid.NewString()
	if profilePicURL == "" {
		profilePicURL = "https://i.pravatar.cc/150?u=" + id
	}

	student := models.Student{
		ID:               id,
		Name:             payload.Name,
		Class:            payload.Class,
		RollNumber:       payload.RollNumber,
		GuardianName:     payload.GuardianName,
		Contact:          payload.Contact,
		Address:          payload.Address,
		ProfilePicURL:    profilePicURL,
		Password:         password,
		Skills:           payload.Skills,
		Scores:           payload.Scores,
		PracticeScores:   payload.PracticeScores,
		Attendance:       payload.Attendance,
		Fees:             payload.Fees,
		DigitalDocuments: docs,
	}

	next := cloneTop(data)
	class.Students = append(cloneStudents(class.Students), student)
	next[payload.Class] = class
	return next, student, nil
}

// DeleteStudent removes the student from the named class's list only.
func DeleteStudent(data models.SchoolData, className, studentID string) models.SchoolData {
	class, exists := data[className]
	if !exists {
		return data
	}
	kept := make([]models.Student, 0, len(class.Students))
	found := false
	for _, s := range class.Students {
		if s.ID == studentID {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return data
	}
	next := cloneTop(data)
	class.Students = kept
	next[className] = class
	return next
}

// AddTeacher creates a teacher in the named class. The login code is derived
// from the surname and the digits of the class name (e.g. "Mrs. Sharma" in
// "6th" -> "T-SHARMA6"); collisions are accepted, login resolves first match.
func AddTeacher(data models.SchoolData, className, teacherName string) (models.SchoolData, models.Teacher, error) {
	class, exists := data[className]
	if !exists {
		return data, models.Teacher{}, appErrors.ErrClassNotFound
	}

	words := strings.Fields(teacherName)
	lastName := "NEW"
	if len(words) > 0 {
		lastName = strings.ToUpper(words[len(words)-1])
	}
	classDigits := nonDigits.ReplaceAllString(className, "")

	teacher := models.Teacher{
		ID:              "T-" + uuid.NewString(),
		Name:            teacherName,
		LoginCode:       "T-" + lastName + classDigits,
		Password:        DefaultPassword,
		Subjects:        []string{},
		Attendance:      models.Attendance{Total: 180, Present: 180},
		ClassesTaken:    models.ClassesTaken{},
		ClassesTeaching: []string{className},
		HeadOfClass:     nil,
	}

	next := cloneTop(data)
	class.Teachers = append(cloneTeachers(class.Teachers), teacher)
	next[className] = class
	return next, teacher, nil
}

// DeleteTeacher removes the teacher from the named class's list. If they were
// the academic head there, the first remaining teacher takes over, or the
// headship is cleared when the list empties.
func DeleteTeacher(data models.SchoolData, className, teacherID string) models.SchoolData {
	class, exists := data[className]
	if !exists {
		return data
	}
	kept := make([]models.Teacher, 0, len(class.Teachers))
	found := false
	for _, t := range class.Teachers {
		if t.ID == teacherID {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return data
	}
	if class.AcademicHeadID == teacherID {
		if len(kept) > 0 {
			class.AcademicHeadID = kept[0].ID
		} else {
			class.AcademicHeadID = ""
		}
	}
	next := cloneTop(data)
	class.Teachers = kept
	next[className] = class
	return next
}

// SetAcademicHead designates the teacher as head of the named class. A
// teacher may head at most one class; if already head elsewhere the call is a
// conflict and nothing changes. On success any stale headOfClass reference to
// this class is cleared on every teacher record in every class.
func SetAcademicHead(data models.SchoolData, className, teacherID string) (models.SchoolData, error) {
	if _, exists := data[className]; !exists {
		return data, appErrors.ErrClassNotFound
	}

	for _, other := range ClassNames(data) {
		if other != className && data[other].AcademicHeadID == teacherID {
			return data, appErrors.Clone(appErrors.ErrAlreadyHead,
				"teacher is already the head of "+other)
		}
	}

	next := cloneTop(data)
	for _, name := range ClassNames(next) {
		class := next[name]
		teachers := cloneTeachers(class.Teachers)
		for i, t := range teachers {
			switch {
			case t.ID == teacherID:
				head := className
				teachers[i].HeadOfClass = &head
			case t.HeadOfClass != nil && *t.HeadOfClass == className:
				teachers[i].HeadOfClass = nil
			}
		}
		class.Teachers = teachers
		next[name] = class
	}

	class := next[className]
	class.AcademicHeadID = teacherID
	next[className] = class
	return next, nil
}

// UpdateTeacherClasses makes newClassNames the authoritative set of classes
// the teacher appears in. The canonical record (first class found) is merged
// with the new list, upserted into every listed class and removed everywhere
// else, reassigning headship per the DeleteTeacher policy. No-op if the
// teacher is not found anywhere.
func UpdateTeacherClasses(data models.SchoolData, teacherID string, newClassNames []string) models.SchoolData {
	idx := BuildIndex(data)
	loc, ok := idx.Teacher(teacherID)
	if !ok {
		return data
	}

	updated := data[loc.Class].Teachers[loc.Pos]
	updated.ClassesTeaching = newClassNames

	wanted := make(map[string]struct{}, len(newClassNames))
	for _, name := range newClassNames {
		wanted[name] = struct{}{}
	}

	next := cloneTop(data)
	for _, name := range ClassNames(next) {
		class := next[name]
		_, keep := wanted[name]

		pos := -1
		for i, t := range class.Teachers {
			if t.ID == teacherID {
				pos = i
				break
			}
		}

		switch {
		case keep && pos >= 0:
			teachers := cloneTeachers(class.Teachers)
			teachers[pos] = updated
			class.Teachers = teachers
		case keep && pos < 0:
			class.Teachers = append(cloneTeachers(class.Teachers), updated)
		case !keep && pos >= 0:
			teachers := append(cloneTeachers(class.Teachers[:pos]), class.Teachers[pos+1:]...)
			if class.AcademicHeadID == teacherID {
				if len(teachers) > 0 {
					class.AcademicHeadID = teachers[0].ID
				} else {
					class.AcademicHeadID = ""
				}
			}
			class.Teachers = teachers
		default:
			continue
		}
		next[name] = class
	}
	return next
}

// UpdateTeacher replaces the canonical teacher record (first class found).
func UpdateTeacher(data models.SchoolData, updated models.Teacher) models.SchoolData {
	idx := BuildIndex(data)
	loc, ok := idx.Teacher(updated.ID)
	if !ok {
		return data
	}
	next := cloneTop(data)
	class := next[loc.Class]
	teachers := cloneTeachers(class.Teachers)
	teachers[loc.Pos] = updated
	class.Teachers = teachers
	next[loc.Class] = class
	return next
}

// UpdateTeacherSubjects sets the subject list on every occurrence of the
// teacher across all classes.
func UpdateTeacherSubjects(data models.SchoolData, teacherID string, subjects []string) models.SchoolData {
	idx := BuildIndex(data)
	locs := idx.TeacherLocations(teacherID)
	if len(locs) == 0 {
		return data
	}
	next := cloneTop(data)
	for _, loc := range locs {
		class := next[loc.Class]
		teachers := cloneTeachers(class.Teachers)
		teachers[loc.Pos].Subjects = subjects
		class.Teachers = teachers
		next[loc.Class] = class
	}
	return next
}

// UpdateTeacherPassword sets the password on the canonical teacher record.
func UpdateTeacherPassword(data models.SchoolData, teacherID, password string) models.SchoolData {
	idx := BuildIndex(data)
	loc, ok := idx.Teacher(teacherID)
	if !ok {
		return data
	}
	next := cloneTop(data)
	class := next[loc.Class]
	teachers := cloneTeachers(class.Teachers)
	teachers[loc.Pos].Password = password
	class.Teachers = teachers
	next[loc.Class] = class
	return next
}

func withStudent(data models.SchoolData, studentID string, mutate func(models.Student) models.Student) models.SchoolData {
	idx := BuildIndex(data)
	loc, ok := idx.Student(studentID)
	if !ok {
		return data
	}
	next := cloneTop(data)
	class := next[loc.Class]
	students := cloneStudents(class.Students)
	students[loc.Pos] = mutate(students[loc.Pos])
	class.Students = students
	next[loc.Class] = class
	return next
}

func upsertScore(scores []models.Score, subject string, value int) []models.Score {
	next := make([]models.Score, len(scores))
	copy(next, scores)
	for i, sc := range next {
		if sc.Subject == subject {
			next[i].Score = value
			return next
		}
	}
	return append(next, models.Score{Subject: subject, Score: value})
}

// UpdateStudentScore upserts the official score for a subject. The store does
// not clamp score values; range checks happen before the call.
func UpdateStudentScore(data models.SchoolData, studentID, subject string, score int) models.SchoolData {
	return withStudent(data, studentID, func(s models.Student) models.Student {
		s.Scores = upsertScore(s.Scores, subject, score)
		return s
	})
}

// UpdateStudentPracticeScore upserts a self-tracked practice score.
func UpdateStudentPracticeScore(data models.SchoolData, studentID, subject string, score int) models.SchoolData {
	return withStudent(data, studentID, func(s models.Student) models.Student {
		s.PracticeScores = upsertScore(s.PracticeScores, subject, score)
		return s
	})
}

// UpdateStudentAttendance stores the new present count clamped to
// [0, attendance.total]. Clamping here is a store-level invariant.
func UpdateStudentAttendance(data models.SchoolData, studentID string, present int) models.SchoolData {
	return withStudent(data, studentID, func(s models.Student) models.Student {
		if present > s.Attendance.Total {
			present = s.Attendance.Total
		}
		if present < 0 {
			present = 0
		}
		s.Attendance.Present = present
		return s
	})
}

// UpdateStudentSkills replaces the student's skill list.
func UpdateStudentSkills(data models.SchoolData, studentID string, skills []models.Skill) models.SchoolData {
	return withStudent(data, studentID, func(s models.Student) models.Student {
		s.Skills = skills
		return s
	})
}

// UpdateStudentProfilePic replaces the student's profile picture URL.
func UpdateStudentProfilePic(data models.SchoolData, studentID, url string) models.SchoolData {
	return withStudent(data, studentID, func(s models.Student) models.Student {
		s.ProfilePicURL = url
		return s
	})
}

// UpdateStudentPassword sets the password on the student record.
func UpdateStudentPassword(data models.SchoolData, studentID, password string) models.SchoolData {
	return withStudent(data, studentID, func(s models.Student) models.Student {
		s.Password = password
		return s
	})
}

// PayStudentFees marks every Due fee as Paid. Idempotent: with nothing Due
// the student record is rewritten unchanged.
func PayStudentFees(data models.SchoolData, studentID string) models.SchoolData {
	return withStudent(data, studentID, func(s models.Student) models.Student {
		fees := make([]models.Fee, len(s.Fees))
		copy(fees, s.Fees)
		for i, fee := range fees {
			if fee.Status == models.FeeDue {
				fees[i].Status = models.FeePaid
			}
		}
		s.Fees = fees
		return s
	})
}

// AddDigitalDocument appends a document to the student's list, assigning id
// and timestamp.
func AddDigitalDocument(data models.SchoolData, studentID string, doc models.DigitalDocument) (models.SchoolData, models.DigitalDocument) {
	doc.ID = "doc-" + uuid.NewString()
	doc.Date = time.Now().UTC()
	next := withStudent(data, studentID, func(s models.Student) models.Student {
		docs := make([]models.DigitalDocument, len(s.DigitalDocuments))
		copy(docs, s.DigitalDocuments)
		s.DigitalDocuments = append(docs, doc)
		return s
	})
	return next, doc
}

// DeleteDigitalDocument removes the document with the given id from the
// student's list.
func DeleteDigitalDocument(data models.SchoolData, studentID, docID string) models.SchoolData {
	return withStudent(data, studentID, func(s models.Student) models.Student {
		kept := make([]models.DigitalDocument, 0, len(s.DigitalDocuments))
		for _, d := range s.DigitalDocuments {
			if d.ID != docID {
				kept = append(kept, d)
			}
		}
		s.DigitalDocuments = kept
		return s
	})
}

// AddEContent prepends a learning item to the class's shared content,
// assigning id and timestamp. Fails if the class does not exist.
func AddEContent(data models.SchoolData, className string, item models.EContentItem) (models.SchoolData, models.EContentItem, error) {
	class, exists := data[className]
	if !exists {
		return data, models.EContentItem{}, appErrors.ErrClassNotFound
	}
	item.ID = "ec-" + uuid.NewString()
	item.Date = time.Now().UTC()

	next := cloneTop(data)
	content := make([]models.EContentItem, 0, len(class.EContent)+1)
	content = append(content, item)
	content = append(content, class.EContent...)
	class.EContent = content
	next[className] = class
	return next, item, nil
}

// DeleteEContent removes the item with the given id from the class's shared
// content.
func DeleteEContent(data models.SchoolData, className, contentID string) models.SchoolData {
	class, exists := data[className]
	if !exists {
		return data
	}
	kept := make([]models.EContentItem, 0, len(class.EContent))
	found := false
	for _, item := range class.EContent {
		if item.ID == contentID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return data
	}
	next := cloneTop(data)
	class.EContent = kept
	next[className] = class
	return next
}
