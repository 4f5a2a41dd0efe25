package service

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/policy"
	"github.com/edubridge/edubridge-api/internal/store"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
)

type persister interface {
	Save(ctx context.Context, data models.SchoolData)
}

// SchoolService owns the live SchoolData snapshot. Every mutation goes
// through the policy, applies a pure store transform and, when the snapshot
// changed, fires the persistence gateway. The snapshot reference is swapped
// wholesale; callers never receive aliased mutable state.
type SchoolService struct {
	mu      sync.RWMutex
	data    models.SchoolData
	idx     *store.Index
	gateway persister
	metrics *MetricsService
	logger  *zap.Logger
}

// NewSchoolService constructs the service around an initial snapshot.
func NewSchoolService(initial models.SchoolData, gw persister, metrics *MetricsService, logger *zap.Logger) *SchoolService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{
		data:    initial,
		idx:     store.BuildIndex(initial),
		gateway: gw,
		metrics: metrics,
		logger:  logger,
	}
}

// Snapshot returns the current snapshot. Treated as immutable by callers.
func (s *SchoolService) Snapshot() models.SchoolData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// commit swaps in the new snapshot, rebuilds the index and persists.
// Called with the write lock held.
func (s *SchoolService) commit(ctx context.Context, next models.SchoolData) {
	s.data = next
	s.idx = store.BuildIndex(next)
	if s.gateway != nil {
		s.gateway.Save(ctx, next)
	}
	if s.metrics != nil {
		s.metrics.RecordSnapshotCommit()
	}
}

// ResolveIdentity re-points session claims at fresh entity copies from the
// current snapshot. Fails when the referenced entity no longer exists.
func (s *SchoolService) ResolveIdentity(claims *models.SessionClaims) (models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id := models.Identity{SessionID: claims.SessionID, Role: claims.Role}

	switch claims.Role {
	case models.RoleAdmin:
		return id, nil

	case models.RoleTeacher:
		loc, ok := s.idx.Teacher(claims.TeacherID)
		if !ok {
			return id, appErrors.Clone(appErrors.ErrUnauthorized, "teacher account no longer exists")
		}
		teacher := s.data[loc.Class].Teachers[loc.Pos]
		id.Teacher = &teacher
		id.TeacherClass = claims.TeacherClass
		// The login class may have been deleted; fall back to the class the
		// canonical record now lives in.
		if _, exists := s.data[claims.TeacherClass]; !exists {
			id.TeacherClass = loc.Class
		}
		return id, nil

	case models.RoleStudent, models.RoleParent:
		loc, ok := s.idx.Student(claims.StudentID)
		if !ok {
			return id, appErrors.Clone(appErrors.ErrUnauthorized, "student record no longer exists")
		}
		student := s.data[loc.Class].Students[loc.Pos]
		id.Student = &student
		return id, nil
	}

	return id, appErrors.ErrUnauthorized
}

// ClassNames lists the snapshot's classes in sorted order.
func (s *SchoolService) ClassNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.Classes()
}

// SchoolView returns the classes visible to the identity, members redacted.
// Admin sees the whole school, a teacher their login class, parent and
// student the class the student record lives in.
func (s *SchoolService) SchoolView(id models.Identity) models.SchoolData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := make(models.SchoolData)
	include := func(name string) {
		class, exists := s.data[name]
		if !exists {
			return
		}
		out := class
		out.Students = make([]models.Student, len(class.Students))
		for i, st := range class.Students {
			out.Students[i] = policy.RedactStudent(id.Role, st)
		}
		out.Teachers = make([]models.Teacher, len(class.Teachers))
		for i, t := range class.Teachers {
			out.Teachers[i] = policy.RedactTeacher(id.Role, t)
		}
		visible[name] = out
	}

	switch id.Role {
	case models.RoleAdmin:
		for _, name := range s.idx.Classes() {
			include(name)
		}
	case models.RoleTeacher:
		include(id.TeacherClass)
	case models.RoleParent, models.RoleStudent:
		if id.Student != nil {
			if loc, ok := s.idx.Student(id.Student.ID); ok {
				include(loc.Class)
			}
		}
	}
	return visible
}

// Class returns one class with member records redacted for the viewer role.
func (s *SchoolService) Class(id models.Identity, name string) (models.ClassData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	class, exists := s.data[name]
	if !exists {
		return models.ClassData{}, appErrors.ErrClassNotFound
	}
	if id.Role == models.RoleTeacher && name != id.TeacherClass {
		return models.ClassData{}, appErrors.Clone(appErrors.ErrForbidden, "outside your class")
	}

	out := class
	out.Students = make([]models.Student, len(class.Students))
	for i, st := range class.Students {
		out.Students[i] = policy.RedactStudent(id.Role, st)
	}
	out.Teachers = make([]models.Teacher, len(class.Teachers))
	for i, t := range class.Teachers {
		out.Teachers[i] = policy.RedactTeacher(id.Role, t)
	}
	return out, nil
}

// Students returns the records visible to the identity: all of them for
// Admin, the login class for Teacher, the own record for Parent/Student.
func (s *SchoolService) Students(id models.Identity) []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var visible []models.Student
	switch id.Role {
	case models.RoleAdmin:
		for _, name := range s.idx.Classes() {
			visible = append(visible, s.data[name].Students...)
		}
	case models.RoleTeacher:
		if class, exists := s.data[id.TeacherClass]; exists {
			visible = append(visible, class.Students...)
		}
	case models.RoleParent, models.RoleStudent:
		if id.Student != nil {
			if loc, ok := s.idx.Student(id.Student.ID); ok {
				visible = append(visible, s.data[loc.Class].Students[loc.Pos])
			}
		}
	}

	out := make([]models.Student, len(visible))
	for i, st := range visible {
		out[i] = policy.RedactStudent(id.Role, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RollNumber < out[j].RollNumber })
	return out
}

// Student returns a single record, redacted, if the identity may see it.
func (s *SchoolService) Student(id models.Identity, studentID string) (models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.idx.Student(studentID)
	if !ok {
		return models.Student{}, appErrors.ErrNotFound
	}
	student := s.data[loc.Class].Students[loc.Pos]
	if !policy.CanViewStudent(id, student) {
		return models.Student{}, appErrors.ErrForbidden
	}
	return policy.RedactStudent(id.Role, student), nil
}

// studentRaw returns the unredacted record for internal use (report cards).
func (s *SchoolService) studentRaw(studentID string) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.idx.Student(studentID)
	if !ok {
		return models.Student{}, false
	}
	return s.data[loc.Class].Students[loc.Pos], true
}

// CreateClass inserts an empty class.
func (s *SchoolService) CreateClass(ctx context.Context, id models.Identity, name string) error {
	if err := policy.Allow(id, policy.ActionCreateClass, policy.Context{}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := store.CreateClass(s.data, name)
	if err != nil {
		return err
	}
	s.commit(ctx, next)
	return nil
}

// DeleteClass removes a class and everything it contains.
func (s *SchoolService) DeleteClass(ctx context.Context, id models.Identity, name string) error {
	if err := policy.Allow(id, policy.ActionDeleteClass, policy.Context{}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[name]; !exists {
		return appErrors.ErrClassNotFound
	}
	s.commit(ctx, store.DeleteClass(s.data, name))
	return nil
}

// AddStudent is the Admin direct add; teachers go through the request
// workflow instead.
func (s *SchoolService) AddStudent(ctx context.Context, id models.Identity, payload models.StudentPayload, profilePicURL string) (models.Student, error) {
	if err := policy.Allow(id, policy.ActionAddStudent, policy.Context{ClassName: payload.Class}); err != nil {
		return models.Student{}, err
	}
	return s.addStudent(ctx, payload, profilePicURL)
}

// addStudent applies the store transform without a policy gate; the request
// workflow calls it after its own checks.
func (s *SchoolService) addStudent(ctx context.Context, payload models.StudentPayload, profilePicURL string) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, student, err := store.AddStudent(s.data, payload, profilePicURL)
	if err != nil {
		return models.Student{}, err
	}
	s.commit(ctx, next)
	return student, nil
}

// DeleteStudent removes the student from the named class.
func (s *SchoolService) DeleteStudent(ctx context.Context, id models.Identity, className, studentID string) error {
	if err := policy.Allow(id, policy.ActionDeleteStudent, policy.Context{ClassName: className, StudentID: studentID}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := store.DeleteStudent(s.data, className, studentID)
	if !snapshotChanged(s.data, next) {
		return appErrors.ErrNotFound
	}
	s.commit(ctx, next)
	return nil
}

// AddTeacher creates a teacher in the named class.
func (s *SchoolService) AddTeacher(ctx context.Context, id models.Identity, className, teacherName string) (models.Teacher, error) {
	if err := policy.Allow(id, policy.ActionAddTeacher, policy.Context{ClassName: className}); err != nil {
		return models.Teacher{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, teacher, err := store.AddTeacher(s.data, className, teacherName)
	if err != nil {
		return models.Teacher{}, err
	}
	s.commit(ctx, next)
	return teacher, nil
}

// DeleteTeacher removes the teacher from the named class, reassigning the
// academic headship when needed.
func (s *SchoolService) DeleteTeacher(ctx context.Context, id models.Identity, className, teacherID string) error {
	if err := policy.Allow(id, policy.ActionDeleteTeacher, policy.Context{ClassName: className}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := store.DeleteTeacher(s.data, className, teacherID)
	if !snapshotChanged(s.data, next) {
		return appErrors.ErrNotFound
	}
	s.commit(ctx, next)
	return nil
}

// SetAcademicHead designates a class head, enforcing single headship.
func (s *SchoolService) SetAcademicHead(ctx context.Context, id models.Identity, className, teacherID string) error {
	if err := policy.Allow(id, policy.ActionSetAcademicHead, policy.Context{ClassName: className}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := store.SetAcademicHead(s.data, className, teacherID)
	if err != nil {
		return err
	}
	s.commit(ctx, next)
	return nil
}

// UpdateTeacherClasses rewrites the set of classes a teacher appears in.
func (s *SchoolService) UpdateTeacherClasses(ctx context.Context, id models.Identity, teacherID string, classes []string) error {
	if err := policy.Allow(id, policy.ActionUpdateTeacherClasses, policy.Context{}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := store.UpdateTeacherClasses(s.data, teacherID, classes)
	if !snapshotChanged(s.data, next) {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	s.commit(ctx, next)
	return nil
}

// UpdateTeacher merges the profile fields onto the canonical teacher record.
// Subjects, attendance and class membership are managed by their own
// operations and stay untouched.
func (s *SchoolService) UpdateTeacher(ctx context.Context, id models.Identity, teacher models.Teacher) error {
	if err := policy.Allow(id, policy.ActionUpdateTeacher, policy.Context{}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.idx.Teacher(teacher.ID)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	merged := s.data[loc.Class].Teachers[loc.Pos]
	merged.Name = teacher.Name
	merged.LoginCode = teacher.LoginCode
	if teacher.ProfilePicURL != "" {
		merged.ProfilePicURL = teacher.ProfilePicURL
	}

	next := store.UpdateTeacher(s.data, merged)
	if !snapshotChanged(s.data, next) {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	s.commit(ctx, next)
	return nil
}

// UpdateTeacherSubjects sets a teacher's subject list everywhere they appear.
func (s *SchoolService) UpdateTeacherSubjects(ctx context.Context, id models.Identity, teacherID string, subjects []string) error {
	if err := policy.Allow(id, policy.ActionUpdateTeacher, policy.Context{}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := store.UpdateTeacherSubjects(s.data, teacherID, subjects)
	if !snapshotChanged(s.data, next) {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	s.commit(ctx, next)
	return nil
}

// UpdateScore upserts an official score. The policy requires the subject to
// be assigned to the acting teacher; range validation happens at the API
// boundary, not in the store.
func (s *SchoolService) UpdateScore(ctx context.Context, id models.Identity, studentID, subject string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.idx.Student(studentID)
	if !ok {
		return appErrors.ErrNotFound
	}
	if err := policy.Allow(id, policy.ActionUpdateScore, policy.Context{ClassName: loc.Class, StudentID: studentID, Subject: subject}); err != nil {
		return err
	}
	s.commit(ctx, store.UpdateStudentScore(s.data, studentID, subject, score))
	return nil
}

// UpdatePracticeScore upserts a student's self-tracked practice score.
func (s *SchoolService) UpdatePracticeScore(ctx context.Context, id models.Identity, studentID, subject string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idx.Student(studentID); !ok {
		return appErrors.ErrNotFound
	}
	if err := policy.Allow(id, policy.ActionUpdatePracticeScore, policy.Context{StudentID: studentID}); err != nil {
		return err
	}
	s.commit(ctx, store.UpdateStudentPracticeScore(s.data, studentID, subject, score))
	return nil
}

// UpdateAttendance stores a new present count, clamped by the store.
func (s *SchoolService) UpdateAttendance(ctx context.Context, id models.Identity, studentID string, present int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.idx.Student(studentID)
	if !ok {
		return appErrors.ErrNotFound
	}
	if err := policy.Allow(id, policy.ActionUpdateAttendance, policy.Context{ClassName: loc.Class, StudentID: studentID}); err != nil {
		return err
	}
	s.commit(ctx, store.UpdateStudentAttendance(s.data, studentID, present))
	return nil
}

// SelfMarkAttendance adds one present day to the student's own record. The
// once-per-day guard lives in the session engine, not here.
func (s *SchoolService) SelfMarkAttendance(ctx context.Context, id models.Identity) (models.Student, error) {
	if id.Student == nil {
		return models.Student{}, appErrors.ErrUnauthorized
	}
	if err := policy.Allow(id, policy.ActionSelfMarkAttendance, policy.Context{StudentID: id.Student.ID}); err != nil {
		return models.Student{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.idx.Student(id.Student.ID)
	if !ok {
		return models.Student{}, appErrors.ErrNotFound
	}
	current := s.data[loc.Class].Students[loc.Pos]
	next := store.UpdateStudentAttendance(s.data, current.ID, current.Attendance.Present+1)
	s.commit(ctx, next)

	updated := next[loc.Class].Students[loc.Pos]
	return policy.RedactStudent(id.Role, updated), nil
}

// UpdateSkills replaces a student's skill list.
func (s *SchoolService) UpdateSkills(ctx context.Context, id models.Identity, studentID string, skills []models.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.idx.Student(studentID)
	if !ok {
		return appErrors.ErrNotFound
	}
	if err := policy.Allow(id, policy.ActionUpdateSkills, policy.Context{ClassName: loc.Class, StudentID: studentID}); err != nil {
		return err
	}
	s.commit(ctx, store.UpdateStudentSkills(s.data, studentID, skills))
	return nil
}

// UpdateProfilePic replaces a student's profile picture URL.
func (s *SchoolService) UpdateProfilePic(ctx context.Context, id models.Identity, studentID, url string) error {
	if err := policy.Allow(id, policy.ActionUpdateProfilePic, policy.Context{StudentID: studentID}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idx.Student(studentID); !ok {
		return appErrors.ErrNotFound
	}
	s.commit(ctx, store.UpdateStudentProfilePic(s.data, studentID, url))
	return nil
}

// PayFees marks every Due fee Paid for the student. Idempotent.
func (s *SchoolService) PayFees(ctx context.Context, id models.Identity, studentID string) (models.Student, error) {
	if err := policy.Allow(id, policy.ActionPayFees, policy.Context{StudentID: studentID}); err != nil {
		return models.Student{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.idx.Student(studentID)
	if !ok {
		return models.Student{}, appErrors.ErrNotFound
	}
	next := store.PayStudentFees(s.data, studentID)
	s.commit(ctx, next)
	return policy.RedactStudent(id.Role, next[loc.Class].Students[loc.Pos]), nil
}

// AddDocument appends a digital document to the student's record.
func (s *SchoolService) AddDocument(ctx context.Context, id models.Identity, studentID string, doc models.DigitalDocument) (models.DigitalDocument, error) {
	if err := policy.Allow(id, policy.ActionAddDocument, policy.Context{StudentID: studentID}); err != nil {
		return models.DigitalDocument{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idx.Student(studentID); !ok {
		return models.DigitalDocument{}, appErrors.ErrNotFound
	}
	doc.UploadedBy = string(id.Role)
	next, created := store.AddDigitalDocument(s.data, studentID, doc)
	s.commit(ctx, next)
	return created, nil
}

// DeleteDocument removes a digital document from the student's record.
func (s *SchoolService) DeleteDocument(ctx context.Context, id models.Identity, studentID, docID string) error {
	if err := policy.Allow(id, policy.ActionDeleteDocument, policy.Context{StudentID: studentID}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := store.DeleteDigitalDocument(s.data, studentID, docID)
	if !snapshotChanged(s.data, next) {
		return appErrors.ErrNotFound
	}
	s.commit(ctx, next)
	return nil
}

// EContent lists a class's shared learning material.
func (s *SchoolService) EContent(id models.Identity, className string) ([]models.EContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	class, exists := s.data[className]
	if !exists {
		return nil, appErrors.ErrClassNotFound
	}
	// Students see their own class's content; teachers their login class.
	switch id.Role {
	case models.RoleAdmin:
	case models.RoleTeacher:
		if className != id.TeacherClass {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "outside your class")
		}
	case models.RoleStudent, models.RoleParent:
		if id.Student == nil || id.Student.Class != className {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "outside your class")
		}
	}
	return class.EContent, nil
}

// AddEContent uploads a learning item into the teacher's class.
func (s *SchoolService) AddEContent(ctx context.Context, id models.Identity, className string, item models.EContentItem) (models.EContentItem, error) {
	if err := policy.Allow(id, policy.ActionManageEContent, policy.Context{ClassName: className}); err != nil {
		return models.EContentItem{}, err
	}
	if id.Teacher != nil {
		item.UploadedBy = id.Teacher.Name
	} else {
		item.UploadedBy = string(id.Role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, created, err := store.AddEContent(s.data, className, item)
	if err != nil {
		return models.EContentItem{}, err
	}
	s.commit(ctx, next)
	return created, nil
}

// DeleteEContent removes a learning item from the teacher's class.
func (s *SchoolService) DeleteEContent(ctx context.Context, id models.Identity, className, contentID string) error {
	if err := policy.Allow(id, policy.ActionManageEContent, policy.Context{ClassName: className}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := store.DeleteEContent(s.data, className, contentID)
	if !snapshotChanged(s.data, next) {
		return appErrors.ErrNotFound
	}
	s.commit(ctx, next)
	return nil
}

// UpdatePassword sets the stored password on the identity's own record and
// returns whether a record was touched.
func (s *SchoolService) UpdatePassword(ctx context.Context, id models.Identity, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next models.SchoolData
	switch {
	case id.Role == models.RoleTeacher && id.Teacher != nil:
		next = store.UpdateTeacherPassword(s.data, id.Teacher.ID, newPassword)
	case (id.Role == models.RoleStudent || id.Role == models.RoleParent) && id.Student != nil:
		next = store.UpdateStudentPassword(s.data, id.Student.ID, newPassword)
	default:
		return appErrors.Clone(appErrors.ErrForbidden, "password is fixed for this role")
	}

	if !snapshotChanged(s.data, next) {
		return appErrors.ErrNotFound
	}
	s.commit(ctx, next)
	return nil
}

// snapshotChanged relies on the store returning the identical input map for
// silent no-ops and a fresh top-level map otherwise.
func snapshotChanged(prev, next models.SchoolData) bool {
	return reflect.ValueOf(prev).Pointer() != reflect.ValueOf(next).Pointer()
}
