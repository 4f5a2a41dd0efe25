package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/edubridge-api/internal/models"
)

type persisterStub struct {
	mu    sync.Mutex
	saves []models.SchoolData
}

func (p *persisterStub) Save(ctx context.Context, data models.SchoolData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves = append(p.saves, data)
}

func (p *persisterStub) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

func newTestSchool(t *testing.T) (*SchoolService, *persisterStub) {
	t.Helper()
	stub := &persisterStub{}
	return NewSchoolService(testSchoolData(), stub, nil, nil), stub
}

func adminID() models.Identity {
	return models.Identity{SessionID: "s-a", Role: models.RoleAdmin}
}

func teacherID(school *SchoolService) models.Identity {
	data := school.Snapshot()
	teacher := data["6th"].Teachers[0]
	return models.Identity{
		SessionID: "s-t", Role: models.RoleTeacher,
		Teacher: &teacher, TeacherClass: "6th",
	}
}

func studentID(school *SchoolService) models.Identity {
	data := school.Snapshot()
	student := data["6th"].Students[0]
	return models.Identity{SessionID: "s-s", Role: models.RoleStudent, Student: &student}
}

func parentID(school *SchoolService) models.Identity {
	id := studentID(school)
	id.SessionID = "s-p"
	id.Role = models.RoleParent
	return id
}

func TestCreateClassCommitsAndPersists(t *testing.T) {
	school, stub := newTestSchool(t)
	ctx := context.Background()

	require.NoError(t, school.CreateClass(ctx, adminID(), "8th"))
	assert.Contains(t, school.Snapshot(), "8th")
	assert.Equal(t, 1, stub.count())

	err := school.CreateClass(ctx, adminID(), "8th")
	assert.Error(t, err)
	assert.Equal(t, 1, stub.count(), "failed mutations do not persist")

	err = school.CreateClass(ctx, teacherID(school), "9th")
	assert.Error(t, err, "structural changes are admin only")
}

func TestUpdateScoreTeacherScoping(t *testing.T) {
	school, stub := newTestSchool(t)
	ctx := context.Background()
	teacher := teacherID(school)

	require.NoError(t, school.UpdateScore(ctx, teacher, "stu-1", "Math", 91))
	assert.Equal(t, 91, school.Snapshot()["6th"].Students[0].Scores[0].Score)
	assert.Equal(t, 1, stub.count())

	err := school.UpdateScore(ctx, teacher, "stu-1", "History", 50)
	assert.Error(t, err, "subject not assigned")

	err = school.UpdateScore(ctx, teacher, "stu-404", "Math", 50)
	assert.Error(t, err)
}

func TestUpdateAttendanceClampsThroughService(t *testing.T) {
	school, _ := newTestSchool(t)
	ctx := context.Background()

	require.NoError(t, school.UpdateAttendance(ctx, adminID(), "stu-1", 500))
	got := school.Snapshot()["6th"].Students[0].Attendance
	assert.Equal(t, got.Total, got.Present)
}

func TestSelfMarkAttendanceIncrements(t *testing.T) {
	school, _ := newTestSchool(t)
	ctx := context.Background()

	before := school.Snapshot()["6th"].Students[0].Attendance.Present
	student, err := school.SelfMarkAttendance(ctx, studentID(school))
	require.NoError(t, err)
	assert.Equal(t, before+1, student.Attendance.Present)

	_, err = school.SelfMarkAttendance(ctx, parentID(school))
	assert.Error(t, err, "parents do not mark attendance")
}

func TestPayFeesParentSelfOnly(t *testing.T) {
	school, _ := newTestSchool(t)
	ctx := context.Background()

	student, err := school.PayFees(ctx, parentID(school), "stu-1")
	require.NoError(t, err)
	for _, fee := range student.Fees {
		assert.Equal(t, models.FeePaid, fee.Status)
	}

	_, err = school.PayFees(ctx, parentID(school), "stu-404")
	assert.Error(t, err)
}

func TestStudentsVisibility(t *testing.T) {
	school, _ := newTestSchool(t)
	ctx := context.Background()

	// Another class with a student the teacher must not see.
	require.NoError(t, school.CreateClass(ctx, adminID(), "8th"))
	_, err := school.AddStudent(ctx, adminID(), models.StudentPayload{
		Name: "Meera", Class: "8th", RollNumber: 801, GuardianName: "Mr. Iyer",
	}, "")
	require.NoError(t, err)

	all := school.Students(adminID())
	assert.Len(t, all, 2)

	visible := school.Students(teacherID(school))
	require.Len(t, visible, 1)
	assert.Equal(t, "stu-1", visible[0].ID)
	assert.Equal(t, "Restricted", visible[0].Contact, "teacher view masks PII")

	own := school.Students(studentID(school))
	require.Len(t, own, 1)
	assert.Equal(t, "stu-1", own[0].ID)
	assert.Empty(t, own[0].Password)
}

func TestStudentReadEnforcesVisibility(t *testing.T) {
	school, _ := newTestSchool(t)
	ctx := context.Background()

	require.NoError(t, school.CreateClass(ctx, adminID(), "8th"))
	other, err := school.AddStudent(ctx, adminID(), models.StudentPayload{
		Name: "Meera", Class: "8th", RollNumber: 801, GuardianName: "Mr. Iyer",
	}, "")
	require.NoError(t, err)

	_, err = school.Student(teacherID(school), other.ID)
	assert.Error(t, err, "outside the login class")

	record, err := school.Student(adminID(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, record.ID)
}

func TestResolveIdentityAfterDeletion(t *testing.T) {
	school, _ := newTestSchool(t)
	ctx := context.Background()

	claims := &models.SessionClaims{
		SessionID: "s-t", Role: models.RoleTeacher, TeacherID: "T-1", TeacherClass: "6th",
	}
	identity, err := school.ResolveIdentity(claims)
	require.NoError(t, err)
	assert.Equal(t, "T-1", identity.Teacher.ID)

	require.NoError(t, school.DeleteTeacher(ctx, adminID(), "6th", "T-1"))
	_, err = school.ResolveIdentity(claims)
	assert.Error(t, err, "deleted entities lose access on the next request")
}

func TestSetAcademicHeadConflict(t *testing.T) {
	school, _ := newTestSchool(t)
	ctx := context.Background()

	// T-1 heads 6th; move them into 7th's roster and try to head it too.
	require.NoError(t, school.UpdateTeacherClasses(ctx, adminID(), "T-1", []string{"6th", "7th"}))
	err := school.SetAcademicHead(ctx, adminID(), "7th", "T-1")
	assert.Error(t, err)

	require.NoError(t, school.SetAcademicHead(ctx, adminID(), "7th", "T-2"))
	assert.Equal(t, "T-2", school.Snapshot()["7th"].AcademicHeadID)
}

func TestSchoolViewScoping(t *testing.T) {
	school, _ := newTestSchool(t)

	adminView := school.SchoolView(adminID())
	assert.Len(t, adminView, 2)

	teacherView := school.SchoolView(teacherID(school))
	require.Len(t, teacherView, 1)
	assert.Contains(t, teacherView, "6th")

	studentView := school.SchoolView(studentID(school))
	require.Len(t, studentView, 1)
	for _, class := range studentView {
		for _, st := range class.Students {
			assert.Empty(t, st.Password)
		}
	}
}

func TestUpdateTeacherMergesProfileFields(t *testing.T) {
	school, _ := newTestSchool(t)
	ctx := context.Background()

	require.NoError(t, school.UpdateTeacher(ctx, adminID(), models.Teacher{
		ID: "T-1", Name: "Mrs. A. Sharma", LoginCode: "T-SHARMA6",
	}))

	got := school.Snapshot()["6th"].Teachers[0]
	assert.Equal(t, "Mrs. A. Sharma", got.Name)
	assert.Equal(t, []string{"Math"}, got.Subjects, "subject list survives profile edits")
}
