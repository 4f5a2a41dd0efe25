package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edubridge/edubridge-api/internal/models"
)

func adminIdentity() models.Identity {
	return models.Identity{SessionID: "s-admin", Role: models.RoleAdmin}
}

func teacherIdentity() models.Identity {
	return models.Identity{
		SessionID: "s-teacher",
		Role:      models.RoleTeacher,
		Teacher: &models.Teacher{
			ID: "T-1", Name: "Mrs. Sharma", Subjects: []string{"Math", "Physics"},
		},
		TeacherClass: "6th",
	}
}

func studentIdentity() models.Identity {
	return models.Identity{
		SessionID: "s-student",
		Role:      models.RoleStudent,
		Student:   &models.Student{ID: "stu-1", Class: "6th"},
	}
}

func parentIdentity() models.Identity {
	id := studentIdentity()
	id.Role = models.RoleParent
	return id
}

func TestAdminMayDoEverythingStructural(t *testing.T) {
	admin := adminIdentity()
	for _, action := range []Action{
		ActionCreateClass, ActionDeleteClass, ActionAddTeacher, ActionDeleteTeacher,
		ActionSetAcademicHead, ActionAddStudent, ActionDeleteStudent,
		ActionResolveRequest, ActionAddNotice,
	} {
		assert.NoError(t, Allow(admin, action, Context{}), string(action))
	}
	// But no role gets actions outside its table.
	assert.Error(t, Allow(admin, ActionSelfMarkAttendance, Context{}))
}

func TestTeacherClassScope(t *testing.T) {
	teacher := teacherIdentity()

	assert.NoError(t, Allow(teacher, ActionUpdateAttendance, Context{ClassName: "6th", StudentID: "stu-1"}))
	assert.Error(t, Allow(teacher, ActionUpdateAttendance, Context{ClassName: "7th", StudentID: "stu-9"}))
	assert.Error(t, Allow(teacher, ActionCreateClass, Context{}), "structural changes are admin only")
	assert.Error(t, Allow(teacher, ActionAddStudent, Context{ClassName: "6th"}), "teachers request, admins add")
	assert.NoError(t, Allow(teacher, ActionRequestStudent, Context{ClassName: "6th"}))
	assert.NoError(t, Allow(teacher, ActionManageEContent, Context{ClassName: "6th"}))
}

func TestTeacherSubjectAssignment(t *testing.T) {
	teacher := teacherIdentity()

	assert.NoError(t, Allow(teacher, ActionUpdateScore, Context{ClassName: "6th", Subject: "Math"}))
	assert.Error(t, Allow(teacher, ActionUpdateScore, Context{ClassName: "6th", Subject: "History"}))
}

func TestStudentSelfScope(t *testing.T) {
	student := studentIdentity()

	assert.NoError(t, Allow(student, ActionUpdatePracticeScore, Context{StudentID: "stu-1"}))
	assert.Error(t, Allow(student, ActionUpdatePracticeScore, Context{StudentID: "stu-2"}))
	assert.Error(t, Allow(student, ActionUpdateScore, Context{StudentID: "stu-1", Subject: "Math"}),
		"official scores are teacher territory")
	assert.NoError(t, Allow(student, ActionSelfMarkAttendance, Context{StudentID: "stu-1"}))
}

func TestParentPaysFeesOnlyForOwnChild(t *testing.T) {
	parent := parentIdentity()

	assert.NoError(t, Allow(parent, ActionPayFees, Context{StudentID: "stu-1"}))
	assert.Error(t, Allow(parent, ActionPayFees, Context{StudentID: "stu-2"}))
	assert.Error(t, Allow(parent, ActionUpdateAttendance, Context{StudentID: "stu-1"}))
}

func TestCanViewStudent(t *testing.T) {
	record := models.Student{ID: "stu-1", Class: "6th"}
	other := models.Student{ID: "stu-2", Class: "7th"}

	assert.True(t, CanViewStudent(adminIdentity(), record))
	assert.True(t, CanViewStudent(teacherIdentity(), record))
	assert.False(t, CanViewStudent(teacherIdentity(), other), "outside the login class")
	assert.True(t, CanViewStudent(parentIdentity(), record))
	assert.False(t, CanViewStudent(parentIdentity(), other))
}

func TestRedactStudent(t *testing.T) {
	record := models.Student{
		ID: "stu-1", Contact: "9876500001", Address: "12 Lake Road", Password: "secret",
	}

	forTeacher := RedactStudent(models.RoleTeacher, record)
	assert.Equal(t, "Restricted", forTeacher.Contact)
	assert.Equal(t, "Restricted", forTeacher.Address)
	assert.Empty(t, forTeacher.Password)

	forParent := RedactStudent(models.RoleParent, record)
	assert.Equal(t, "9876500001", forParent.Contact)
	assert.Empty(t, forParent.Password)

	forAdmin := RedactStudent(models.RoleAdmin, record)
	assert.Equal(t, "12 Lake Road", forAdmin.Address)
	assert.Empty(t, forAdmin.Password)
}

func TestRedactTeacher(t *testing.T) {
	record := models.Teacher{ID: "T-1", LoginCode: "T-SHARMA6", Password: "secret"}

	forAdmin := RedactTeacher(models.RoleAdmin, record)
	assert.Equal(t, "T-SHARMA6", forAdmin.LoginCode)
	assert.Empty(t, forAdmin.Password)

	forStudent := RedactTeacher(models.RoleStudent, record)
	assert.Empty(t, forStudent.LoginCode)
	assert.Empty(t, forStudent.Password)
}
