// Package policy is the single authorization table for the API. Every role
// branch that would otherwise be re-derived per handler lives here, keyed by
// (role, action), with contextual rules layered on top (class scope for
// teachers, self scope for students and parents, subject assignment for
// score edits).
package policy

import (
	"github.com/edubridge/edubridge-api/internal/models"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
)

// Action identifies a mutation or privileged read on the school data.
type Action string

const (
	ActionCreateClass          Action = "class.create"
	ActionDeleteClass          Action = "class.delete"
	ActionAddTeacher           Action = "teacher.add"
	ActionDeleteTeacher        Action = "teacher.delete"
	ActionUpdateTeacher        Action = "teacher.update"
	ActionSetAcademicHead      Action = "teacher.set_head"
	ActionUpdateTeacherClasses Action = "teacher.update_classes"
	ActionAddStudent           Action = "student.add"
	ActionRequestStudent       Action = "student.request"
	ActionDeleteStudent        Action = "student.delete"
	ActionUpdateScore          Action = "student.update_score"
	ActionUpdatePracticeScore  Action = "student.update_practice_score"
	ActionUpdateAttendance     Action = "student.update_attendance"
	ActionSelfMarkAttendance   Action = "student.self_mark_attendance"
	ActionUpdateSkills         Action = "student.update_skills"
	ActionUpdateProfilePic     Action = "student.update_profile_pic"
	ActionPayFees              Action = "student.pay_fees"
	ActionAddDocument          Action = "student.add_document"
	ActionDeleteDocument       Action = "student.delete_document"
	ActionManageEContent       Action = "class.manage_econtent"
	ActionResolveRequest       Action = "request.resolve"
	ActionAddNotice            Action = "notice.add"
	ActionViewRequests         Action = "request.view"
	ActionSelectStudent        Action = "nav.select_student"
	ActionSelectTeacher        Action = "nav.select_teacher"
	ActionSelectClass          Action = "nav.select_class"
)

// capabilities maps each role to the actions it may perform at all.
// Contextual narrowing (own class, own record, assigned subject) is applied
// in Allow on top of this table.
var capabilities = map[models.UserRole]map[Action]struct{}{
	models.RoleAdmin: setOf(
		ActionCreateClass, ActionDeleteClass,
		ActionAddTeacher, ActionDeleteTeacher, ActionUpdateTeacher,
		ActionSetAcademicHead, ActionUpdateTeacherClasses,
		ActionAddStudent, ActionDeleteStudent,
		ActionUpdateScore, ActionUpdateAttendance,
		ActionUpdateSkills, ActionUpdateProfilePic,
		ActionAddDocument, ActionDeleteDocument,
		ActionResolveRequest, ActionViewRequests, ActionAddNotice,
		ActionSelectStudent, ActionSelectTeacher, ActionSelectClass,
	),
	models.RoleTeacher: setOf(
		ActionRequestStudent,
		ActionUpdateScore, ActionUpdateAttendance, ActionUpdateSkills,
		ActionManageEContent,
		ActionSelectStudent,
	),
	models.RoleParent: setOf(
		ActionPayFees,
	),
	models.RoleStudent: setOf(
		ActionUpdatePracticeScore, ActionSelfMarkAttendance,
	),
}

func setOf(actions ...Action) map[Action]struct{} {
	set := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Context narrows an action to a concrete target.
type Context struct {
	ClassName string // target class, when class-scoped
	StudentID string // target student, when student-scoped
	Subject   string // target subject, for score edits
}

// Allow returns nil when the identity may perform the action on the target,
// or a forbidden error otherwise.
func Allow(id models.Identity, action Action, ctx Context) error {
	caps, ok := capabilities[id.Role]
	if !ok {
		return appErrors.ErrForbidden
	}
	if _, ok := caps[action]; !ok {
		return appErrors.ErrForbidden
	}

	switch id.Role {
	case models.RoleAdmin:
		return nil

	case models.RoleTeacher:
		if id.Teacher == nil {
			return appErrors.ErrUnauthorized
		}
		// Teacher writes are scoped to the class they logged in under.
		if ctx.ClassName != "" && ctx.ClassName != id.TeacherClass {
			return appErrors.Clone(appErrors.ErrForbidden, "outside your class")
		}
		// Official score edits require the subject to be assigned.
		if action == ActionUpdateScore {
			if !hasSubject(id.Teacher.Subjects, ctx.Subject) {
				return appErrors.Clone(appErrors.ErrForbidden, "subject not assigned to you")
			}
		}
		return nil

	case models.RoleParent, models.RoleStudent:
		if id.Student == nil {
			return appErrors.ErrUnauthorized
		}
		// Parent and student act only on their own record.
		if ctx.StudentID != "" && ctx.StudentID != id.Student.ID {
			return appErrors.Clone(appErrors.ErrForbidden, "not your record")
		}
		return nil
	}

	return appErrors.ErrForbidden
}

func hasSubject(subjects []string, subject string) bool {
	for _, s := range subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// CanViewStudent reports whether the identity may read the given student
// record at all.
func CanViewStudent(id models.Identity, s models.Student) bool {
	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return s.Class == id.TeacherClass
	case models.RoleParent, models.RoleStudent:
		return id.Student != nil && id.Student.ID == s.ID
	}
	return false
}

const restrictedPlaceholder = "Restricted"

// RedactStudent applies per-role field visibility. Contact and address are
// masked for every role outside Admin/Parent/Student viewing a profile,
// which in practice means teachers. Passwords never leave the API.
func RedactStudent(role models.UserRole, s models.Student) models.Student {
	s.Password = ""
	switch role {
	case models.RoleAdmin, models.RoleParent, models.RoleStudent:
		return s
	default:
		s.Contact = restrictedPlaceholder
		s.Address = restrictedPlaceholder
		return s
	}
}

// RedactTeacher strips credentials from a teacher record before it is
// returned to any caller.
func RedactTeacher(role models.UserRole, t models.Teacher) models.Teacher {
	t.Password = ""
	if role != models.RoleAdmin {
		t.LoginCode = ""
	}
	return t
}
