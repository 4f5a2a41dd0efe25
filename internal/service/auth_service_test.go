package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "edubridge-test"}
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{MasterPassword: "master-9", DefaultPassword: "1234"}
}

func testSchoolData() models.SchoolData {
	return models.SchoolData{
		"6th": {
			Students: []models.Student{
				{ID: "stu-1", Name: "Aarav Sharma", Class: "6th", RollNumber: 601,
					GuardianName: "Rajesh Sharma", Contact: "9876500001", Address: "12 Lake Road",
					Attendance: models.Attendance{Total: 200, Present: 180},
					Fees: []models.Fee{
						{ID: "fee-1", Type: models.FeeTuition, Amount: 1500, Status: models.FeeDue},
					},
				},
			},
			Teachers: []models.Teacher{
				{ID: "T-1", Name: "Mrs. Sharma", LoginCode: "T-SHARMA6", Subjects: []string{"Math"}},
			},
			AcademicHeadID: "T-1",
		},
		"7th": {
			Teachers: []models.Teacher{
				{ID: "T-2", Name: "Mr. Verma", LoginCode: "T-VERMA7", Password: "custom-pw"},
			},
		},
	}
}

func newTestAuth(t *testing.T) (*AuthService, *SchoolService) {
	t.Helper()
	school := NewSchoolService(testSchoolData(), nil, nil, nil)
	auth := NewAuthService(school, testJWTConfig(), testAuthConfig(), nil)
	return auth, school
}

func TestLoginAdmin(t *testing.T) {
	auth, _ := newTestAuth(t)

	res, err := auth.Login(models.LoginRequest{Role: models.RoleAdmin, Password: "master-9"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, models.RoleAdmin, res.Identity.Role)

	_, err = auth.Login(models.LoginRequest{Role: models.RoleAdmin, Password: "wrong"})
	assert.Error(t, err)
}

func TestLoginAdminRejectsDefaultPassword(t *testing.T) {
	auth, _ := newTestAuth(t)

	// The record default "1234" opens teacher/student/parent accounts only;
	// admin access takes the master password alone.
	_, err := auth.Login(models.LoginRequest{Role: models.RoleAdmin, Password: "1234"})
	assert.Error(t, err)
}

func TestLoginTeacher(t *testing.T) {
	auth, _ := newTestAuth(t)

	res, err := auth.Login(models.LoginRequest{Role: models.RoleTeacher, Code: "T-SHARMA6", Password: "1234"})
	require.NoError(t, err)
	require.NotNil(t, res.Identity.Teacher)
	assert.Equal(t, "T-1", res.Identity.Teacher.ID)
	assert.Equal(t, "6th", res.Identity.TeacherClass)
	assert.Empty(t, res.Identity.Teacher.Password, "credentials never leave the API")

	// Per-record password overrides the default.
	_, err = auth.Login(models.LoginRequest{Role: models.RoleTeacher, Code: "T-VERMA7", Password: "1234"})
	assert.Error(t, err)
	_, err = auth.Login(models.LoginRequest{Role: models.RoleTeacher, Code: "T-VERMA7", Password: "custom-pw"})
	assert.NoError(t, err)

	_, err = auth.Login(models.LoginRequest{Role: models.RoleTeacher, Code: "T-NOBODY", Password: "1234"})
	assert.Error(t, err)
}

func TestLoginStudentByRoll(t *testing.T) {
	auth, _ := newTestAuth(t)

	res, err := auth.Login(models.LoginRequest{Role: models.RoleStudent, Code: "601", Password: "1234"})
	require.NoError(t, err)
	require.NotNil(t, res.Identity.Student)
	assert.Equal(t, "stu-1", res.Identity.Student.ID)

	_, err = auth.Login(models.LoginRequest{Role: models.RoleStudent, Code: "999", Password: "1234"})
	assert.Error(t, err)
}

func TestLoginParentMatchesGuardianName(t *testing.T) {
	auth, _ := newTestAuth(t)

	res, err := auth.Login(models.LoginRequest{
		Role: models.RoleParent, Code: "601", Name: "  rajesh sharma ", Password: "1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "stu-1", res.Identity.Student.ID)
	assert.Equal(t, "9876500001", res.Identity.Student.Contact, "parents see full contact details")

	_, err = auth.Login(models.LoginRequest{
		Role: models.RoleParent, Code: "601", Name: "Someone Else", Password: "1234",
	})
	assert.Error(t, err)
}

func TestLoginMasterPasswordOverrides(t *testing.T) {
	auth, _ := newTestAuth(t)

	// Overrides the per-record password.
	_, err := auth.Login(models.LoginRequest{Role: models.RoleTeacher, Code: "T-VERMA7", Password: "master-9"})
	assert.NoError(t, err)

	// But never conjures a missing record.
	_, err = auth.Login(models.LoginRequest{Role: models.RoleTeacher, Code: "T-NOBODY", Password: "master-9"})
	assert.Error(t, err)
}

func TestLoginIsRepeatable(t *testing.T) {
	auth, _ := newTestAuth(t)
	req := models.LoginRequest{Role: models.RoleStudent, Code: "601", Password: "1234"}

	first, err := auth.Login(req)
	require.NoError(t, err)
	second, err := auth.Login(req)
	require.NoError(t, err)

	assert.NotEqual(t, first.Identity.SessionID, second.Identity.SessionID,
		"each login is its own session")
}

func TestValidateTokenAndLogout(t *testing.T) {
	auth, _ := newTestAuth(t)

	res, err := auth.Login(models.LoginRequest{Role: models.RoleTeacher, Code: "T-SHARMA6", Password: "1234"})
	require.NoError(t, err)

	claims, err := auth.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "T-1", claims.TeacherID)
	assert.Equal(t, res.Identity.SessionID, claims.SessionID)

	auth.Logout(claims.SessionID)
	_, err = auth.ValidateToken(res.Token)
	assert.Error(t, err, "revoked sessions are rejected")

	_, err = auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestClaimDailySelfMarkOncePerDay(t *testing.T) {
	auth, _ := newTestAuth(t)
	day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return day }

	require.NoError(t, auth.ClaimDailySelfMark("session-1"))
	assert.Error(t, auth.ClaimDailySelfMark("session-1"))

	// A different session has its own marker.
	assert.NoError(t, auth.ClaimDailySelfMark("session-2"))

	// The next day resets the marker.
	auth.now = func() time.Time { return day.Add(24 * time.Hour) }
	assert.NoError(t, auth.ClaimDailySelfMark("session-1"))
}

func TestChangePassword(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	res, err := auth.Login(models.LoginRequest{Role: models.RoleStudent, Code: "601", Password: "1234"})
	require.NoError(t, err)

	err = auth.ChangePassword(ctx, res.Identity, "new-pass")
	require.NoError(t, err)

	_, err = auth.Login(models.LoginRequest{Role: models.RoleStudent, Code: "601", Password: "1234"})
	assert.Error(t, err, "old password no longer valid")
	_, err = auth.Login(models.LoginRequest{Role: models.RoleStudent, Code: "601", Password: "new-pass"})
	assert.NoError(t, err)

	err = auth.ChangePassword(ctx, models.Identity{Role: models.RoleAdmin}, "whatever")
	assert.Error(t, err, "admin password is configuration")
}
