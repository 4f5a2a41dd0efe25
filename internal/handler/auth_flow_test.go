package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/edubridge-api/internal/middleware"
	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/service"
	"github.com/edubridge/edubridge-api/pkg/config"
	"github.com/edubridge/edubridge-api/pkg/response"
)

func testData() models.SchoolData {
	return models.SchoolData{
		"6th": {
			Students: []models.Student{
				{ID: "stu-1", Name: "Aarav Sharma", Class: "6th", RollNumber: 601,
					GuardianName: "Rajesh Sharma", Contact: "9876500001", Address: "12 Lake Road",
					Attendance: models.Attendance{Total: 200, Present: 180}},
			},
			Teachers: []models.Teacher{
				{ID: "T-1", Name: "Mrs. Sharma", LoginCode: "T-SHARMA6", Subjects: []string{"Math"}},
			},
			AcademicHeadID: "T-1",
		},
	}
}

type testEnv struct {
	router *gin.Engine
	auth   *service.AuthService
	school *service.SchoolService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	school := service.NewSchoolService(testData(), nil, nil, nil)
	auth := service.NewAuthService(school,
		config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "test"},
		config.AuthConfig{MasterPassword: "1234", DefaultPassword: "1234"},
		nil)

	authHandler := NewAuthHandler(auth, nil)
	studentHandler := NewStudentHandler(school, auth, nil)

	r := gin.New()
	r.POST("/api/v1/auth/login", authHandler.Login)

	session := r.Group("/api/v1")
	session.Use(middleware.Session(auth, school))
	session.POST("/auth/logout", authHandler.Logout)
	session.GET("/me", authHandler.Me)
	session.GET("/students/:id", studentHandler.Get)
	session.PUT("/students/:id/scores", studentHandler.UpdateScore)

	return &testEnv{router: r, auth: auth, school: school}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, req models.LoginRequest) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", "", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)
	return envelope.Data.Token
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	token := env.login(t, models.LoginRequest{Role: models.RoleTeacher, Code: "T-SHARMA6", Password: "1234"})

	w := env.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.Identity `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.Teacher)
	assert.Equal(t, "T-1", envelope.Data.Teacher.ID)
	assert.Empty(t, envelope.Data.Teacher.Password)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "",
		models.LoginRequest{Role: models.RoleTeacher, Code: "T-SHARMA6", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, models.LoginRequest{Role: models.RoleStudent, Code: "601", Password: "1234"})

	w := env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestScoreUpdateEnforcesPolicyOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	teacherToken := env.login(t, models.LoginRequest{Role: models.RoleTeacher, Code: "T-SHARMA6", Password: "1234"})

	w := env.do(t, http.MethodPut, "/api/v1/students/stu-1/scores", teacherToken,
		map[string]interface{}{"subject": "Math", "score": 92})
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// Unassigned subject is forbidden.
	w = env.do(t, http.MethodPut, "/api/v1/students/stu-1/scores", teacherToken,
		map[string]interface{}{"subject": "History", "score": 60})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Out-of-range score is rejected at the boundary.
	w = env.do(t, http.MethodPut, "/api/v1/students/stu-1/scores", teacherToken,
		map[string]interface{}{"subject": "Math", "score": 150})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Students cannot set official scores.
	studentToken := env.login(t, models.LoginRequest{Role: models.RoleStudent, Code: "601", Password: "1234"})
	w = env.do(t, http.MethodPut, "/api/v1/students/stu-1/scores", studentToken,
		map[string]interface{}{"subject": "Math", "score": 100})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStudentRecordRedactionOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	teacherToken := env.login(t, models.LoginRequest{Role: models.RoleTeacher, Code: "T-SHARMA6", Password: "1234"})

	w := env.do(t, http.MethodGet, "/api/v1/students/stu-1", teacherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.Student `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Restricted", envelope.Data.Contact)
	assert.Equal(t, "Restricted", envelope.Data.Address)
	assert.Empty(t, envelope.Data.Password)
}
