package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/policy"
	"github.com/edubridge/edubridge-api/internal/store"
	"github.com/edubridge/edubridge-api/pkg/config"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
)

// AuthService resolves role-specific credentials against the current
// snapshot and issues signed session tokens. Sessions are stateless except
// for the revocation set (logout) and the once-per-day self-attendance
// markers, both of which are session-scoped and lost on restart.
type AuthService struct {
	school *SchoolService
	jwtCfg config.JWTConfig
	auth   config.AuthConfig
	logger *zap.Logger

	mu        sync.Mutex
	revoked   map[string]struct{}
	selfMarks map[string]string // session ID -> YYYY-MM-DD of last self mark
	now       func() time.Time
}

// NewAuthService constructs the service.
func NewAuthService(school *SchoolService, jwtCfg config.JWTConfig, authCfg config.AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		school:    school,
		jwtCfg:    jwtCfg,
		auth:      authCfg,
		logger:    logger,
		revoked:   make(map[string]struct{}),
		selfMarks: make(map[string]string),
		now:       time.Now,
	}
}

// Login validates the role-specific credentials and returns a session token.
// The master password overrides any per-record password but never conjures a
// missing record; failures are uniform so the caller cannot probe which
// field was wrong.
func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	if !req.Role.Valid() {
		return nil, appErrors.ErrLoginFailed
	}

	data := s.school.Snapshot()
	master := req.Password == s.auth.MasterPassword

	claims := models.SessionClaims{
		SessionID: uuid.NewString(),
		Role:      req.Role,
	}
	identity := models.Identity{SessionID: claims.SessionID, Role: req.Role}

	switch req.Role {
	case models.RoleAdmin:
		// Admin has no stored record; only the master password opens it.
		if !master {
			return nil, appErrors.ErrLoginFailed
		}

	case models.RoleTeacher:
		teacher, className, ok := store.FindTeacherByCode(data, req.Code)
		if !ok {
			return nil, appErrors.ErrLoginFailed
		}
		if !master && req.Password != s.effectivePassword(teacher.Password) {
			return nil, appErrors.ErrLoginFailed
		}
		claims.TeacherID = teacher.ID
		claims.TeacherClass = className
		identity.Teacher = &teacher
		identity.TeacherClass = className

	case models.RoleStudent:
		student, _, ok := store.FindStudentByRoll(data, req.Code)
		if !ok {
			return nil, appErrors.ErrLoginFailed
		}
		if !master && req.Password != s.effectivePassword(student.Password) {
			return nil, appErrors.ErrLoginFailed
		}
		claims.StudentID = student.ID
		identity.Student = &student

	case models.RoleParent:
		student, _, ok := store.FindStudentByRoll(data, req.Code)
		if !ok {
			return nil, appErrors.ErrLoginFailed
		}
		if !strings.EqualFold(strings.TrimSpace(req.Name), strings.TrimSpace(student.GuardianName)) {
			return nil, appErrors.ErrLoginFailed
		}
		if !master && req.Password != s.effectivePassword(student.Password) {
			return nil, appErrors.ErrLoginFailed
		}
		claims.StudentID = student.ID
		identity.Student = &student
	}

	issuedAt := s.now()
	token, err := s.signToken(&claims, issuedAt)
	if err != nil {
		s.logger.Error("failed to sign session token", zap.Error(err))
		return nil, appErrors.ErrInternal
	}

	if identity.Student != nil {
		redacted := policy.RedactStudent(req.Role, *identity.Student)
		identity.Student = &redacted
	}
	if identity.Teacher != nil {
		redacted := policy.RedactTeacher(req.Role, *identity.Teacher)
		identity.Teacher = &redacted
	}

	s.logger.Info("login succeeded",
		zap.String("role", string(req.Role)),
		zap.String("session_id", claims.SessionID))

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.jwtCfg.Expiration.Seconds()),
		IssuedAt:  issuedAt,
		Identity:  identity,
	}, nil
}

// effectivePassword falls back to the default when the record carries none.
func (s *AuthService) effectivePassword(stored string) string {
	if stored == "" {
		return s.auth.DefaultPassword
	}
	return stored
}

func (s *AuthService) signToken(claims *models.SessionClaims, issuedAt time.Time) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.jwtCfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.jwtCfg.Expiration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

// ValidateToken parses and verifies a session token, rejecting revoked
// sessions.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.SessionID]
	s.mu.Unlock()
	if revoked {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session has been logged out")
	}
	return claims, nil
}

// Logout revokes the session and drops its self-attendance marker.
func (s *AuthService) Logout(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[sessionID] = struct{}{}
	delete(s.selfMarks, sessionID)
}

// ClaimDailySelfMark records that the session marked attendance today.
// Returns a conflict when the session already marked today.
func (s *AuthService) ClaimDailySelfMark(sessionID string) error {
	today := s.now().Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selfMarks[sessionID] == today {
		return appErrors.ErrAlreadyMarkedToday
	}
	s.selfMarks[sessionID] = today
	return nil
}

// ChangePassword updates the caller's own stored password. The Admin
// password is configuration, not record state, so Admin is rejected.
func (s *AuthService) ChangePassword(ctx context.Context, id models.Identity, newPassword string) error {
	if id.Role == models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "admin password is configured, not stored")
	}
	return s.school.UpdatePassword(ctx, id, newPassword)
}
