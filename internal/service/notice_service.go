package service

import (
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/policy"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
)

// PublishNoticeRequest captures the notice payload. An empty audience means
// the notice targets every role.
type PublishNoticeRequest struct {
	Title    string            `json:"title" validate:"required"`
	Content  string            `json:"content" validate:"required"`
	Audience []models.UserRole `json:"targetAudience" validate:"omitempty,dive,school_role"`
}

// NoticeService keeps the school notice board. Like the request queue it is
// runtime state, seeded on startup and append-only.
type NoticeService struct {
	validator *validator.Validate
	logger    *zap.Logger

	mu      sync.RWMutex
	notices []models.Notice
	now     func() time.Time
}

// NewNoticeService constructs the board with the given starter notices.
func NewNoticeService(seed []models.Notice, validate *validator.Validate, logger *zap.Logger) *NoticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NoticeService{validator: validate, logger: logger, notices: seed, now: time.Now}
	svc.validator.RegisterValidation("school_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})
	return svc
}

// List returns the notices visible to the identity's role, newest first.
func (s *NoticeService) List(id models.Identity) []models.Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Notice, 0, len(s.notices))
	for _, n := range s.notices {
		if n.VisibleTo(id.Role) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Add publishes a notice to the board.
func (s *NoticeService) Add(id models.Identity, req PublishNoticeRequest) (models.Notice, error) {
	if err := policy.Allow(id, policy.ActionAddNotice, policy.Context{}); err != nil {
		return models.Notice{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return models.Notice{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}
	audience := req.Audience
	if len(audience) == 0 {
		audience = []models.UserRole{models.RoleAdmin, models.RoleTeacher, models.RoleParent, models.RoleStudent}
	}

	notice := models.Notice{
		ID:             "ntc-" + uuid.NewString(),
		Title:          req.Title,
		Content:        req.Content,
		Date:           s.now(),
		TargetAudience: audience,
		IssuedBy:       string(id.Role),
	}

	s.mu.Lock()
	s.notices = append(s.notices, notice)
	s.mu.Unlock()

	s.logger.Info("notice published", zap.String("notice_id", notice.ID), zap.String("title", req.Title))
	return notice, nil
}
