package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/policy"
	appErrors "github.com/edubridge/edubridge-api/pkg/errors"
)

// RequestService keeps the teacher-submitted student admission queue.
// Requests are runtime state only; they are not part of the persisted
// snapshot and do not survive a restart.
type RequestService struct {
	school *SchoolService
	logger *zap.Logger

	mu        sync.Mutex
	requests  []models.StudentRequest
	resolving map[string]struct{}
}

// NewRequestService constructs an empty queue.
func NewRequestService(school *SchoolService, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{school: school, logger: logger, resolving: make(map[string]struct{})}
}

// Submit queues a student for admin review. Teachers may only request into
// their own class.
func (s *RequestService) Submit(id models.Identity, payload models.StudentPayload) (models.StudentRequest, error) {
	if err := policy.Allow(id, policy.ActionRequestStudent, policy.Context{ClassName: payload.Class}); err != nil {
		return models.StudentRequest{}, err
	}

	teacherName := string(id.Role)
	if id.Teacher != nil {
		teacherName = id.Teacher.Name
	}
	req := models.StudentRequest{
		ID:          "req-" + uuid.NewString(),
		Student:     payload,
		TeacherName: teacherName,
		Status:      models.RequestPending,
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	s.logger.Info("student request submitted",
		zap.String("request_id", req.ID),
		zap.String("class", payload.Class))
	return req, nil
}

// List returns the full queue, newest first.
func (s *RequestService) List(id models.Identity) ([]models.StudentRequest, error) {
	if err := policy.Allow(id, policy.ActionViewRequests, policy.Context{}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StudentRequest, len(s.requests))
	for i, r := range s.requests {
		out[len(s.requests)-1-i] = r
	}
	return out, nil
}

// PendingCount reports how many requests still await a decision. Used for
// the admin sidebar badge, so it takes no identity.
func (s *RequestService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Status == models.RequestPending {
			n++
		}
	}
	return n
}

// Approve admits the requested student. When the target class vanished
// between submission and review the request stays pending and the caller
// gets a conflict, so the admin can recreate the class or deny instead.
func (s *RequestService) Approve(ctx context.Context, id models.Identity, requestID string) (models.Student, error) {
	if err := policy.Allow(id, policy.ActionResolveRequest, policy.Context{}); err != nil {
		return models.Student{}, err
	}

	s.mu.Lock()
	idx := s.find(requestID)
	if idx < 0 {
		s.mu.Unlock()
		return models.Student{}, appErrors.ErrNotFound
	}
	if s.requests[idx].Status != models.RequestPending {
		s.mu.Unlock()
		return models.Student{}, appErrors.ErrRequestResolved
	}
	// Claim the request before releasing the lock: a second approval (or a
	// deny) racing this one conflicts instead of admitting the student twice.
	if _, busy := s.resolving[requestID]; busy {
		s.mu.Unlock()
		return models.Student{}, appErrors.Clone(appErrors.ErrRequestResolved, "request is being resolved")
	}
	s.resolving[requestID] = struct{}{}
	payload := s.requests[idx].Student
	s.mu.Unlock()

	student, err := s.school.addStudent(ctx, payload, "")

	s.mu.Lock()
	delete(s.resolving, requestID)
	if err == nil {
		if idx = s.find(requestID); idx >= 0 {
			s.requests[idx].Status = models.RequestApproved
		}
	}
	s.mu.Unlock()

	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrClassNotFound.Code {
			return models.Student{}, appErrors.Clone(appErrors.ErrConflict, "target class no longer exists")
		}
		return models.Student{}, err
	}

	s.logger.Info("student request approved",
		zap.String("request_id", requestID),
		zap.String("student_id", student.ID))
	return student, nil
}

// Deny rejects a pending request.
func (s *RequestService) Deny(id models.Identity, requestID string) error {
	if err := policy.Allow(id, policy.ActionResolveRequest, policy.Context{}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.find(requestID)
	if idx < 0 {
		return appErrors.ErrNotFound
	}
	if _, busy := s.resolving[requestID]; busy {
		return appErrors.Clone(appErrors.ErrRequestResolved, "request is being resolved")
	}
	if s.requests[idx].Status != models.RequestPending {
		return appErrors.ErrRequestResolved
	}
	s.requests[idx].Status = models.RequestDenied
	return nil
}

// find returns the index of the request, or -1. Caller holds the lock.
func (s *RequestService) find(requestID string) int {
	for i, r := range s.requests {
		if r.ID == requestID {
			return i
		}
	}
	return -1
}
