package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/edubridge-api/internal/models"
)

func TestNoticeVisibilityAndOrdering(t *testing.T) {
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	seed := []models.Notice{
		{ID: "n-1", Title: "Staff meeting", Date: base,
			TargetAudience: []models.UserRole{models.RoleTeacher}},
		{ID: "n-2", Title: "Fee reminder", Date: base.Add(time.Hour),
			TargetAudience: []models.UserRole{models.RoleParent}},
		{ID: "n-3", Title: "Sports day", Date: base.Add(2 * time.Hour),
			TargetAudience: []models.UserRole{models.RoleStudent, models.RoleParent, models.RoleTeacher}},
	}
	notices := NewNoticeService(seed, nil, nil)

	admin := notices.List(models.Identity{Role: models.RoleAdmin})
	require.Len(t, admin, 3, "admin sees everything")
	assert.Equal(t, "n-3", admin[0].ID, "newest first")

	parents := notices.List(models.Identity{Role: models.RoleParent})
	require.Len(t, parents, 2)
	assert.Equal(t, "n-3", parents[0].ID)
	assert.Equal(t, "n-2", parents[1].ID)

	students := notices.List(models.Identity{Role: models.RoleStudent})
	require.Len(t, students, 1)
}

func TestAddNotice(t *testing.T) {
	notices := NewNoticeService(nil, nil, nil)
	notices.now = func() time.Time { return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC) }

	created, err := notices.Add(models.Identity{Role: models.RoleAdmin}, PublishNoticeRequest{
		Title:    "Exam schedule",
		Content:  "Half-yearly exams start March 3rd.",
		Audience: []models.UserRole{models.RoleStudent},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Admin", created.IssuedBy)

	_, err = notices.Add(models.Identity{Role: models.RoleTeacher}, PublishNoticeRequest{Title: "x", Content: "y"})
	assert.Error(t, err, "publishing is admin only")

	_, err = notices.Add(models.Identity{Role: models.RoleAdmin}, PublishNoticeRequest{
		Title: "x", Content: "y", Audience: []models.UserRole{"Alien"},
	})
	assert.Error(t, err)

	_, err = notices.Add(models.Identity{Role: models.RoleAdmin}, PublishNoticeRequest{Title: "x"})
	assert.Error(t, err, "content is required")
}

func TestAddNoticeDefaultsAudience(t *testing.T) {
	notices := NewNoticeService(nil, nil, nil)

	created, err := notices.Add(models.Identity{Role: models.RoleAdmin}, PublishNoticeRequest{
		Title: "Holiday", Content: "School closed Monday.",
	})
	require.NoError(t, err)
	assert.Len(t, created.TargetAudience, 4)

	for _, role := range []models.UserRole{models.RoleTeacher, models.RoleParent, models.RoleStudent} {
		assert.Len(t, notices.List(models.Identity{Role: role}), 1)
	}
}
