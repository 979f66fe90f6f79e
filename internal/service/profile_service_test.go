package service

import (
	"context"
	"testing"

	"testprep-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memProfileStore struct {
	profiles map[string]models.UserProfile
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[string]models.UserProfile)}
}

func (s *memProfileStore) Load(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

func (s *memProfileStore) Save(ctx context.Context, profile *models.UserProfile) error {
	s.profiles[profile.UserID] = *profile
	return nil
}

func TestProfileGetCreatesDefault(t *testing.T) {
	store := newMemProfileStore()
	svc := NewProfileService(store)
	ctx := context.Background()

	profile, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.UserID)
	assert.Empty(t, profile.CompletedTests)
	assert.Zero(t, profile.TotalStudyTime)

	_, ok := store.profiles["user-1"]
	assert.True(t, ok, "default profile should be persisted on first access")

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, models.ErrAuthRequired)
}

func TestProfileTargetScoreAndWeakAreas(t *testing.T) {
	svc := NewProfileService(newMemProfileStore())
	ctx := context.Background()

	profile, err := svc.SetTargetScore(ctx, "user-1", models.TestTypeSAT, 1400)
	require.NoError(t, err)
	assert.Equal(t, 1400, profile.TargetScore.SAT)

	profile, err = svc.SetTargetScore(ctx, "user-1", models.TestTypeACT, 32)
	require.NoError(t, err)
	assert.Equal(t, 1400, profile.TargetScore.SAT)
	assert.Equal(t, 32, profile.TargetScore.ACT)

	profile, err = svc.UpdateWeakAreas(ctx, "user-1", []string{"geometry", "punctuation"})
	require.NoError(t, err)
	assert.Equal(t, []string{"geometry", "punctuation"}, profile.WeakAreas)
}

func TestProfileCompletionDedupe(t *testing.T) {
	svc := NewProfileService(newMemProfileStore())
	ctx := context.Background()

	require.NoError(t, svc.AddCompletedTest(ctx, "user-1", "sat-1"))
	require.NoError(t, svc.AddCompletedTest(ctx, "user-1", "sat-1"))
	require.NoError(t, svc.AddCompletedPractice(ctx, "user-1", "practice-1"))
	require.NoError(t, svc.AddCompletedPractice(ctx, "user-1", "practice-1"))

	profile, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sat-1"}, profile.CompletedTests)
	assert.Equal(t, []string{"practice-1"}, profile.CompletedPractice)
}

func TestProfileStudyCounters(t *testing.T) {
	svc := NewProfileService(newMemProfileStore())
	ctx := context.Background()

	require.NoError(t, svc.AddStudyTime(ctx, "user-1", 25))
	require.NoError(t, svc.AddStudyTime(ctx, "user-1", 5))
	require.NoError(t, svc.IncrementStudyStreak(ctx, "user-1"))

	profile, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 30, profile.TotalStudyTime)
	assert.Equal(t, 1, profile.StudyStreak)
}
