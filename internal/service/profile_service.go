package service

import (
	"context"
	"fmt"
	"time"

	"testprep-service/internal/models"
)

// ProfileStore persists per-user study profiles. Load returns nil when no
// profile exists yet.
type ProfileStore interface {
	Load(ctx context.Context, userID string) (*models.UserProfile, error)
	Save(ctx context.Context, profile *models.UserProfile) error
}

// ProfileService maintains the per-user study profile: target scores,
// completed test/practice ids, streak and total study time.
type ProfileService struct {
	store ProfileStore
	now   func() time.Time
}

func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{store: store, now: time.Now}
}

// Get loads the profile, creating and persisting the default on first
// access.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}
	profile, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load profile: %v", models.ErrPersistence, err)
	}
	if profile == nil {
		profile = models.NewUserProfile(userID, s.now())
		if err := s.store.Save(ctx, profile); err != nil {
			return nil, fmt.Errorf("%w: init profile: %v", models.ErrPersistence, err)
		}
	}
	return profile, nil
}

func (s *ProfileService) update(ctx context.Context, userID string, mutate func(*models.UserProfile)) (*models.UserProfile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	mutate(profile)
	profile.UpdatedAt = s.now()
	if err := s.store.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: save profile: %v", models.ErrPersistence, err)
	}
	return profile, nil
}

func (s *ProfileService) SetTargetScore(ctx context.Context, userID string, testType models.TestType, score int) (*models.UserProfile, error) {
	return s.update(ctx, userID, func(p *models.UserProfile) {
		switch testType {
		case models.TestTypeSAT:
			p.TargetScore.SAT = score
		case models.TestTypeACT:
			p.TargetScore.ACT = score
		}
	})
}

func (s *ProfileService) UpdateWeakAreas(ctx context.Context, userID string, areas []string) (*models.UserProfile, error) {
	return s.update(ctx, userID, func(p *models.UserProfile) {
		p.WeakAreas = areas
	})
}

// AddCompletedTest records a finished test id once; repeats are no-ops.
func (s *ProfileService) AddCompletedTest(ctx context.Context, userID, testID string) error {
	_, err := s.update(ctx, userID, func(p *models.UserProfile) {
		for _, id := range p.CompletedTests {
			if id == testID {
				return
			}
		}
		p.CompletedTests = append(p.CompletedTests, testID)
	})
	return err
}

// AddCompletedPractice records a finished practice session id once.
func (s *ProfileService) AddCompletedPractice(ctx context.Context, userID, sessionID string) error {
	_, err := s.update(ctx, userID, func(p *models.UserProfile) {
		for _, id := range p.CompletedPractice {
			if id == sessionID {
				return
			}
		}
		p.CompletedPractice = append(p.CompletedPractice, sessionID)
	})
	return err
}

func (s *ProfileService) AddStudyTime(ctx context.Context, userID string, minutes int) error {
	_, err := s.update(ctx, userID, func(p *models.UserProfile) {
		p.TotalStudyTime += minutes
	})
	return err
}

func (s *ProfileService) IncrementStudyStreak(ctx context.Context, userID string) error {
	_, err := s.update(ctx, userID, func(p *models.UserProfile) {
		p.StudyStreak++
	})
	return err
}
