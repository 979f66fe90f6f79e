package selection

import (
	"context"
	"math/rand"

	"testprep-service/internal/models"
)

// QuestionSource is the catalog lookup the selector draws from. BySubject
// must return questions in stable repository order.
type QuestionSource interface {
	FindBySubject(ctx context.Context, subject models.SubjectArea) ([]models.Question, error)
}

// DifficultyAdvisor recommends a question tier for a user and subject.
type DifficultyAdvisor interface {
	RecommendedDifficulty(ctx context.Context, userID string, subject models.SubjectArea) (models.Difficulty, error)
}

// Selector assembles adaptive practice sets: questions at the user's
// recommended tier first, backfilled from the subject's other tiers when
// the pool runs short, shuffled, and cut to the requested count.
type Selector struct {
	source  QuestionSource
	advisor DifficultyAdvisor
}

func NewSelector(source QuestionSource, advisor DifficultyAdvisor) *Selector {
	return &Selector{source: source, advisor: advisor}
}

// SelectQuestions returns up to count questions for the subject. A subject
// with no questions at all yields an empty slice, not an error; callers
// starting a session must treat that as a no-content condition.
func (s *Selector) SelectQuestions(ctx context.Context, userID string, subject models.SubjectArea, count int) ([]models.Question, error) {
	difficulty, err := s.advisor.RecommendedDifficulty(ctx, userID, subject)
	if err != nil {
		return nil, err
	}

	pool, err := s.source.FindBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Question, 0, len(pool))
	for _, q := range pool {
		if q.Difficulty == difficulty {
			matched = append(matched, q)
		}
	}
	if len(matched) < count {
		for _, q := range pool {
			if q.Difficulty != difficulty {
				matched = append(matched, q)
			}
		}
	}

	// Top-level Shuffle is a Fisher-Yates permutation behind the shared
	// lock-protected source; selectors are called from concurrent handlers.
	rand.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})
	if len(matched) > count {
		matched = matched[:count]
	}
	return matched, nil
}
