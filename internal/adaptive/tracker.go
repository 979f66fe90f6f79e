package adaptive

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"testprep-service/internal/models"
)

// Tier transition thresholds. A subject's level is re-derived on every
// recorded outcome once at least minAnswersForTier answers exist; below
// that the level stays medium.
const (
	minAnswersForTier = 5
	promoteThreshold  = 0.8
	demoteThreshold   = 0.4
)

// PerformanceStore persists the per-user record set. Load returns nil when
// the user has no records yet.
type PerformanceStore interface {
	Load(ctx context.Context, userID string) ([]models.SubjectPerformance, error)
	Save(ctx context.Context, userID string, performances []models.SubjectPerformance) error
}

// Tracker maintains per-user, per-subject performance records and derives
// difficulty recommendations from them. In-memory state always reflects the
// last successfully persisted snapshot: updates are written through before
// being committed, so a failed write leaves the tracker unchanged.
type Tracker struct {
	store PerformanceStore

	mu    sync.Mutex
	cache map[string][]models.SubjectPerformance

	now func() time.Time
}

func NewTracker(store PerformanceStore) *Tracker {
	return &Tracker{
		store: store,
		cache: make(map[string][]models.SubjectPerformance),
		now:   time.Now,
	}
}

// Initialize loads the user's records, creating and persisting the
// zero-initialized set on first access. Idempotent.
func (t *Tracker) Initialize(ctx context.Context, userID string) ([]models.SubjectPerformance, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	performances, err := t.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	return clonePerformances(performances), nil
}

// loadLocked returns the cached record set, loading or lazily creating it.
func (t *Tracker) loadLocked(ctx context.Context, userID string) ([]models.SubjectPerformance, error) {
	if performances, ok := t.cache[userID]; ok {
		return performances, nil
	}

	performances, err := t.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load performance: %v", models.ErrPersistence, err)
	}
	if performances == nil {
		performances = models.NewPerformanceSet(t.now())
		if err := t.store.Save(ctx, userID, performances); err != nil {
			return nil, fmt.Errorf("%w: init performance: %v", models.ErrPersistence, err)
		}
	}
	t.cache[userID] = performances
	return performances, nil
}

// RecordOutcome folds one question outcome into the subject's running
// record and persists the full set. Returns the updated records.
func (t *Tracker) RecordOutcome(ctx context.Context, userID string, subject models.SubjectArea, isCorrect bool) ([]models.SubjectPerformance, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, err := t.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range current {
		if current[i].Subject == subject {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("%w: subject %q", models.ErrNotFound, subject)
	}

	updated := clonePerformances(current)
	record := updated[index]

	answered := record.QuestionsAnswered + 1
	correctCount := record.CorrectRate*float64(record.QuestionsAnswered) + boolToFloat(isCorrect)
	rate := correctCount / float64(answered)

	level := models.DifficultyMedium
	if answered >= minAnswersForTier {
		switch {
		case rate > promoteThreshold:
			level = models.DifficultyHard
		case rate < demoteThreshold:
			level = models.DifficultyEasy
		}
	}

	record.QuestionsAnswered = answered
	record.CorrectRate = rate
	record.Level = level
	if isCorrect {
		record.LastImprovement = t.now()
	}
	updated[index] = record

	if err := t.store.Save(ctx, userID, updated); err != nil {
		return nil, fmt.Errorf("%w: save performance: %v", models.ErrPersistence, err)
	}
	t.cache[userID] = updated
	return clonePerformances(updated), nil
}

// RecommendedDifficulty returns the subject's current level, defaulting to
// medium when no record exists.
func (t *Tracker) RecommendedDifficulty(ctx context.Context, userID string, subject models.SubjectArea) (models.Difficulty, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	performances, err := t.loadLocked(ctx, userID)
	if err != nil {
		return models.DifficultyMedium, err
	}
	for _, p := range performances {
		if p.Subject == subject {
			return p.Level, nil
		}
	}
	return models.DifficultyMedium, nil
}

// Performance returns the record for one subject, or nil if absent.
func (t *Tracker) Performance(ctx context.Context, userID string, subject models.SubjectArea) (*models.SubjectPerformance, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	performances, err := t.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range performances {
		if p.Subject == subject {
			record := p
			return &record, nil
		}
	}
	return nil, nil
}

// WeakestSubjects ranks the test type's subjects with answer data ascending
// by correct rate and returns up to limit of them. With no data at all it
// returns the first subjects of the test type in catalog order.
func (t *Tracker) WeakestSubjects(ctx context.Context, userID string, testType models.TestType, limit int) ([]models.SubjectArea, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	performances, err := t.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	var withData []models.SubjectPerformance
	for _, p := range performances {
		if p.Subject.BelongsTo(testType) && p.QuestionsAnswered > 0 {
			withData = append(withData, p)
		}
	}

	if len(withData) == 0 {
		var subjects []models.SubjectArea
		for _, p := range performances {
			if p.Subject.BelongsTo(testType) && len(subjects) < limit {
				subjects = append(subjects, p.Subject)
			}
		}
		return subjects, nil
	}

	// Stable sort over catalog-ordered records: ties keep enumeration order.
	sort.SliceStable(withData, func(i, j int) bool {
		return withData[i].CorrectRate < withData[j].CorrectRate
	})
	if len(withData) > limit {
		withData = withData[:limit]
	}
	subjects := make([]models.SubjectArea, len(withData))
	for i, p := range withData {
		subjects[i] = p.Subject
	}
	return subjects, nil
}

// RecommendedSubjects surfaces the user's weakest areas: the 3 lowest
// correct rates among subjects with data, or every subject when nothing has
// been answered yet. A greedy remediation heuristic; with 8 fixed subjects
// there is no need for real scheduling.
func RecommendedSubjects(performances []models.SubjectPerformance) []models.SubjectArea {
	var withData []models.SubjectPerformance
	for _, p := range performances {
		if p.QuestionsAnswered > 0 {
			withData = append(withData, p)
		}
	}

	if len(withData) == 0 {
		subjects := make([]models.SubjectArea, len(performances))
		for i, p := range performances {
			subjects[i] = p.Subject
		}
		return subjects
	}

	sort.SliceStable(withData, func(i, j int) bool {
		return withData[i].CorrectRate < withData[j].CorrectRate
	})
	if len(withData) > 3 {
		withData = withData[:3]
	}
	subjects := make([]models.SubjectArea, len(withData))
	for i, p := range withData {
		subjects[i] = p.Subject
	}
	return subjects
}

func clonePerformances(performances []models.SubjectPerformance) []models.SubjectPerformance {
	out := make([]models.SubjectPerformance, len(performances))
	copy(out, performances)
	return out
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
