package adaptive

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"testprep-service/internal/models"
)

// memStore is an in-memory PerformanceStore with an optional failure switch.
type memStore struct {
	data    map[string][]models.SubjectPerformance
	failing bool
	saves   int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]models.SubjectPerformance)}
}

func (s *memStore) Load(ctx context.Context, userID string) ([]models.SubjectPerformance, error) {
	if s.failing {
		return nil, errors.New("store down")
	}
	return s.data[userID], nil
}

func (s *memStore) Save(ctx context.Context, userID string, performances []models.SubjectPerformance) error {
	if s.failing {
		return errors.New("store down")
	}
	s.saves++
	s.data[userID] = performances
	return nil
}

func findRecord(t *testing.T, performances []models.SubjectPerformance, subject models.SubjectArea) models.SubjectPerformance {
	t.Helper()
	for _, p := range performances {
		if p.Subject == subject {
			return p
		}
	}
	t.Fatalf("no record for subject %s", subject)
	return models.SubjectPerformance{}
}

func TestInitializeCreatesAllSubjects(t *testing.T) {
	tracker := NewTracker(newMemStore())

	performances, err := tracker.Initialize(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(performances) != 8 {
		t.Fatalf("Expected 8 records, got %d", len(performances))
	}
	for i, subject := range models.AllSubjects() {
		if performances[i].Subject != subject {
			t.Errorf("Record %d: expected subject %s, got %s", i, subject, performances[i].Subject)
		}
		if performances[i].QuestionsAnswered != 0 {
			t.Errorf("Record %d: expected 0 answered, got %d", i, performances[i].QuestionsAnswered)
		}
		if performances[i].Level != models.DifficultyMedium {
			t.Errorf("Record %d: expected medium level, got %s", i, performances[i].Level)
		}
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	store := newMemStore()
	tracker := NewTracker(store)

	if _, err := tracker.Initialize(context.Background(), "user-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := tracker.Initialize(context.Background(), "user-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if store.saves != 1 {
		t.Errorf("Expected a single initial save, got %d", store.saves)
	}
}

func TestRecordOutcomeRunningRate(t *testing.T) {
	tracker := NewTracker(newMemStore())
	ctx := context.Background()

	// Interleave a second subject to check isolation.
	outcomes := []bool{true, false, true, true}
	var performances []models.SubjectPerformance
	var err error
	for i, correct := range outcomes {
		performances, err = tracker.RecordOutcome(ctx, "user-1", models.SATReading, correct)
		if err != nil {
			t.Fatalf("Outcome %d: unexpected error: %v", i, err)
		}
		if _, err := tracker.RecordOutcome(ctx, "user-1", models.ACTScience, false); err != nil {
			t.Fatalf("Interleaved outcome %d: unexpected error: %v", i, err)
		}
	}

	record := findRecord(t, performances, models.SATReading)
	if record.QuestionsAnswered != 4 {
		t.Errorf("Expected 4 answered, got %d", record.QuestionsAnswered)
	}
	if math.Abs(record.CorrectRate-0.75) > 1e-9 {
		t.Errorf("Expected rate 0.75, got %f", record.CorrectRate)
	}

	other := findRecord(t, performances, models.ACTScience)
	if other.QuestionsAnswered != 4 || other.CorrectRate != 0 {
		t.Errorf("Interleaved subject corrupted: answered=%d rate=%f", other.QuestionsAnswered, other.CorrectRate)
	}
}

func TestTierTransitions(t *testing.T) {
	testCases := []struct {
		name     string
		outcomes []bool
		expected models.Difficulty
	}{
		{"below five answers stays medium", []bool{true, true, true, true}, models.DifficultyMedium},
		{"five perfect promotes to hard", []bool{true, true, true, true, true}, models.DifficultyHard},
		{"five misses demotes to easy", []bool{false, false, false, false, false}, models.DifficultyEasy},
		{"three of five stays medium", []bool{true, true, true, false, false}, models.DifficultyMedium},
		{"exactly 0.8 stays medium", []bool{true, true, true, true, false}, models.DifficultyMedium},
		{"exactly 0.4 stays medium", []bool{true, true, false, false, false}, models.DifficultyMedium},
		{"one of five demotes", []bool{true, false, false, false, false}, models.DifficultyEasy},
		{"recovers from easy", []bool{false, false, false, false, false, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true}, models.DifficultyMedium},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tracker := NewTracker(newMemStore())
			ctx := context.Background()

			var performances []models.SubjectPerformance
			var err error
			for _, correct := range tc.outcomes {
				performances, err = tracker.RecordOutcome(ctx, "user-1", models.SATMathCalc, correct)
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
			}

			record := findRecord(t, performances, models.SATMathCalc)
			if record.Level != tc.expected {
				t.Errorf("Expected level %s after %d outcomes (rate %.2f), got %s",
					tc.expected, record.QuestionsAnswered, record.CorrectRate, record.Level)
			}
		})
	}
}

func TestLastImprovementOnlyOnCorrect(t *testing.T) {
	tracker := NewTracker(newMemStore())
	ctx := context.Background()

	performances, err := tracker.RecordOutcome(ctx, "user-1", models.ACTMath, true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	afterCorrect := findRecord(t, performances, models.ACTMath).LastImprovement

	performances, err = tracker.RecordOutcome(ctx, "user-1", models.ACTMath, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	afterIncorrect := findRecord(t, performances, models.ACTMath).LastImprovement

	if !afterIncorrect.Equal(afterCorrect) {
		t.Errorf("LastImprovement moved on an incorrect answer: %v -> %v", afterCorrect, afterIncorrect)
	}
}

func TestRecordOutcomeUnknownSubject(t *testing.T) {
	tracker := NewTracker(newMemStore())

	_, err := tracker.RecordOutcome(context.Background(), "user-1", models.SubjectArea("GRE_Verbal"), true)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFailedSaveLeavesStateUntouched(t *testing.T) {
	store := newMemStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	if _, err := tracker.RecordOutcome(ctx, "user-1", models.SATWriting, true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	store.failing = true
	_, err := tracker.RecordOutcome(ctx, "user-1", models.SATWriting, true)
	if !errors.Is(err, models.ErrPersistence) {
		t.Fatalf("Expected ErrPersistence, got %v", err)
	}
	store.failing = false

	performances, err := tracker.Initialize(ctx, "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	record := findRecord(t, performances, models.SATWriting)
	if record.QuestionsAnswered != 1 {
		t.Errorf("Expected state from last successful save (1 answered), got %d", record.QuestionsAnswered)
	}
}

func TestRecommendedDifficultyDefaultsToMedium(t *testing.T) {
	tracker := NewTracker(newMemStore())

	difficulty, err := tracker.RecommendedDifficulty(context.Background(), "user-1", models.ACTEnglish)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if difficulty != models.DifficultyMedium {
		t.Errorf("Expected medium, got %s", difficulty)
	}
}

func TestWeakestSubjects(t *testing.T) {
	tracker := NewTracker(newMemStore())
	ctx := context.Background()

	// SAT_Reading 1/2 correct, SAT_Writing 2/2, SAT_Math_No_Calc 0/2.
	seed := []struct {
		subject  models.SubjectArea
		outcomes []bool
	}{
		{models.SATReading, []bool{true, false}},
		{models.SATWriting, []bool{true, true}},
		{models.SATMathNoCalc, []bool{false, false}},
	}
	for _, s := range seed {
		for _, correct := range s.outcomes {
			if _, err := tracker.RecordOutcome(ctx, "user-1", s.subject, correct); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
		}
	}

	subjects, err := tracker.WeakestSubjects(ctx, "user-1", models.TestTypeSAT, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := []models.SubjectArea{models.SATMathNoCalc, models.SATReading}
	if len(subjects) != len(expected) {
		t.Fatalf("Expected %d subjects, got %d", len(expected), len(subjects))
	}
	for i := range expected {
		if subjects[i] != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], subjects[i])
		}
	}

	// ACT has no data: first subjects of the type in catalog order.
	actSubjects, err := tracker.WeakestSubjects(ctx, "user-1", models.TestTypeACT, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(actSubjects) != 2 || actSubjects[0] != models.ACTEnglish || actSubjects[1] != models.ACTMath {
		t.Errorf("Expected catalog-order fallback [ACT_English ACT_Math], got %v", actSubjects)
	}
}

func TestRecommendedSubjects(t *testing.T) {
	fresh := models.NewPerformanceSet(time.Now())
	subjects := RecommendedSubjects(fresh)
	if len(subjects) != 8 {
		t.Fatalf("Expected all 8 subjects with no data, got %d", len(subjects))
	}

	// Give four subjects data; expect the 3 lowest rates.
	set := models.NewPerformanceSet(time.Now())
	assign := map[models.SubjectArea]struct {
		rate     float64
		answered int
	}{
		models.SATReading: {0.9, 10},
		models.SATWriting: {0.2, 10},
		models.ACTMath:    {0.5, 10},
		models.ACTScience: {0.4, 10},
	}
	for i := range set {
		if v, ok := assign[set[i].Subject]; ok {
			set[i].CorrectRate = v.rate
			set[i].QuestionsAnswered = v.answered
		}
	}

	subjects = RecommendedSubjects(set)
	expected := []models.SubjectArea{models.SATWriting, models.ACTScience, models.ACTMath}
	if len(subjects) != 3 {
		t.Fatalf("Expected 3 subjects, got %d", len(subjects))
	}
	for i := range expected {
		if subjects[i] != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], subjects[i])
		}
	}
}

func TestRecommendedSubjectsTieBreak(t *testing.T) {
	set := models.NewPerformanceSet(time.Now())
	// Equal rates: catalog order must decide.
	for i := range set {
		set[i].CorrectRate = 0.5
		set[i].QuestionsAnswered = 4
	}

	subjects := RecommendedSubjects(set)
	expected := []models.SubjectArea{models.SATReading, models.SATWriting, models.SATMathNoCalc}
	for i := range expected {
		if subjects[i] != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], subjects[i])
		}
	}
}
