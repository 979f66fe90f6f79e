package service

import (
	"context"
	"errors"
	"testing"

	"testprep-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCatalog struct {
	tests []models.FullTest
}

func (c *memCatalog) FindAll(ctx context.Context) ([]models.FullTest, error) {
	return c.tests, nil
}

func (c *memCatalog) FindByID(ctx context.Context, id string) (*models.FullTest, error) {
	for i := range c.tests {
		if c.tests[i].ID == id {
			return &c.tests[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (c *memCatalog) FindByType(ctx context.Context, testType models.TestType) ([]models.FullTest, error) {
	var out []models.FullTest
	for _, t := range c.tests {
		if t.TestType == testType {
			out = append(out, t)
		}
	}
	return out, nil
}

type memResults struct {
	results []models.TestResult
	failing bool
}

func (r *memResults) Append(ctx context.Context, result *models.TestResult) error {
	if r.failing {
		return errors.New("results down")
	}
	r.results = append(r.results, *result)
	return nil
}

func (r *memResults) FindByID(ctx context.Context, userID, id string) (*models.TestResult, error) {
	for i := range r.results {
		if r.results[i].UserID == userID && r.results[i].ID == id {
			return &r.results[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memResults) FindByUser(ctx context.Context, userID string) ([]models.TestResult, error) {
	var out []models.TestResult
	for _, res := range r.results {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memResults) FindByTest(ctx context.Context, userID, testID string) ([]models.TestResult, error) {
	var out []models.TestResult
	for _, res := range r.results {
		if res.UserID == userID && res.TestID == testID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memResults) FindRecent(ctx context.Context, userID string, limit int) ([]models.TestResult, error) {
	out, _ := r.FindByUser(ctx, userID)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func sampleTest() models.FullTest {
	return models.FullTest{
		ID:       "sat-1",
		TestType: models.TestTypeSAT,
		Name:     "SAT Practice Test 1",
		Sections: []models.TestSection{
			{Subject: models.SATReading, DurationMinutes: 65, Questions: []string{"r1", "r2"}},
			{Subject: models.SATMathCalc, DurationMinutes: 55, Questions: []string{"m1", "m2"}},
		},
		TotalDurationMinutes: 120,
	}
}

func answerOf(n int) *int { return &n }

func TestExamLifecycle(t *testing.T) {
	results := &memResults{}
	studyLog := &studyLogSpy{}
	svc := NewExamService(&memCatalog{tests: []models.FullTest{sampleTest()}}, results, studyLog)
	ctx := context.Background()

	exam, replaced, err := svc.Start(ctx, "user-1", "sat-1")
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, "sat-1", exam.Result.TestID)
	assert.Empty(t, exam.Result.Answers)

	for i, q := range []string{"r1", "r2"} {
		_, err = svc.Answer("user-1", 0, i, q, answerOf(1), true, 30)
		require.NoError(t, err)
	}
	for i, q := range []string{"m1", "m2"} {
		exam, err = svc.Answer("user-1", 1, i, q, answerOf(2), true, 30)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, exam.CurrentSection)
	assert.Equal(t, 1, exam.CurrentQuestion)

	result, err := svc.Finish(ctx, "user-1", 7200)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 7200, result.DurationSeconds)

	reading := result.Score.BySection[models.SATReading]
	math := result.Score.BySection[models.SATMathCalc]
	assert.Equal(t, models.SectionScore{Raw: 2, Scaled: 400}, reading)
	assert.Equal(t, models.SectionScore{Raw: 2, Scaled: 400}, math)
	assert.Equal(t, 400, result.Score.Overall)
	assert.Empty(t, result.WeakTopics)

	require.Len(t, results.results, 1)
	assert.Equal(t, []string{"sat-1"}, studyLog.testIDs)
	assert.Equal(t, 120, studyLog.minutes)
	assert.Nil(t, svc.Current("user-1"))
}

func TestExamSkipsScoreAsMisses(t *testing.T) {
	svc := NewExamService(&memCatalog{tests: []models.FullTest{sampleTest()}}, &memResults{}, nil)
	ctx := context.Background()

	_, _, err := svc.Start(ctx, "user-1", "sat-1")
	require.NoError(t, err)

	// One correct answer and one explicit skip in the reading section; the
	// math section is never touched.
	_, err = svc.Answer("user-1", 0, 0, "r1", answerOf(0), true, 40)
	require.NoError(t, err)
	_, err = svc.Answer("user-1", 0, 1, "r2", nil, false, 10)
	require.NoError(t, err)

	result, err := svc.Finish(ctx, "user-1", 600)
	require.NoError(t, err)

	assert.Equal(t, models.SectionScore{Raw: 1, Scaled: 300}, result.Score.BySection[models.SATReading])
	assert.Equal(t, models.SectionScore{Raw: 0, Scaled: 200}, result.Score.BySection[models.SATMathCalc])
	assert.Equal(t, 250, result.Score.Overall)

	require.Len(t, result.Answers, 2)
	assert.Nil(t, result.Answers[1].UserAnswer)
}

func TestExamAnswerUpserts(t *testing.T) {
	svc := NewExamService(&memCatalog{tests: []models.FullTest{sampleTest()}}, &memResults{}, nil)
	ctx := context.Background()

	_, _, err := svc.Start(ctx, "user-1", "sat-1")
	require.NoError(t, err)

	_, err = svc.Answer("user-1", 0, 0, "r1", answerOf(3), false, 20)
	require.NoError(t, err)
	exam, err := svc.Answer("user-1", 0, 0, "r1", answerOf(1), true, 35)
	require.NoError(t, err)

	require.Len(t, exam.Result.Answers, 1)
	assert.Equal(t, 1, *exam.Result.Answers[0].UserAnswer)
	assert.True(t, exam.Result.Answers[0].IsCorrect)
	assert.Equal(t, 35, exam.Result.Answers[0].TimeSpentSeconds)
}

func TestExamAnswerWithoutLiveExam(t *testing.T) {
	results := &memResults{}
	svc := NewExamService(&memCatalog{tests: []models.FullTest{sampleTest()}}, results, nil)

	_, err := svc.Answer("user-1", 0, 0, "r1", answerOf(1), true, 10)
	assert.ErrorIs(t, err, models.ErrNoActiveSession)

	_, err = svc.Finish(context.Background(), "user-1", 10)
	assert.ErrorIs(t, err, models.ErrNoActiveSession)
	assert.Empty(t, results.results)
}

func TestExamStartUnknownTest(t *testing.T) {
	svc := NewExamService(&memCatalog{}, &memResults{}, nil)

	_, _, err := svc.Start(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestExamStartReplacesLiveExam(t *testing.T) {
	svc := NewExamService(&memCatalog{tests: []models.FullTest{sampleTest()}}, &memResults{}, nil)
	ctx := context.Background()

	first, replaced, err := svc.Start(ctx, "user-1", "sat-1")
	require.NoError(t, err)
	assert.False(t, replaced)

	second, replaced, err := svc.Start(ctx, "user-1", "sat-1")
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.NotEqual(t, first.Result.ID, second.Result.ID)
}

func TestExamFailedAppendKeepsLiveExam(t *testing.T) {
	results := &memResults{failing: true}
	svc := NewExamService(&memCatalog{tests: []models.FullTest{sampleTest()}}, results, nil)
	ctx := context.Background()

	_, _, err := svc.Start(ctx, "user-1", "sat-1")
	require.NoError(t, err)
	_, err = svc.Answer("user-1", 0, 0, "r1", answerOf(1), true, 20)
	require.NoError(t, err)

	_, err = svc.Finish(ctx, "user-1", 300)
	assert.ErrorIs(t, err, models.ErrPersistence)
	require.NotNil(t, svc.Current("user-1"))

	results.failing = false
	result, err := svc.Finish(ctx, "user-1", 300)
	require.NoError(t, err)
	assert.Equal(t, models.SectionScore{Raw: 1, Scaled: 300}, result.Score.BySection[models.SATReading])
	assert.Len(t, results.results, 1)
}

func TestExamFinishRetryDoesNotRepeatWrites(t *testing.T) {
	results := &memResults{}
	studyLog := &studyLogSpy{failTimeOnce: true}
	svc := NewExamService(&memCatalog{tests: []models.FullTest{sampleTest()}}, results, studyLog)
	ctx := context.Background()

	_, _, err := svc.Start(ctx, "user-1", "sat-1")
	require.NoError(t, err)
	_, err = svc.Answer("user-1", 0, 0, "r1", answerOf(1), true, 20)
	require.NoError(t, err)

	// The result is appended and the completed test logged, then the study
	// time write fails; the live exam survives with its progress.
	_, err = svc.Finish(ctx, "user-1", 300)
	require.Error(t, err)
	require.NotNil(t, svc.Current("user-1"))
	assert.Len(t, results.results, 1)
	assert.Equal(t, []string{"sat-1"}, studyLog.testIDs)
	assert.Equal(t, 0, studyLog.minutes)

	// The retry resumes at the study time write: no second result, no
	// second completed-test entry.
	result, err := svc.Finish(ctx, "user-1", 300)
	require.NoError(t, err)
	assert.Len(t, results.results, 1)
	assert.Equal(t, []string{"sat-1"}, studyLog.testIDs)
	assert.Equal(t, 5, studyLog.minutes)
	assert.Equal(t, models.SectionScore{Raw: 1, Scaled: 300}, result.Score.BySection[models.SATReading])
	assert.Nil(t, svc.Current("user-1"))
}

func TestExamHighestScore(t *testing.T) {
	catalog := &memCatalog{tests: []models.FullTest{
		sampleTest(),
		{ID: "act-1", TestType: models.TestTypeACT, Name: "ACT Practice Test 1"},
	}}
	results := &memResults{results: []models.TestResult{
		{ID: "res-1", UserID: "user-1", TestID: "sat-1", Completed: true, Score: models.TestScore{Overall: 310}},
		{ID: "res-2", UserID: "user-1", TestID: "sat-1", Completed: true, Score: models.TestScore{Overall: 280}},
		{ID: "res-3", UserID: "user-1", TestID: "sat-1", Completed: false, Score: models.TestScore{Overall: 390}},
		{ID: "res-4", UserID: "user-1", TestID: "act-1", Completed: true, Score: models.TestScore{Overall: 350}},
	}}
	svc := NewExamService(catalog, results, nil)
	ctx := context.Background()

	highest, err := svc.HighestScore(ctx, "user-1", models.TestTypeSAT)
	require.NoError(t, err)
	assert.Equal(t, 310, highest)

	highest, err = svc.HighestScore(ctx, "user-1", models.TestTypeACT)
	require.NoError(t, err)
	assert.Equal(t, 350, highest)

	highest, err = svc.HighestScore(ctx, "user-2", models.TestTypeSAT)
	require.NoError(t, err)
	assert.Equal(t, 0, highest)
}
