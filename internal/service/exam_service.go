package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"testprep-service/internal/models"

	"github.com/google/uuid"
)

// TestCatalog serves immutable full-test definitions.
type TestCatalog interface {
	FindAll(ctx context.Context) ([]models.FullTest, error)
	FindByID(ctx context.Context, id string) (*models.FullTest, error)
	FindByType(ctx context.Context, testType models.TestType) ([]models.FullTest, error)
}

// ResultHistory is the append-only store of completed exam results.
type ResultHistory interface {
	Append(ctx context.Context, result *models.TestResult) error
	FindByID(ctx context.Context, userID, id string) (*models.TestResult, error)
	FindByUser(ctx context.Context, userID string) ([]models.TestResult, error)
	FindByTest(ctx context.Context, userID, testID string) ([]models.TestResult, error)
	FindRecent(ctx context.Context, userID string, limit int) ([]models.TestResult, error)
}

// LiveExam pairs the immutable test being attempted with its in-progress
// result. Section/question cursors track how far the attempt has advanced;
// they are advisory and never block answers against any section.
type LiveExam struct {
	Test            models.FullTest   `json:"test"`
	Result          models.TestResult `json:"result"`
	CurrentSection  int               `json:"currentSection"`
	CurrentQuestion int               `json:"currentQuestion"`
}

// liveExamCell pairs the live exam with finalization progress. The sealed
// result is scored once; recording which finish steps completed lets a retry
// resume at the failed write instead of appending the result or updating the
// profile twice. Progress fields are only touched by Finish, which callers
// invoke sequentially per user.
type liveExamCell struct {
	exam *LiveExam

	sealed     *models.TestResult
	appended   bool
	testLogged bool
	timeLogged bool
}

// ExamService is the full-test session state machine: one live exam per
// user, answers upserted by question id, scoring and sealing on finish.
type ExamService struct {
	catalog  TestCatalog
	results  ResultHistory
	studyLog StudyLog

	mu   sync.Mutex
	live map[string]*liveExamCell

	now func() time.Time
}

func NewExamService(catalog TestCatalog, results ResultHistory, studyLog StudyLog) *ExamService {
	return &ExamService{
		catalog:  catalog,
		results:  results,
		studyLog: studyLog,
		live:     make(map[string]*liveExamCell),
		now:      time.Now,
	}
}

// Start opens a live exam for the given test, building an empty in-progress
// result. Replaces any live exam the user already has; replaced reports
// whether one was discarded.
func (s *ExamService) Start(ctx context.Context, userID, testID string) (exam *LiveExam, replaced bool, err error) {
	if userID == "" {
		return nil, false, models.ErrAuthRequired
	}

	test, err := s.catalog.FindByID(ctx, testID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: test %q", models.ErrNotFound, testID)
	}

	live := &LiveExam{
		Test: *test,
		Result: models.TestResult{
			ID:     "result-" + uuid.NewString(),
			UserID: userID,
			TestID: testID,
			Date:   s.now(),
			Score: models.TestScore{
				BySection: map[models.SubjectArea]models.SectionScore{},
			},
			Answers:    []models.AnswerRecord{},
			WeakTopics: []string{},
		},
	}

	s.mu.Lock()
	_, replaced = s.live[userID]
	s.live[userID] = &liveExamCell{exam: live}
	s.mu.Unlock()

	return copyExam(live), replaced, nil
}

// Answer upserts the record for questionID: replaced if already present,
// appended otherwise. A nil selectedOption records a skip. The section and
// question indexes advance the attempt cursor.
func (s *ExamService) Answer(userID string, sectionIndex, questionIndex int, questionID string, selectedOption *int, isCorrect bool, timeSpentSeconds int) (*LiveExam, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cell, ok := s.live[userID]
	if !ok {
		return nil, models.ErrNoActiveSession
	}
	live := cell.exam

	record := models.AnswerRecord{
		QuestionID:       questionID,
		UserAnswer:       selectedOption,
		IsCorrect:        isCorrect,
		TimeSpentSeconds: timeSpentSeconds,
	}

	updated := false
	for i := range live.Result.Answers {
		if live.Result.Answers[i].QuestionID == questionID {
			live.Result.Answers[i] = record
			updated = true
			break
		}
	}
	if !updated {
		live.Result.Answers = append(live.Result.Answers, record)
	}

	live.CurrentSection = sectionIndex
	live.CurrentQuestion = questionIndex

	return copyExam(live), nil
}

// Finish scores each section (raw correct count; scaled via the fixed
// linear 200-400 mapping), averages the section scaled scores into the
// overall score, marks the result completed and appends it to history. The
// live exam survives a failed write, along with the finalization progress,
// so a retry resumes at the failed step without appending or logging twice.
func (s *ExamService) Finish(ctx context.Context, userID string, totalDurationSeconds int) (*models.TestResult, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}

	s.mu.Lock()
	cell, ok := s.live[userID]
	if !ok {
		s.mu.Unlock()
		return nil, models.ErrNoActiveSession
	}
	if cell.sealed == nil {
		sealed := copyExam(cell.exam).Result
		sealed.Score.BySection = map[models.SubjectArea]models.SectionScore{}

		for _, section := range cell.exam.Test.Sections {
			correct := 0
			for _, answer := range sealed.Answers {
				if answer.IsCorrect && section.ContainsQuestion(answer.QuestionID) {
					correct++
				}
			}
			sealed.Score.BySection[section.Subject] = models.SectionScore{
				Raw:    correct,
				Scaled: scaledScore(correct, len(section.Questions)),
			}
		}

		totalScaled := 0
		for _, score := range sealed.Score.BySection {
			totalScaled += score.Scaled
		}
		if n := len(sealed.Score.BySection); n > 0 {
			sealed.Score.Overall = int(math.Round(float64(totalScaled) / float64(n)))
		}

		sealed.Completed = true
		sealed.DurationSeconds = totalDurationSeconds
		cell.sealed = &sealed
	}
	sealed := cell.sealed
	s.mu.Unlock()

	if !cell.appended {
		if err := s.results.Append(ctx, sealed); err != nil {
			return nil, fmt.Errorf("%w: save test result: %v", models.ErrPersistence, err)
		}
		cell.appended = true
	}

	if s.studyLog != nil {
		if !cell.testLogged {
			if err := s.studyLog.AddCompletedTest(ctx, userID, sealed.TestID); err != nil {
				return nil, err
			}
			cell.testLogged = true
		}
		if !cell.timeLogged {
			minutes := int(math.Ceil(float64(sealed.DurationSeconds) / 60))
			if err := s.studyLog.AddStudyTime(ctx, userID, minutes); err != nil {
				return nil, err
			}
			cell.timeLogged = true
		}
	}

	s.mu.Lock()
	delete(s.live, userID)
	s.mu.Unlock()

	return sealed, nil
}

// scaledScore maps a raw section score onto the nominal 200-400 sub-scale.
// A deliberate linear placeholder for real scaled-scoring tables; results
// already stored depend on it staying as is.
func scaledScore(correct, total int) int {
	if total == 0 {
		return 200
	}
	return int(math.Round(float64(correct)/float64(total)*200 + 200))
}

// Current returns the live exam, or nil when none exists.
func (s *ExamService) Current(userID string) *LiveExam {
	s.mu.Lock()
	defer s.mu.Unlock()
	cell, ok := s.live[userID]
	if !ok {
		return nil
	}
	return copyExam(cell.exam)
}

func (s *ExamService) Tests(ctx context.Context) ([]models.FullTest, error) {
	tests, err := s.catalog.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load test catalog: %v", models.ErrPersistence, err)
	}
	return tests, nil
}

func (s *ExamService) TestByID(ctx context.Context, id string) (*models.FullTest, error) {
	test, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: test %q", models.ErrNotFound, id)
	}
	return test, nil
}

func (s *ExamService) TestsByType(ctx context.Context, testType models.TestType) ([]models.FullTest, error) {
	tests, err := s.catalog.FindByType(ctx, testType)
	if err != nil {
		return nil, fmt.Errorf("%w: load test catalog: %v", models.ErrPersistence, err)
	}
	return tests, nil
}

func (s *ExamService) ResultByID(ctx context.Context, userID, id string) (*models.TestResult, error) {
	result, err := s.results.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: result %q", models.ErrNotFound, id)
	}
	return result, nil
}

func (s *ExamService) Results(ctx context.Context, userID string) ([]models.TestResult, error) {
	results, err := s.results.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load results: %v", models.ErrPersistence, err)
	}
	return results, nil
}

func (s *ExamService) ResultsForTest(ctx context.Context, userID, testID string) ([]models.TestResult, error) {
	results, err := s.results.FindByTest(ctx, userID, testID)
	if err != nil {
		return nil, fmt.Errorf("%w: load results: %v", models.ErrPersistence, err)
	}
	return results, nil
}

func (s *ExamService) RecentResults(ctx context.Context, userID string, limit int) ([]models.TestResult, error) {
	results, err := s.results.FindRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: load results: %v", models.ErrPersistence, err)
	}
	return results, nil
}

// HighestScore returns the best overall score among the user's completed
// results for tests of the given type, or 0 with no completed results.
func (s *ExamService) HighestScore(ctx context.Context, userID string, testType models.TestType) (int, error) {
	results, err := s.Results(ctx, userID)
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, result := range results {
		if !result.Completed {
			continue
		}
		test, err := s.catalog.FindByID(ctx, result.TestID)
		if err != nil || test.TestType != testType {
			continue
		}
		if result.Score.Overall > highest {
			highest = result.Score.Overall
		}
	}
	return highest, nil
}

func copyExam(live *LiveExam) *LiveExam {
	out := *live
	out.Result.Answers = append([]models.AnswerRecord(nil), live.Result.Answers...)
	out.Result.WeakTopics = append([]string(nil), live.Result.WeakTopics...)
	scores := make(map[models.SubjectArea]models.SectionScore, len(live.Result.Score.BySection))
	for k, v := range live.Result.Score.BySection {
		scores[k] = v
	}
	out.Result.Score.BySection = scores
	return &out
}
