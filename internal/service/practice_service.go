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

// PracticeHistory is the append-only store of finished practice sessions.
type PracticeHistory interface {
	Append(ctx context.Context, session *models.PracticeSession) error
	FindByID(ctx context.Context, userID, id string) (*models.PracticeSession, error)
	FindByUser(ctx context.Context, userID string) ([]models.PracticeSession, error)
	FindRecent(ctx context.Context, userID string, limit int) ([]models.PracticeSession, error)
	FindBySubject(ctx context.Context, userID string, subject models.SubjectArea) ([]models.PracticeSession, error)
}

// OutcomeRecorder receives per-question outcomes when a session finishes.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, userID string, subject models.SubjectArea, isCorrect bool) ([]models.SubjectPerformance, error)
}

// StudyLog receives profile-side bookkeeping on finish. May be nil.
type StudyLog interface {
	AddCompletedPractice(ctx context.Context, userID, sessionID string) error
	AddCompletedTest(ctx context.Context, userID, testID string) error
	AddStudyTime(ctx context.Context, userID string, minutes int) error
}

// livePractice pairs the in-progress session with finalization progress.
// Finish commits several independent writes; recording which ones completed
// lets a retry resume where it stopped instead of appending the session or
// feeding outcomes twice. The progress fields are only touched by Finish,
// which callers invoke sequentially per user.
type livePractice struct {
	session *models.PracticeSession

	appended       bool
	outcomesFed    int
	practiceLogged bool
	timeLogged     bool
}

// PracticeService is the practice session state machine. Each user has at
// most one live (unfinished) session, held only in memory; a session that
// is never finished is simply discarded. Finished sessions are sealed into
// the history store and their outcomes fed to the performance tracker.
type PracticeService struct {
	history  PracticeHistory
	recorder OutcomeRecorder
	studyLog StudyLog

	mu   sync.Mutex
	live map[string]*livePractice

	now func() time.Time
}

func NewPracticeService(history PracticeHistory, recorder OutcomeRecorder, studyLog StudyLog) *PracticeService {
	return &PracticeService{
		history:  history,
		recorder: recorder,
		studyLog: studyLog,
		live:     make(map[string]*livePractice),
		now:      time.Now,
	}
}

// Start opens a new live session over a fixed question list. Starting
// replaces any unfinished session for the user; replaced reports whether
// one was discarded so callers can warn before losing work.
func (s *PracticeService) Start(userID string, subjects []models.SubjectArea, questions []models.Question) (session *models.PracticeSession, replaced bool, err error) {
	if userID == "" {
		return nil, false, models.ErrAuthRequired
	}
	if len(questions) == 0 {
		return nil, false, fmt.Errorf("%w: cannot start practice with an empty question set", models.ErrNoContent)
	}

	outcomes := make([]models.QuestionOutcome, len(questions))
	for i, q := range questions {
		outcomes[i] = models.QuestionOutcome{QuestionID: q.ID}
	}

	session = &models.PracticeSession{
		ID:             "practice-" + uuid.NewString(),
		UserID:         userID,
		Date:           s.now(),
		SubjectAreas:   subjects,
		Questions:      outcomes,
		TotalQuestions: len(questions),
	}

	s.mu.Lock()
	_, replaced = s.live[userID]
	s.live[userID] = &livePractice{session: session}
	s.mu.Unlock()

	return copySession(session), replaced, nil
}

// Answer overwrites the outcome at index and recomputes the live score.
func (s *PracticeService) Answer(userID string, index int, selectedOption, timeSpentSeconds int, isCorrect bool) (*models.PracticeSession, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cell, ok := s.live[userID]
	if !ok {
		return nil, models.ErrNoActiveSession
	}
	session := cell.session
	if index < 0 || index >= session.TotalQuestions {
		return nil, fmt.Errorf("%w: question index %d out of range", models.ErrNotFound, index)
	}

	answer := selectedOption
	session.Questions[index].UserAnswer = &answer
	session.Questions[index].IsCorrect = isCorrect
	session.Questions[index].TimeSpentSeconds = timeSpentSeconds
	session.RecomputeScore()

	return copySession(session), nil
}

// Finish seals the live session: sets its duration, appends it to history,
// feeds every answered outcome into the performance tracker and updates the
// study profile, then clears the live cell. On any failure the live session
// is kept and its finalization progress remembered, so a retry resumes at
// the failed step without appending or recording anything twice.
func (s *PracticeService) Finish(ctx context.Context, userID string, totalDurationSeconds int) (*models.PracticeSession, error) {
	if userID == "" {
		return nil, models.ErrAuthRequired
	}

	s.mu.Lock()
	cell, ok := s.live[userID]
	if !ok {
		s.mu.Unlock()
		return nil, models.ErrNoActiveSession
	}
	if !cell.appended {
		cell.session.DurationSeconds = totalDurationSeconds
	}
	finished := copySession(cell.session)
	s.mu.Unlock()

	if !cell.appended {
		if err := s.history.Append(ctx, finished); err != nil {
			return nil, fmt.Errorf("%w: save practice session: %v", models.ErrPersistence, err)
		}
		cell.appended = true
	}

	// Outcomes are attributed to the session's first subject. Sessions are
	// started with a single subject, which keeps this sound; see Start
	// callers.
	if len(finished.SubjectAreas) > 0 {
		subject := finished.SubjectAreas[0]
		for i := cell.outcomesFed; i < len(finished.Questions); i++ {
			if q := finished.Questions[i]; q.UserAnswer != nil {
				if _, err := s.recorder.RecordOutcome(ctx, userID, subject, q.IsCorrect); err != nil {
					return nil, err
				}
			}
			cell.outcomesFed = i + 1
		}
	}

	if s.studyLog != nil {
		if !cell.practiceLogged {
			if err := s.studyLog.AddCompletedPractice(ctx, userID, finished.ID); err != nil {
				return nil, err
			}
			cell.practiceLogged = true
		}
		if !cell.timeLogged {
			minutes := int(math.Ceil(float64(finished.DurationSeconds) / 60))
			if err := s.studyLog.AddStudyTime(ctx, userID, minutes); err != nil {
				return nil, err
			}
			cell.timeLogged = true
		}
	}

	s.mu.Lock()
	delete(s.live, userID)
	s.mu.Unlock()

	return finished, nil
}

// Current returns the live session, or nil when none exists.
func (s *PracticeService) Current(userID string) *models.PracticeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	cell, ok := s.live[userID]
	if !ok {
		return nil
	}
	return copySession(cell.session)
}

func (s *PracticeService) SessionByID(ctx context.Context, userID, id string) (*models.PracticeSession, error) {
	session, err := s.history.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: session %q", models.ErrNotFound, id)
	}
	return session, nil
}

func (s *PracticeService) Sessions(ctx context.Context, userID string) ([]models.PracticeSession, error) {
	sessions, err := s.history.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load practice history: %v", models.ErrPersistence, err)
	}
	return sessions, nil
}

func (s *PracticeService) RecentSessions(ctx context.Context, userID string, limit int) ([]models.PracticeSession, error) {
	sessions, err := s.history.FindRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: load practice history: %v", models.ErrPersistence, err)
	}
	return sessions, nil
}

func (s *PracticeService) SessionsBySubject(ctx context.Context, userID string, subject models.SubjectArea) ([]models.PracticeSession, error) {
	sessions, err := s.history.FindBySubject(ctx, userID, subject)
	if err != nil {
		return nil, fmt.Errorf("%w: load practice history: %v", models.ErrPersistence, err)
	}
	return sessions, nil
}

// AverageScore is the rounded mean score over the user's finished sessions.
func (s *PracticeService) AverageScore(ctx context.Context, userID string) (int, error) {
	sessions, err := s.Sessions(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(sessions) == 0 {
		return 0, nil
	}
	sum := 0
	for _, session := range sessions {
		sum += session.Score
	}
	return int(math.Round(float64(sum) / float64(len(sessions)))), nil
}

// TotalPracticeTime is the summed duration, in seconds, of finished sessions.
func (s *PracticeService) TotalPracticeTime(ctx context.Context, userID string) (int, error) {
	sessions, err := s.Sessions(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, session := range sessions {
		total += session.DurationSeconds
	}
	return total, nil
}

func copySession(session *models.PracticeSession) *models.PracticeSession {
	out := *session
	out.SubjectAreas = append([]models.SubjectArea(nil), session.SubjectAreas...)
	out.Questions = append([]models.QuestionOutcome(nil), session.Questions...)
	return &out
}
