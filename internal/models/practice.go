package models

import (
	"math"
	"time"
)

// QuestionOutcome records one question slot within a practice session.
// UserAnswer is nil until answered; a slot that was never answered still
// counts as incorrect for the live score.
type QuestionOutcome struct {
	QuestionID       string `bson:"question_id" json:"questionId"`
	UserAnswer       *int   `bson:"user_answer" json:"userAnswer"`
	IsCorrect        bool   `bson:"is_correct" json:"isCorrect"`
	TimeSpentSeconds int    `bson:"time_spent_seconds" json:"timeSpent"`
}

type PracticeSession struct {
	ID              string            `bson:"_id,omitempty" json:"id"`
	UserID          string            `bson:"user_id" json:"userId"`
	Date            time.Time         `bson:"date" json:"date"`
	DurationSeconds int               `bson:"duration_seconds" json:"duration"`
	SubjectAreas    []SubjectArea     `bson:"subject_areas" json:"subjectAreas"`
	Questions       []QuestionOutcome `bson:"questions" json:"questions"`
	Score           int               `bson:"score" json:"score"`
	TotalQuestions  int               `bson:"total_questions" json:"totalQuestions"`
}

// RecomputeScore refreshes the live progress score: percentage of correct
// answers over all slots, answered or not.
func (s *PracticeSession) RecomputeScore() {
	if s.TotalQuestions == 0 {
		s.Score = 0
		return
	}
	correct := 0
	for _, q := range s.Questions {
		if q.IsCorrect {
			correct++
		}
	}
	s.Score = int(math.Round(float64(correct) / float64(s.TotalQuestions) * 100))
}
