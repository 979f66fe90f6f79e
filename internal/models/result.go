package models

import "time"

// SectionScore holds raw correct count and the scaled sub-score for one
// section. The scaled mapping is a fixed linear placeholder onto a 200-400
// nominal range, kept for compatibility with stored results.
type SectionScore struct {
	Raw    int `bson:"raw" json:"raw"`
	Scaled int `bson:"scaled" json:"scaled"`
}

type TestScore struct {
	Overall   int                          `bson:"overall" json:"overall"`
	BySection map[SubjectArea]SectionScore `bson:"by_section" json:"bySection"`
}

// AnswerRecord is one answered (or skipped) question within an exam attempt.
// UserAnswer nil records a skip.
type AnswerRecord struct {
	QuestionID       string `bson:"question_id" json:"questionId"`
	UserAnswer       *int   `bson:"user_answer" json:"userAnswer"`
	IsCorrect        bool   `bson:"is_correct" json:"isCorrect"`
	TimeSpentSeconds int    `bson:"time_spent_seconds" json:"timeSpent"`
}

type TestResult struct {
	ID              string         `bson:"_id,omitempty" json:"id"`
	UserID          string         `bson:"user_id" json:"userId"`
	TestID          string         `bson:"test_id" json:"testId"`
	Date            time.Time      `bson:"date" json:"date"`
	Completed       bool           `bson:"completed" json:"completed"`
	Score           TestScore      `bson:"score" json:"score"`
	Answers         []AnswerRecord `bson:"answers" json:"answers"`
	WeakTopics      []string       `bson:"weak_topics" json:"weakTopics"`
	DurationSeconds int            `bson:"duration_seconds" json:"duration"`
}
