package models

import "time"

// SubjectPerformance is the per-(user, subject) running record behind
// difficulty recommendation. CorrectRate is a running average over all
// answered questions; Level is derived from it once enough data exists.
type SubjectPerformance struct {
	Subject           SubjectArea `bson:"subject" json:"subject"`
	CorrectRate       float64     `bson:"correct_rate" json:"correctRate"`
	QuestionsAnswered int         `bson:"questions_answered" json:"questionsAnswered"`
	LastImprovement   time.Time   `bson:"last_improvement" json:"lastImprovement"`
	Level             Difficulty  `bson:"level" json:"level"`
}

// NewPerformanceSet returns zero-initialized records for every subject, in
// canonical order.
func NewPerformanceSet(now time.Time) []SubjectPerformance {
	subjects := AllSubjects()
	set := make([]SubjectPerformance, len(subjects))
	for i, subject := range subjects {
		set[i] = SubjectPerformance{
			Subject:         subject,
			LastImprovement: now,
			Level:           DifficultyMedium,
		}
	}
	return set
}
