package models

// TestSection is one timed section of a full test. DurationMinutes is an
// advisory countdown for the client; the engine never enforces it.
type TestSection struct {
	Subject         SubjectArea `bson:"subject" json:"subject"`
	DurationMinutes int         `bson:"duration_minutes" json:"duration"`
	Questions       []string    `bson:"questions" json:"questions"`
}

// FullTest is an immutable catalog entry for a multi-section timed exam.
type FullTest struct {
	ID                   string        `bson:"_id,omitempty" json:"id"`
	TestType             TestType      `bson:"test_type" json:"testType"`
	Name                 string        `bson:"name" json:"name"`
	Sections             []TestSection `bson:"sections" json:"sections"`
	TotalDurationMinutes int           `bson:"total_duration_minutes" json:"totalDuration"`
}

// ContainsQuestion reports whether the section's question list includes id.
func (s TestSection) ContainsQuestion(id string) bool {
	for _, q := range s.Questions {
		if q == id {
			return true
		}
	}
	return false
}
