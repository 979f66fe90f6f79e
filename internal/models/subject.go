package models

import "strings"

type TestType string

const (
	TestTypeSAT TestType = "SAT"
	TestTypeACT TestType = "ACT"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type SubjectArea string

const (
	SATReading    SubjectArea = "SAT_Reading"
	SATWriting    SubjectArea = "SAT_Writing"
	SATMathNoCalc SubjectArea = "SAT_Math_No_Calc"
	SATMathCalc   SubjectArea = "SAT_Math_Calc"
	ACTEnglish    SubjectArea = "ACT_English"
	ACTMath       SubjectArea = "ACT_Math"
	ACTReading    SubjectArea = "ACT_Reading"
	ACTScience    SubjectArea = "ACT_Science"
)

// AllSubjects returns the fixed subject catalog in canonical order. Ranking
// ties and default recommendations fall back to this order.
func AllSubjects() []SubjectArea {
	return []SubjectArea{
		SATReading,
		SATWriting,
		SATMathNoCalc,
		SATMathCalc,
		ACTEnglish,
		ACTMath,
		ACTReading,
		ACTScience,
	}
}

// BelongsTo reports whether the subject is a section of the given test type.
func (s SubjectArea) BelongsTo(t TestType) bool {
	return strings.HasPrefix(string(s), string(t))
}

func (s SubjectArea) Valid() bool {
	for _, known := range AllSubjects() {
		if s == known {
			return true
		}
	}
	return false
}

func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}
