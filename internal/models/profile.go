package models

import "time"

type TargetScore struct {
	SAT int `bson:"sat,omitempty" json:"sat,omitempty"`
	ACT int `bson:"act,omitempty" json:"act,omitempty"`
}

// UserProfile aggregates per-user study bookkeeping maintained alongside
// sessions and results. TotalStudyTime is in minutes.
type UserProfile struct {
	UserID            string      `bson:"_id" json:"userId"`
	TargetScore       TargetScore `bson:"target_score" json:"targetScore"`
	WeakAreas         []string    `bson:"weak_areas" json:"weakAreas"`
	CompletedTests    []string    `bson:"completed_tests" json:"completedTests"`
	CompletedPractice []string    `bson:"completed_practice" json:"completedPractice"`
	StudyStreak       int         `bson:"study_streak" json:"studyStreak"`
	TotalStudyTime    int         `bson:"total_study_time" json:"totalStudyTime"`
	CreatedAt         time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time   `bson:"updated_at" json:"updatedAt"`
}

// NewUserProfile returns the default profile created on first access.
func NewUserProfile(userID string, now time.Time) *UserProfile {
	return &UserProfile{
		UserID:            userID,
		WeakAreas:         []string{},
		CompletedTests:    []string{},
		CompletedPractice: []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
