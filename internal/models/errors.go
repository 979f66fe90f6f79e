package models

import "errors"

// Error taxonomy shared by the tracker, selector and session machines. All
// five are recoverable; callers match with errors.Is.
var (
	ErrAuthRequired    = errors.New("authenticated user required")
	ErrNotFound        = errors.New("not found")
	ErrNoActiveSession = errors.New("no active session")
	ErrNoContent       = errors.New("no questions available")
	ErrPersistence     = errors.New("persistence failure")
)
