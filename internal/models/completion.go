package models

import "time"

// Completion records one child's photo attempt at one activity.
// The validated flag is set exactly once, from the AI verdict, and is
// never updated afterwards.
type Completion struct {
	ID            int64     `json:"id" db:"id"`
	ChildID       int64     `json:"child_id" db:"child_id"`
	ActivityID    int64     `json:"activity_id" db:"activity_id"`
	PhotoKey      string    `json:"photo_key" db:"photo_key"`
	PhotoTakenAt  time.Time `json:"photo_taken_at" db:"photo_taken_at"`
	Validated     bool      `json:"validated" db:"validated"`
	Reasoning     string    `json:"reasoning" db:"reasoning"`
	TokensAwarded int       `json:"tokens_awarded" db:"tokens_awarded"`
	CompletedAt   time.Time `json:"completed_at" db:"completed_at"`
}

// CompletionView is a completion joined with its activity title for
// the child's history screen
type CompletionView struct {
	ID            int64     `json:"id" db:"id"`
	ActivityID    int64     `json:"activity_id" db:"activity_id"`
	ActivityTitle string    `json:"activity_title" db:"activity_title"`
	Validated     bool      `json:"validated" db:"validated"`
	TokensAwarded int       `json:"tokens_awarded" db:"tokens_awarded"`
	CompletedAt   time.Time `json:"completed_at" db:"completed_at"`
}

// SubmissionResult is what the client gets back after a photo upload
type SubmissionResult struct {
	Valid         bool   `json:"valid"`
	Reasoning     string `json:"reasoning"`
	TokensAwarded int    `json:"tokens_awarded"`
}
