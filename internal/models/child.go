package models

import "time"

// Age bounds for child profiles
const (
	MinChildAge = 5
	MaxChildAge = 12
)

// Child represents a child profile belonging to a parent account.
// The token balance never goes negative and is only mutated by
// validated activity completions.
type Child struct {
	ID           int64     `json:"id" db:"id"`
	ParentID     int64     `json:"parent_id" db:"parent_id"`
	Name         string    `json:"name" db:"name"`
	Age          int       `json:"age" db:"age"`
	TokenBalance int       `json:"token_balance" db:"token_balance"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CreateChildRequest represents the request to create a child profile
type CreateChildRequest struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}
