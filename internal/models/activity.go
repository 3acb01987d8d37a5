package models

import "time"

// Category tags an activity with the kind of place it happens in
type Category string

const (
	CategoryCity   Category = "city"
	CategoryBeach  Category = "beach"
	CategoryBush   Category = "bush"
	CategoryGarden Category = "garden"
)

// Valid reports whether the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryCity, CategoryBeach, CategoryBush, CategoryGarden:
		return true
	}
	return false
}

// Activity is a scavenger-hunt task a child completes by photographing
// an object. Immutable once created.
type Activity struct {
	ID               int64     `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	Category         Category  `json:"category" db:"category"`
	AgeMin           int       `json:"age_min" db:"age_min"`
	AgeMax           int       `json:"age_max" db:"age_max"`
	Location         string    `json:"location" db:"location"`
	ValidationPrompt string    `json:"validation_prompt" db:"validation_prompt"`
	TokensReward     int       `json:"tokens_reward" db:"tokens_reward"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// ActivityFilter narrows an activity listing. Nil/empty fields match everything.
type ActivityFilter struct {
	Age      *int
	Category Category
	Location string
}

// GenerateActivitiesRequest asks the AI provider for a batch of new activities
type GenerateActivitiesRequest struct {
	Category Category `json:"category"`
	AgeMin   int      `json:"age_min"`
	AgeMax   int      `json:"age_max"`
	Location string   `json:"location"`
	Count    int      `json:"count"`
}
