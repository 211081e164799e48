package models

import (
	"gorm.io/gorm"
)

// One persisted submission (a meal or a workout). Immutable after creation.
type MealLog struct {
	gorm.Model
	UserID        string `gorm:"index;not null"` // app user id or chat sender id
	UserEmail     string
	ItemType      string `gorm:"type:varchar(16);not null"` // "food" | "workout"
	TotalCalories int
	Details       string `gorm:"type:jsonb"` // ordered item records, JSON-encoded
	ImageURL      *string
}
