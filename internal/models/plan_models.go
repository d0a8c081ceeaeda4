package models

import "time"

// Plan is a gym's subscription offering. Price and duration are copied into a
// Subscription snapshot when a member subscribes, so editing a plan never
// rewrites history.
type Plan struct {
	ID           int64     `json:"id" db:"id"`
	GymID        int64     `json:"gym_id" db:"gym_id"`
	Name         string    `json:"name" db:"name"`
	Price        float64   `json:"price" db:"price"`
	DurationDays int       `json:"duration_days" db:"duration_days"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
