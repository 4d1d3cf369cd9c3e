package model

import "time"

// Timestamps contains the audit columns shared by persisted entities
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DateLayout is the wire and storage format for calendar dates
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for slot labels
const TimeLayout = "15:04"
