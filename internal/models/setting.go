package models

import "time"

// Setting is one persisted user preference row
type Setting struct {
	Name      string
	Value     string
	UpdatedAt time.Time
}
