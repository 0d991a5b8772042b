package models

import "time"

// Event represents a loggable action or alert in the system.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "product.create", "stock.low"
	Level     string    `json:"level"` // e.g., "info", "warn"
	Message   string    `json:"message"`
	SubjectID *string   `json:"subjectId,omitempty"` // Nullable for system-wide events
	CreatedAt time.Time `json:"createdAt"`
}
