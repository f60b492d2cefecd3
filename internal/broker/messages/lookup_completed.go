package messages

import (
	"time"

	"github.com/google/uuid"
)

const TypeLookupCompleted = "lookup.completed"

// LookupCompleted is published once per finished lookup, successful or not.
type LookupCompleted struct {
	ID    uuid.UUID `json:"id"`
	Kind  string    `json:"kind"`
	Query string    `json:"query"`

	Outcome   string `json:"outcome"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message,omitempty"`

	TrainNumber   string `json:"train_number,omitempty"`
	TrainName     string `json:"train_name,omitempty"`
	OverallStatus string `json:"overall_status,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
}
