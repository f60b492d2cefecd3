package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one stored lookup, as recorded from a LookupCompleted event.
type HistoryEntry struct {
	ID      uuid.UUID  `json:"id"`
	Kind    LookupKind `json:"kind"`
	Query   string     `json:"query"`
	Outcome string     `json:"outcome"`

	ErrorCode string `json:"errorCode,omitempty"`
	Message   string `json:"message,omitempty"`

	TrainNumber   string `json:"trainNumber,omitempty"`
	TrainName     string `json:"trainName,omitempty"`
	OverallStatus string `json:"overallStatus,omitempty"`

	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
	RecordedAt time.Time `json:"recordedAt"`
}

type OutcomeCount struct {
	Kind    LookupKind `json:"kind"`
	Outcome string     `json:"outcome"`
	Count   int64      `json:"count"`
}
