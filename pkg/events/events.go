// Package events defines the payloads published to the message broker.
package events

import (
	"roleplay-coach-go/internal/model"
	"time"
)

// SessionScored is emitted once per ended session. It carries scores only, never the transcript.
type SessionScored struct {
	SessionID       string                 `json:"session_id"`
	PersonaID       string                 `json:"persona"`
	ScenarioID      string                 `json:"scenario"`
	TurnCount       int                    `json:"turn_count"`
	OverallScore    int                    `json:"overall_score"`
	Metrics         []model.Metric         `json:"metrics"`
	Recommendations []model.Recommendation `json:"recommendations"`
	StartedAt       time.Time              `json:"started_at,omitempty"`
	EndedAt         time.Time              `json:"ended_at"`
}
