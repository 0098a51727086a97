package progress

import (
	"errors"
	"time"

	"backend-racepath/internal/route"
	"backend-racepath/internal/shared/geo"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

var (
	// ErrInvalidDistance means a log attempt carried a non-positive delta.
	// Cumulative distance only ever grows.
	ErrInvalidDistance = errors.New("logged distance must be positive")

	// ErrNotActive means the record is not in a state that accepts the
	// requested transition.
	ErrNotActive = errors.New("progress record is not active")
)

// Record is one participant's running total against one route. The stored
// cumulative value is never clamped; display clamping happens in Resolve.
type Record struct {
	ParticipantID string    `json:"participant_id"`
	RouteID       string    `json:"route_id"`
	CumulativeMi  float64   `json:"cumulative_mi"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// View is the renderable progress snapshot produced by Resolve.
type View struct {
	Fraction          float64           `json:"fraction"`
	PercentComplete   float64           `json:"percent_complete"`
	CurrentPosition   geo.Point         `json:"current_position"`
	CompletedPath     []geo.Point       `json:"completed_path"`
	RemainingPath     []geo.Point       `json:"remaining_path"`
	MilestonesReached []route.Milestone `json:"milestones_reached"`
	CumulativeMi      float64           `json:"cumulative_mi"`
	Status            string            `json:"status"`
}
