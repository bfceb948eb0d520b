package checkins

import (
	"time"

	"nutricoach-backend/internal/recommendations"
)

// Status reports whether a check-in produced a recommendation.
type Status string

const (
	StatusCompleted        Status = "completed"
	StatusNoRecommendation Status = "no_recommendation"
)

// CheckIn is one weekly progress submission together with the
// recommendation normalized from the upstream AI response.
type CheckIn struct {
	ID                   string
	UserID               string
	WeekStart            time.Time
	WeightKg             float64
	GoalWeightKg         *float64
	Notes                string
	Challenges           string
	Status               Status
	Recommendation       *recommendations.Record
	RecommendationSource recommendations.Source
	RawResponseKey       string
	// FallbackMessage is not persisted; the service fills it for
	// check-ins without a recommendation.
	FallbackMessage string
	CreatedAt       time.Time
}

// SubmitInput is what a client hands over for a weekly check-in.
type SubmitInput struct {
	UserID       string
	WeekStart    string
	WeightKg     float64
	GoalWeightKg *float64
	Notes        string
	Challenges   string
	// AIResponse is the raw value the text-generation webhook returned.
	AIResponse any
}

const weekStartLayout = "2006-01-02"
