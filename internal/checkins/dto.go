package checkins

import (
	"encoding/json"
	"time"

	"nutricoach-backend/internal/recommendations"
)

type submitRequest struct {
	WeekStart    string          `json:"weekStart"`
	WeightKg     float64         `json:"weightKg"`
	GoalWeightKg *float64        `json:"goalWeightKg"`
	Notes        string          `json:"notes"`
	Challenges   string          `json:"challenges"`
	AIResponse   json.RawMessage `json:"aiResponse"`
}

type checkInResponse struct {
	CheckInID            string                  `json:"checkInId"`
	WeekStart            string                  `json:"weekStart"`
	WeightKg             float64                 `json:"weightKg"`
	GoalWeightKg         *float64                `json:"goalWeightKg,omitempty"`
	Notes                string                  `json:"notes,omitempty"`
	Challenges           string                  `json:"challenges,omitempty"`
	Status               Status                  `json:"status"`
	Recommendation       *recommendations.Record `json:"recommendation"`
	RecommendationSource recommendations.Source  `json:"recommendationSource"`
	FallbackMessage      string                  `json:"fallbackMessage,omitempty"`
	CreatedAt            time.Time               `json:"createdAt"`
}

type listResponse struct {
	Items  []checkInResponse `json:"items"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type latestResponse struct {
	Recommendation recommendations.Record `json:"recommendation"`
}

func toResponse(c CheckIn) checkInResponse {
	return checkInResponse{
		CheckInID:            c.ID,
		WeekStart:            c.WeekStart.Format(weekStartLayout),
		WeightKg:             c.WeightKg,
		GoalWeightKg:         c.GoalWeightKg,
		Notes:                c.Notes,
		Challenges:           c.Challenges,
		Status:               c.Status,
		Recommendation:       c.Recommendation,
		RecommendationSource: c.RecommendationSource,
		FallbackMessage:      c.FallbackMessage,
		CreatedAt:            c.CreatedAt,
	}
}

// aiResponse maps an empty or JSON-null field to "no response".
func (r submitRequest) aiResponse() any {
	if len(r.AIResponse) == 0 || string(r.AIResponse) == "null" {
		return nil
	}
	return r.AIResponse
}
