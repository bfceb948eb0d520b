package checkins

import (
	"encoding/json"
	"time"

	"nutricoach-backend/internal/recommendations"
)

func testRecord() recommendations.Record {
	return recommendations.Record{
		NutritionRecommendations: recommendations.NutritionRecommendations{
			ShortSummary: "Solid week, calories on target most days.",
			BulletPoints: []string{"Protein at breakfast", "Water before snacks"},
		},
		WeeklyFocus: recommendations.WeeklyFocus{
			MainGoal:      "Balanced lunches",
			SpecificFoods: []string{"lentils"},
			AvoidOrReduce: []string{"soda"},
		},
		ProgressNotes: recommendations.ProgressNotes{
			WeightProgress:     "down 0.5 kg",
			NutritionQuality:   "improving",
			ChallengeEvolution: "fewer late snacks",
			Encouragement:      "Keep going!",
		},
		NextWeekTargets: recommendations.NextWeekTargets{
			CalorieTarget:      "1700 kcal",
			MacroFocus:         "120 g protein",
			BehavioralGoal:     "prep on Sunday",
			ActivitySuggestion: "8000 steps",
		},
	}
}

// webhookResponse wraps rec the way the text-generation webhook does.
func webhookResponse(rec recommendations.Record) json.RawMessage {
	inner, _ := json.Marshal(rec)
	text, _ := json.Marshal("```json\n" + string(inner) + "\n```")
	return json.RawMessage(`[{"text":` + string(text) + `}]`)
}

// fixedClock returns a Wednesday so the default week start is the Monday before.
func fixedClock() time.Time {
	return time.Date(2026, time.March, 4, 15, 30, 0, 0, time.UTC)
}
