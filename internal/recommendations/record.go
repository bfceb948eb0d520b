package recommendations

// Record is the normalized weekly recommendation returned to the app.
// All four groups are always present; list fields are never nil.
type Record struct {
	NutritionRecommendations NutritionRecommendations `json:"nutritionRecommendations"`
	WeeklyFocus              WeeklyFocus              `json:"weeklyFocus"`
	ProgressNotes            ProgressNotes            `json:"progressNotes"`
	NextWeekTargets          NextWeekTargets          `json:"nextWeekTargets"`
}

type NutritionRecommendations struct {
	ShortSummary string   `json:"shortSummary"`
	BulletPoints []string `json:"bulletPoints"`
}

type WeeklyFocus struct {
	MainGoal      string   `json:"mainGoal"`
	SpecificFoods []string `json:"specificFoods"`
	AvoidOrReduce []string `json:"avoidOrReduce"`
}

type ProgressNotes struct {
	WeightProgress     string `json:"weightProgress"`
	NutritionQuality   string `json:"nutritionQuality"`
	ChallengeEvolution string `json:"challengeEvolution"`
	Encouragement      string `json:"encouragement"`
}

type NextWeekTargets struct {
	CalorieTarget      string `json:"calorieTarget"`
	MacroFocus         string `json:"macroFocus"`
	BehavioralGoal     string `json:"behavioralGoal"`
	ActivitySuggestion string `json:"activitySuggestion"`
}

// Source reports which stage of the pipeline produced a record.
type Source string

const (
	SourceStructured   Source = "structured"
	SourceJSON         Source = "json"
	SourceTextFallback Source = "text_fallback"
	SourceNone         Source = "none"
)

// Empty returns a fully shaped record with empty leaves.
func Empty() Record {
	return Record{
		NutritionRecommendations: NutritionRecommendations{BulletPoints: []string{}},
		WeeklyFocus:              WeeklyFocus{SpecificFoods: []string{}, AvoidOrReduce: []string{}},
	}
}

// Clone returns a deep copy so callers never share list backing arrays.
func (r Record) Clone() Record {
	out := r
	out.NutritionRecommendations.BulletPoints = cloneStrings(r.NutritionRecommendations.BulletPoints)
	out.WeeklyFocus.SpecificFoods = cloneStrings(r.WeeklyFocus.SpecificFoods)
	out.WeeklyFocus.AvoidOrReduce = cloneStrings(r.WeeklyFocus.AvoidOrReduce)
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
