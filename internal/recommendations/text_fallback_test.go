package recommendations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const coachReply = `Nutrition Recommendations:
You did a solid job staying close to your calorie budget this week.
• Add a palm-sized portion of protein to breakfast
• Swap sugary drinks for sparkling water

Weekly Focus:
This week, aim to build consistent, balanced lunches every day.
- Include leafy greens with lunch and dinner
- Add Greek yogurt as an afternoon snack
- Limit fried foods to once this week
- Cut back on candy after dinner

Progress Analysis:
Weight: down 0.8 kg since last check-in
Nutrition quality: improving, more whole foods logged
Challenge: late-night snacking is less frequent than before
Keep up the great work, you are building lasting habits!

Next Week Targets:
Calorie target: 1700 kcal per day
Macro focus: 120 g protein daily
Habit: prepare lunches on Sunday evening
Activity: walk 8000 steps on at least five days`

func TestExtractFromTextCoachReply(t *testing.T) {
	want := Record{
		NutritionRecommendations: NutritionRecommendations{
			ShortSummary: "You did a solid job staying close to your calorie budget this week.",
			BulletPoints: []string{
				"Add a palm-sized portion of protein to breakfast",
				"Swap sugary drinks for sparkling water",
			},
		},
		WeeklyFocus: WeeklyFocus{
			MainGoal: "This week, aim to build consistent, balanced lunches every day.",
			SpecificFoods: []string{
				"Include leafy greens with lunch and dinner",
				"Add Greek yogurt as an afternoon snack",
			},
			AvoidOrReduce: []string{
				"Limit fried foods to once this week",
				"Cut back on candy after dinner",
			},
		},
		ProgressNotes: ProgressNotes{
			WeightProgress:     "down 0.8 kg since last check-in",
			NutritionQuality:   "improving, more whole foods logged",
			ChallengeEvolution: "late-night snacking is less frequent than before",
			Encouragement:      "Keep up the great work, you are building lasting habits!",
		},
		NextWeekTargets: NextWeekTargets{
			CalorieTarget:      "1700 kcal per day",
			MacroFocus:         "120 g protein daily",
			BehavioralGoal:     "prepare lunches on Sunday evening",
			ActivitySuggestion: "walk 8000 steps on at least five days",
		},
	}

	assert.Equal(t, want, ExtractFromText(coachReply))
}

func TestNormalizeProseUsesTextFallback(t *testing.T) {
	got, source, ok := NormalizeWithSource(map[string]any{"text": coachReply})

	assert.True(t, ok)
	assert.Equal(t, SourceTextFallback, source)
	assert.Equal(t, ExtractFromText(coachReply), got)
}

func TestExtractFromTextMarkdownHeadings(t *testing.T) {
	text := `## Nutrition Recommendations
* Eat a vegetable with every meal
* Drink water before each snack

**Weekly Focus**
- More lentils and beans at dinner
- Chips and soda only on weekends
- Meal prep on Sunday
---`

	got := ExtractFromText(text)

	assert.Equal(t, []string{"Eat a vegetable with every meal", "Drink water before each snack"}, got.NutritionRecommendations.BulletPoints)
	assert.Equal(t, []string{"More lentils and beans at dinner"}, got.WeeklyFocus.SpecificFoods)
	assert.Equal(t, []string{"Chips and soda only on weekends"}, got.WeeklyFocus.AvoidOrReduce)
	assert.Empty(t, got.NutritionRecommendations.ShortSummary)
	assert.Empty(t, got.WeeklyFocus.MainGoal)
}

func TestExtractFromTextBulletsSwitchSection(t *testing.T) {
	text := `Nutrition Recommendations:
- Keep a short food log
- Focus on lean protein at every meal
- Add spinach to lunch`

	got := ExtractFromText(text)

	assert.Equal(t, []string{"Keep a short food log"}, got.NutritionRecommendations.BulletPoints)
	assert.Equal(t, []string{"Focus on lean protein at every meal", "Add spinach to lunch"}, got.WeeklyFocus.SpecificFoods)
}

func TestExtractFromTextProseLineSwitchesSection(t *testing.T) {
	goal := "Your goal this week should be to drink far more water daily"
	text := "Nutrition recommendations\n• drink water\n" + goal + "\n- add spinach to lunch"

	got := ExtractFromText(text)

	assert.Equal(t, []string{"drink water"}, got.NutritionRecommendations.BulletPoints)
	assert.Equal(t, goal, got.WeeklyFocus.MainGoal)
	assert.Equal(t, []string{"add spinach to lunch"}, got.WeeklyFocus.SpecificFoods)
	assert.Empty(t, got.NutritionRecommendations.ShortSummary)
}

func TestExtractFromTextProseLineLeavesNutrition(t *testing.T) {
	text := `Nutrition recommendations
• drink water
Let's review your progress analysis for this past week together
- add spinach to lunch`

	got := ExtractFromText(text)

	assert.Equal(t, []string{"drink water"}, got.NutritionRecommendations.BulletPoints)
	assert.Empty(t, got.WeeklyFocus.SpecificFoods)
	assert.Empty(t, got.NutritionRecommendations.ShortSummary)
}

func TestExtractFromTextLastScalarMatchWins(t *testing.T) {
	text := `Calorie target: 1900 kcal
Calorie target: 1750 kcal`

	got := ExtractFromText(text)

	assert.Equal(t, "1750 kcal", got.NextWeekTargets.CalorieTarget)
}

func TestExtractFromTextFirstSummaryWins(t *testing.T) {
	text := `This first sentence is easily longer than thirty characters.
This second sentence is also longer than thirty characters.
Short line.`

	got := ExtractFromText(text)

	assert.Equal(t, "This first sentence is easily longer than thirty characters.", got.NutritionRecommendations.ShortSummary)
}

func TestExtractFromTextSkipsShortSummaryCandidates(t *testing.T) {
	got := ExtractFromText("Nice week overall.")

	assert.Equal(t, Empty(), got)
}

func TestClassifyFocusItem(t *testing.T) {
	tests := []struct {
		item string
		want focusKind
	}{
		{item: "limit fruit juice", want: focusAvoid},
		{item: "avoid late snacks", want: focusAvoid},
		{item: "exclude soda", want: focusAvoid},
		{item: "add dark chocolate twice a week", want: focusInclude},
		{item: "include oats at breakfast", want: focusInclude},
		{item: "white bread at lunch", want: focusAvoid},
		{item: "salmon twice a week", want: focusInclude},
		{item: "meal prep on sunday", want: focusUnknown},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.item, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyFocusItem(tt.item))
		})
	}
}
