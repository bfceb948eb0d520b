package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutricoach-backend/internal/recommendations"
)

const fencedReply = "[{\"text\":\"```json\\n{\\\"nutritionRecommendations\\\":{\\\"shortSummary\\\":\\\"S\\\",\\\"bulletPoints\\\":[\\\"a\\\"]},\\\"weeklyFocus\\\":{},\\\"progressNotes\\\":{},\\\"nextWeekTargets\\\":{\\\"calorieTarget\\\":1700}}\\n```\"}]"

func TestNormalizeFromStdin(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand(strings.NewReader(fencedReply), &out)
	cmd.SetArgs([]string{"--source"})

	require.NoError(t, cmd.Execute())

	var got struct {
		Recommendation recommendations.Record `json:"recommendation"`
		Source         recommendations.Source `json:"source"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, recommendations.SourceJSON, got.Source)
	assert.Equal(t, "S", got.Recommendation.NutritionRecommendations.ShortSummary)
	assert.Equal(t, "1700", got.Recommendation.NextWeekTargets.CalorieTarget)
	assert.Equal(t, []string{}, got.Recommendation.WeeklyFocus.SpecificFoods)
}

func TestNormalizeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.txt")
	require.NoError(t, os.WriteFile(path, []byte("Weight: down 1 kg\nCalorie target: 1800 kcal"), 0o600))

	var out bytes.Buffer
	cmd := newRootCommand(strings.NewReader(""), &out)
	cmd.SetArgs([]string{"--indent=false", path})
	require.NoError(t, cmd.Execute())

	var rec recommendations.Record
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "down 1 kg", rec.ProgressNotes.WeightProgress)
	assert.Equal(t, "1800 kcal", rec.NextWeekTargets.CalorieTarget)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestNormalizeAbsentIsAnError(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand(strings.NewReader(`{"unrelated": true}`), &out)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	assert.ErrorIs(t, err, errNoRecommendation)
	assert.Empty(t, out.String())
}
