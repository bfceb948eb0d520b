package checkins

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"nutricoach-backend/internal/shared/telemetry"
)

const exportSheet = "Progress"

var exportHeaders = []string{
	"Week Start",
	"Weight (kg)",
	"Goal Weight (kg)",
	"Summary",
	"Main Goal",
	"Calorie Target",
	"Status",
}

var exportWidths = []struct {
	from, to string
	width    float64
}{
	{"A", "A", 12}, // week
	{"B", "C", 16}, // weights
	{"D", "E", 60}, // summary, goal
	{"F", "F", 22}, // calories
	{"G", "G", 18}, // status
}

// ExportXLSX renders every check-in of userID, newest first, as a workbook.
func (s *Service) ExportXLSX(ctx context.Context, userID string) ([]byte, error) {
	start := time.Now()

	items, err := s.Repo.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("query checkins: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet so the workbook has exactly one.
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}

	headers := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		headers[i] = h
	}
	if err := writeRow(f, exportSheet, 1, headers); err != nil {
		return nil, err
	}

	for i, c := range items {
		if err := writeRow(f, exportSheet, i+2, exportRow(s.decorate(c))); err != nil {
			return nil, err
		}
	}

	for _, w := range exportWidths {
		if err := f.SetColWidth(exportSheet, w.from, w.to, w.width); err != nil {
			return nil, fmt.Errorf("xlsx column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	telemetry.Info("export.xlsx.ok", map[string]any{
		"user_id":    userID,
		"rows":       len(items),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return buf.Bytes(), nil
}

func exportRow(c CheckIn) []any {
	goal, summary, mainGoal, calories := any(""), c.FallbackMessage, "", ""
	if c.GoalWeightKg != nil {
		goal = *c.GoalWeightKg
	}
	if rec := c.Recommendation; rec != nil {
		summary = rec.NutritionRecommendations.ShortSummary
		mainGoal = rec.WeeklyFocus.MainGoal
		calories = rec.NextWeekTargets.CalorieTarget
	}
	return []any{
		c.WeekStart.Format(weekStartLayout),
		c.WeightKg,
		goal,
		summary,
		mainGoal,
		calories,
		string(c.Status),
	}
}

// writeRow fills row (1-based) from column A and stops at the first error.
func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("xlsx cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("xlsx set %s: %w", cell, err)
		}
	}
	return nil
}
