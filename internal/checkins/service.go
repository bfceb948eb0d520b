package checkins

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"nutricoach-backend/internal/recommendations"
	"nutricoach-backend/internal/shared/config"
	"nutricoach-backend/internal/shared/metrics"
	"nutricoach-backend/internal/shared/storage/kv"
	"nutricoach-backend/internal/shared/storage/object"
	"nutricoach-backend/internal/shared/telemetry"
)

// LatestRecommendationKey is the per-user key-value slot holding the most
// recent normalized recommendation.
const LatestRecommendationKey = "latestRecommendation"

const (
	maxNotesLen  = 2000
	maxWeightKg  = 700
	maxListLimit = 100
)

// Service contains business logic for weekly check-ins.
type Service struct {
	Repo  Repo
	Store object.Store
	KV    kv.Store
	// FallbackMessage is shown for check-ins without a recommendation.
	FallbackMessage string
	Now             func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) fallbackMessage() string {
	if strings.TrimSpace(s.FallbackMessage) != "" {
		return s.FallbackMessage
	}
	return config.DefaultFallbackMessage
}

// Submit validates the check-in, normalizes the AI response, archives the
// raw payload and stores the result.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (CheckIn, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" {
		return CheckIn{}, fmt.Errorf("%w: user id required", ErrValidation)
	}
	if math.IsNaN(in.WeightKg) || in.WeightKg <= 0 || in.WeightKg > maxWeightKg {
		return CheckIn{}, fmt.Errorf("%w: weightKg must be between 0 and %d", ErrValidation, maxWeightKg)
	}
	if in.GoalWeightKg != nil && (math.IsNaN(*in.GoalWeightKg) || *in.GoalWeightKg <= 0 || *in.GoalWeightKg > maxWeightKg) {
		return CheckIn{}, fmt.Errorf("%w: goalWeightKg must be between 0 and %d", ErrValidation, maxWeightKg)
	}
	if len(in.Notes) > maxNotesLen || len(in.Challenges) > maxNotesLen {
		return CheckIn{}, fmt.Errorf("%w: notes and challenges are limited to %d characters", ErrValidation, maxNotesLen)
	}

	now := s.now()
	weekStart, err := parseWeekStart(in.WeekStart, now)
	if err != nil {
		return CheckIn{}, err
	}

	c := CheckIn{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		WeekStart:    weekStart,
		WeightKg:     in.WeightKg,
		GoalWeightKg: in.GoalWeightKg,
		Notes:        strings.TrimSpace(in.Notes),
		Challenges:   strings.TrimSpace(in.Challenges),
		CreatedAt:    now,
	}

	rec, source, ok := recommendations.NormalizeObserved(in.AIResponse)
	c.RecommendationSource = source
	if ok {
		c.Status = StatusCompleted
		c.Recommendation = &rec
	} else {
		c.Status = StatusNoRecommendation
		c.FallbackMessage = s.fallbackMessage()
	}

	c.RawResponseKey = s.archiveRaw(ctx, c.UserID, c.ID, in.AIResponse)

	if err := s.Repo.Create(ctx, c); err != nil {
		return CheckIn{}, fmt.Errorf("create checkin: %w", err)
	}

	if ok {
		s.cacheLatest(ctx, c.UserID, rec)
	}

	metrics.IncCheckinSubmitted(string(c.Status))
	telemetry.Info("checkin.submitted", map[string]any{
		"checkin_id": c.ID,
		"user_id":    c.UserID,
		"status":     string(c.Status),
		"source":     string(source),
		"week_start": c.WeekStart.Format(weekStartLayout),
	})
	return c, nil
}

// Get returns one check-in owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (CheckIn, error) {
	if strings.TrimSpace(id) == "" {
		return CheckIn{}, ErrNotFound
	}
	c, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return CheckIn{}, err
	}
	return s.decorate(c), nil
}

// List returns the user's check-ins, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]CheckIn, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.Repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = s.decorate(items[i])
	}
	return items, nil
}

// Latest returns the most recent recommendation for userID. The key-value
// store is consulted first; the repo is the fallback.
func (s *Service) Latest(ctx context.Context, userID string) (recommendations.Record, error) {
	if s.KV != nil {
		raw, err := s.KV.Get(ctx, kv.UserKey(userID, LatestRecommendationKey))
		switch {
		case err == nil:
			if rec, ok := recommendations.NormalizeJSON(raw); ok {
				return rec, nil
			}
			telemetry.Warn("checkin.latest.cache_invalid", map[string]any{"user_id": userID})
		case !errors.Is(err, kv.ErrNotFound):
			telemetry.Warn("checkin.latest.cache_error", map[string]any{"user_id": userID, "error": err.Error()})
		}
	}

	c, err := s.Repo.LatestCompleted(ctx, userID)
	if err != nil {
		return recommendations.Record{}, err
	}
	if c.Recommendation == nil {
		return recommendations.Record{}, ErrNotFound
	}
	s.cacheLatest(ctx, userID, *c.Recommendation)
	return c.Recommendation.Clone(), nil
}

func (s *Service) decorate(c CheckIn) CheckIn {
	if c.Status == StatusNoRecommendation && c.FallbackMessage == "" {
		c.FallbackMessage = s.fallbackMessage()
	}
	return c
}

func (s *Service) archiveRaw(ctx context.Context, userID, checkinID string, raw any) string {
	if s.Store == nil || raw == nil {
		return ""
	}
	payload, err := rawJSON(raw)
	if err != nil {
		telemetry.Warn("checkin.archive.encode_failed", map[string]any{"checkin_id": checkinID, "error": err.Error()})
		return ""
	}
	key := object.RawResponseKey(userID, checkinID)
	if _, err := s.Store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		telemetry.Warn("checkin.archive.save_failed", map[string]any{"checkin_id": checkinID, "error": err.Error()})
		return ""
	}
	return key
}

func (s *Service) cacheLatest(ctx context.Context, userID string, rec recommendations.Record) {
	if s.KV == nil {
		return
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.KV.Set(ctx, kv.UserKey(userID, LatestRecommendationKey), b); err != nil {
		telemetry.Warn("checkin.latest.cache_write_failed", map[string]any{"user_id": userID, "error": err.Error()})
	}
}

// rawJSON keeps payloads that are already bytes as-is.
func rawJSON(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

func parseWeekStart(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return mondayOf(now), nil
	}
	t, err := time.Parse(weekStartLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: weekStart must be YYYY-MM-DD", ErrValidation)
	}
	return t, nil
}

// mondayOf returns 00:00 UTC on the Monday of t's ISO week.
func mondayOf(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
