package checkins

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"nutricoach-backend/internal/recommendations"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, week_start, weight_kg, goal_weight_kg, notes, challenges, status, recommendation, recommendation_source, raw_response_key, created_at`

// Create inserts a new check-in.
func (r *PGRepo) Create(ctx context.Context, c CheckIn) error {
	const query = `
INSERT INTO checkins (
    id,
    user_id,
    week_start,
    weight_kg,
    goal_weight_kg,
    notes,
    challenges,
    status,
    recommendation,
    recommendation_source,
    raw_response_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	var goal sql.NullFloat64
	if c.GoalWeightKg != nil {
		goal = sql.NullFloat64{Float64: *c.GoalWeightKg, Valid: true}
	}
	var recJSON any
	if c.Recommendation != nil {
		b, err := json.Marshal(c.Recommendation)
		if err != nil {
			return fmt.Errorf("marshal recommendation: %w", err)
		}
		recJSON = string(b)
	}
	source := c.RecommendationSource
	if source == "" {
		source = recommendations.SourceNone
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		c.ID,
		c.UserID,
		c.WeekStart,
		c.WeightKg,
		goal,
		c.Notes,
		c.Challenges,
		string(c.Status),
		recJSON,
		string(source),
		c.RawResponseKey,
		c.CreatedAt,
	)
	return err
}

// GetByID returns a check-in by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (CheckIn, error) {
	query := `SELECT ` + selectColumns + `
FROM checkins
WHERE id = $1 AND user_id = $2`
	return scanOne(r.DB.QueryRowContext(ctx, query, id, userID))
}

// ListByUser returns check-ins for a user, newest first, honoring limit/offset.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]CheckIn, error) {
	if offset < 0 {
		offset = 0
	}
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	query := `SELECT ` + selectColumns + `
FROM checkins
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limitArg, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CheckIn{}
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestCompleted returns the newest check-in that carries a recommendation.
func (r *PGRepo) LatestCompleted(ctx context.Context, userID string) (CheckIn, error) {
	query := `SELECT ` + selectColumns + `
FROM checkins
WHERE user_id = $1 AND status = $2 AND recommendation IS NOT NULL
ORDER BY created_at DESC
LIMIT 1`
	return scanOne(r.DB.QueryRowContext(ctx, query, userID, string(StatusCompleted)))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOne(row rowScanner) (CheckIn, error) {
	c, err := scanCheckIn(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CheckIn{}, ErrNotFound
		}
		return CheckIn{}, err
	}
	return c, nil
}

func scanCheckIn(row rowScanner) (CheckIn, error) {
	var (
		c       CheckIn
		goal    sql.NullFloat64
		status  string
		recJSON []byte
		source  string
	)
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.WeekStart,
		&c.WeightKg,
		&goal,
		&c.Notes,
		&c.Challenges,
		&status,
		&recJSON,
		&source,
		&c.RawResponseKey,
		&c.CreatedAt,
	); err != nil {
		return CheckIn{}, err
	}
	c.Status = Status(status)
	c.RecommendationSource = recommendations.Source(source)
	if goal.Valid {
		g := goal.Float64
		c.GoalWeightKg = &g
	}
	if len(recJSON) > 0 {
		// Stored rows were normalized on write; pass them through the
		// normalizer again so older or hand-edited rows stay fully shaped.
		if rec, ok := recommendations.Normalize(json.RawMessage(recJSON)); ok {
			c.Recommendation = &rec
		}
	}
	return c, nil
}

var _ Repo = (*PGRepo)(nil)
