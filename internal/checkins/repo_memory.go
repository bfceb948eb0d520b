package checkins

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]CheckIn // userID -> check-ins in insert order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]CheckIn),
	}
}

// Create appends a check-in for its user.
func (r *MemoryRepo) Create(ctx context.Context, c CheckIn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[c.UserID] = append(r.data[c.UserID], cloneCheckIn(c))
	return nil
}

// GetByID returns a check-in by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (CheckIn, error) {
	if err := ctx.Err(); err != nil {
		return CheckIn{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.data[userID] {
		if c.ID == id {
			return cloneCheckIn(c), nil
		}
	}
	return CheckIn{}, ErrNotFound
}

// ListByUser returns check-ins for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]CheckIn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	items := r.sortedNewestFirst(userID)
	if offset >= len(items) {
		return []CheckIn{}, nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], nil
}

// LatestCompleted returns the newest check-in that carries a recommendation.
func (r *MemoryRepo) LatestCompleted(ctx context.Context, userID string) (CheckIn, error) {
	if err := ctx.Err(); err != nil {
		return CheckIn{}, err
	}
	for _, c := range r.sortedNewestFirst(userID) {
		if c.Status == StatusCompleted && c.Recommendation != nil {
			return c, nil
		}
	}
	return CheckIn{}, ErrNotFound
}

func (r *MemoryRepo) sortedNewestFirst(userID string) []CheckIn {
	r.mu.RLock()
	src := r.data[userID]
	items := make([]CheckIn, len(src))
	for i := range src {
		items[i] = cloneCheckIn(src[i])
	}
	r.mu.RUnlock()

	// Stable so same-timestamp rows keep reverse insert order.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func cloneCheckIn(c CheckIn) CheckIn {
	if c.Recommendation != nil {
		rec := c.Recommendation.Clone()
		c.Recommendation = &rec
	}
	if c.GoalWeightKg != nil {
		goal := *c.GoalWeightKg
		c.GoalWeightKg = &goal
	}
	return c
}

var _ Repo = (*MemoryRepo)(nil)
