package checkins

import "context"

// Repo defines persistence operations for check-ins.
type Repo interface {
	Create(ctx context.Context, c CheckIn) error
	GetByID(ctx context.Context, userID, id string) (CheckIn, error)
	// ListByUser returns newest first. A limit of zero means no limit.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]CheckIn, error)
	LatestCompleted(ctx context.Context, userID string) (CheckIn, error)
}
