package pick

import "context"

// Repository describes pick persistence needs from use cases.
type Repository interface {
	ListByUserAndWeek(ctx context.Context, userID string, week int) ([]Pick, error)
	ListByUser(ctx context.Context, userID string) ([]Pick, error)
	ListByWeek(ctx context.Context, week int) ([]Pick, error)
	ListAll(ctx context.Context) ([]Pick, error)
	// UpsertBatch persists every pick in one transaction; either the whole
	// submission lands or none of it does.
	UpsertBatch(ctx context.Context, picks []Pick) error
	// DeleteByUser removes every pick belonging to the user, mirroring the
	// ON DELETE CASCADE the picks table carries.
	DeleteByUser(ctx context.Context, userID string) error
	ReplaceAll(ctx context.Context, picks []Pick) error
}
