package user

import "context"

// Repository describes user persistence needs from use cases. Deleting a
// user cascades to the user's picks.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, userID string) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	Create(ctx context.Context, item User) error
	Update(ctx context.Context, item User) error
	Delete(ctx context.Context, userID string) error
	ReplaceAll(ctx context.Context, items []User) error
}
