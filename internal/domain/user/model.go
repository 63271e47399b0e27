package user

import "time"

// User is a league member account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	IsAdmin      bool
	// FirstLogin forces a credential change on the next sign-in.
	FirstLogin bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Principal is the authenticated identity attached to a request context.
type Principal struct {
	UserID   string
	Username string
	IsAdmin  bool
}
