package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/user"
)

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	IssueAccessToken(ctx context.Context, p user.Principal) (string, time.Time, error)
}

// PasswordHasher hashes and verifies stored credentials.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hashed, plain string) bool
}

type AuthService struct {
	userRepo user.Repository
	issuer   TokenIssuer
	hasher   PasswordHasher
	now      func() time.Time
}

func NewAuthService(userRepo user.Repository, issuer TokenIssuer, hasher PasswordHasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		hasher:   hasher,
		now:      time.Now,
	}
}

type LoginResult struct {
	Token      string
	ExpiresAt  time.Time
	User       user.User
	FirstLogin bool
}

// Login validates credentials and mints an access token. Unknown
// usernames and wrong passwords fail identically so the endpoint does
// not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	account, exists, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return LoginResult{}, fmt.Errorf("get user: %w", err)
	}
	if !exists || !s.hasher.Compare(account.PasswordHash, password) {
		return LoginResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, expiresAt, err := s.issuer.IssueAccessToken(ctx, user.Principal{
		UserID:   account.ID,
		Username: account.Username,
		IsAdmin:  account.IsAdmin,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue access token: %w", err)
	}

	return LoginResult{
		Token:      token,
		ExpiresAt:  expiresAt,
		User:       account,
		FirstLogin: account.FirstLogin,
	}, nil
}

// ChangePassword rotates the caller's credential and clears the
// first-login flag.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.ChangePassword")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: new password must be at least 8 characters", ErrInvalidInput)
	}

	account, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	if !s.hasher.Compare(account.PasswordHash, currentPassword) {
		return fmt.Errorf("%w: current password does not match", ErrUnauthorized)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	account.PasswordHash = hashed
	account.FirstLogin = false
	account.UpdatedAt = s.now().UTC()
	if err := s.userRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}
