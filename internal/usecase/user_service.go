package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/user"
)

// IDGenerator produces unique identifiers for new records.
type IDGenerator interface {
	NewID() string
}

type UserService struct {
	userRepo        user.Repository
	pickRepo        pick.Repository
	hasher          PasswordHasher
	ids             IDGenerator
	defaultPassword string
	now             func() time.Time
}

func NewUserService(userRepo user.Repository, pickRepo pick.Repository, hasher PasswordHasher, ids IDGenerator, defaultPassword string) *UserService {
	return &UserService{
		userRepo:        userRepo,
		pickRepo:        pickRepo,
		hasher:          hasher,
		ids:             ids,
		defaultPassword: defaultPassword,
		now:             time.Now,
	}
}

func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.List")
	defer span.End()

	items, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return items, nil
}

func (s *UserService) GetByID(ctx context.Context, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.GetByID")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return item, nil
}

// Create registers a member with the league-wide default password and
// FirstLogin set, forcing a credential change on first sign-in.
func (s *UserService) Create(ctx context.Context, username string, isAdmin bool) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Create")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		return user.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	_, exists, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by username: %w", err)
	}
	if exists {
		return user.User{}, fmt.Errorf("%w: username %q is taken", ErrInvalidInput, username)
	}

	hashed, err := s.hasher.Hash(s.defaultPassword)
	if err != nil {
		return user.User{}, fmt.Errorf("hash default password: %w", err)
	}

	now := s.now().UTC()
	item := user.User{
		ID:           s.ids.NewID(),
		Username:     username,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
		FirstLogin:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, item); err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return item, nil
}

type UpdateUserInput struct {
	Username      *string
	IsAdmin       *bool
	ResetPassword bool
}

func (s *UserService) Update(ctx context.Context, userID string, input UpdateUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Update")
	defer span.End()

	item, err := s.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return user.User{}, fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
		}
		if username != item.Username {
			_, exists, err := s.userRepo.GetByUsername(ctx, username)
			if err != nil {
				return user.User{}, fmt.Errorf("get user by username: %w", err)
			}
			if exists {
				return user.User{}, fmt.Errorf("%w: username %q is taken", ErrInvalidInput, username)
			}
			item.Username = username
		}
	}
	if input.IsAdmin != nil {
		item.IsAdmin = *input.IsAdmin
	}
	if input.ResetPassword {
		hashed, err := s.hasher.Hash(s.defaultPassword)
		if err != nil {
			return user.User{}, fmt.Errorf("hash default password: %w", err)
		}
		item.PasswordHash = hashed
		item.FirstLogin = true
	}

	item.UpdatedAt = s.now().UTC()
	if err := s.userRepo.Update(ctx, item); err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}

	return item, nil
}

func (s *UserService) Delete(ctx context.Context, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Delete")
	defer span.End()

	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	// The picks table cascades on postgres; the explicit delete keeps the
	// memory repositories consistent too.
	if err := s.pickRepo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete picks for user: %w", err)
	}
	return nil
}
