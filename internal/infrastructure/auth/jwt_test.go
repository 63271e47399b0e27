package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/user"
	"github.com/pickemleague/pickem-api/internal/usecase"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	t.Parallel()

	mgr := NewTokenManager("test-secret", "pickem-api", time.Hour)
	principal := user.Principal{UserID: "u-1", Username: "alice", IsAdmin: true}

	token, expiresAt, err := mgr.IssueAccessToken(context.Background(), principal)
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("token already expired at issue time")
	}

	got, err := mgr.VerifyAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if got != principal {
		t.Fatalf("principal = %+v, want %+v", got, principal)
	}
}

func TestTokenManagerRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	mgr := NewTokenManager("test-secret", "pickem-api", time.Minute, WithClock(func() time.Time { return clock }))

	token, _, err := mgr.IssueAccessToken(context.Background(), user.Principal{UserID: "u-1"})
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	clock = issued.Add(2 * time.Minute)
	if _, err := mgr.VerifyAccessToken(context.Background(), token); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("VerifyAccessToken() error = %v, want ErrUnauthorized", err)
	}
}

func TestTokenManagerRejectsForeignSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager("secret-a", "pickem-api", time.Hour)
	verifier := NewTokenManager("secret-b", "pickem-api", time.Hour)

	token, _, err := issuer.IssueAccessToken(context.Background(), user.Principal{UserID: "u-1"})
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	if _, err := verifier.VerifyAccessToken(context.Background(), token); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("VerifyAccessToken() error = %v, want ErrUnauthorized", err)
	}
}

func TestPasswordHasher(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher()
	hashed, err := hasher.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !hasher.Compare(hashed, "hunter2") {
		t.Fatalf("Compare() = false for matching password")
	}
	if hasher.Compare(hashed, "wrong") {
		t.Fatalf("Compare() = true for wrong password")
	}
}
