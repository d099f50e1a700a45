package authz

import (
	"context"
	"errors"
	"testing"
)

func TestRequireUserUnauthenticated(t *testing.T) {
	err := RequireUser(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireUserWithoutIDForbidden(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{Email: "ghost@club.test"})
	err := RequireUser(ctx)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireUserAllowed(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{ID: 10, Email: "admin@club.test"})
	if err := RequireUser(ctx); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestUserFromContextWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), userContextKey{}, "not a user")
	if user := UserFromContext(ctx); user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
	if UserFromContext(nil) != nil { //nolint:staticcheck
		t.Fatalf("expected nil user for nil context")
	}
}

func TestDisplayName(t *testing.T) {
	if got := (&AuthUser{Name: "Coach Carter", Email: "carter@club.test"}).DisplayName(); got != "Coach Carter" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := (&AuthUser{Email: "carter@club.test"}).DisplayName(); got != "carter@club.test" {
		t.Fatalf("unexpected display name %q", got)
	}
	var nilUser *AuthUser
	if got := nilUser.DisplayName(); got != "" {
		t.Fatalf("expected empty name for nil user, got %q", got)
	}
}
