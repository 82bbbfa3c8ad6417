package service

import (
	"context"
	"errors"
	"testing"

	"github.com/amref/learning-api/internal/core/domain"
)

func TestAccessGuard_ResolveAndRequireRole(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", "a@x.com", "alice", "p", domain.RoleUser, true)
	seedUser(repo, "u2", "b@x.com", "bob", "p", domain.RoleAdmin, true)
	codec := newTestCodec(t, "secret")
	guard := NewAccessGuard(repo, codec)

	userToken, _, _ := codec.IssueAccess("u1", domain.RoleUser, 0)
	adminToken, _, _ := codec.IssueAccess("u2", domain.RoleAdmin, 0)

	user, err := guard.Resolve(context.Background(), userToken)
	if err != nil {
		t.Fatalf("resolve user: %v", err)
	}
	if err := guard.RequireRole(user, domain.RoleAdmin); !errors.Is(err, domain.ErrForbiddenRole) {
		t.Fatalf("expected ErrForbiddenRole, got %v", err)
	}

	admin, err := guard.Resolve(context.Background(), adminToken)
	if err != nil {
		t.Fatalf("resolve admin: %v", err)
	}
	if err := guard.RequireRole(admin, domain.RoleAdmin); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	if err := guard.RequireRole(admin, domain.RoleUser); !errors.Is(err, domain.ErrForbiddenRole) {
		t.Fatalf("roles must match exactly, got %v", err)
	}
}

func TestAccessGuard_Resolve_Failures(t *testing.T) {
	repo := newStubUserRepo()
	codec := newTestCodec(t, "secret")
	guard := NewAccessGuard(repo, codec)

	foreign, _, _ := newTestCodec(t, "other").IssueAccess("u1", domain.RoleUser, 0)
	orphan, _, _ := codec.IssueAccess("gone", domain.RoleUser, 0)
	reset, _ := codec.IssueReset("a@x.com")

	for name, token := range map[string]string{
		"empty":   "",
		"garbage": "abc.def.ghi",
		"foreign": foreign,
		"orphan":  orphan,
		"reset":   reset,
	} {
		if _, err := guard.Resolve(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestAccessGuard_Resolve_StoreError(t *testing.T) {
	repo := newStubUserRepo()
	codec := newTestCodec(t, "secret")
	guard := NewAccessGuard(repo, codec)
	token, _, _ := codec.IssueAccess("u1", domain.RoleUser, 0)

	repo.err = errors.New("timeout")
	_, err := guard.Resolve(context.Background(), token)
	if err == nil || errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected raw store error, got %v", err)
	}
}

func TestAccessGuard_RequireActive(t *testing.T) {
	guard := NewAccessGuard(newStubUserRepo(), newTestCodec(t, "secret"))

	if err := guard.RequireActive(&domain.User{IsActive: true}); err != nil {
		t.Fatalf("active user rejected: %v", err)
	}
	if err := guard.RequireActive(&domain.User{IsActive: false}); !errors.Is(err, domain.ErrForbiddenInactive) {
		t.Fatalf("expected ErrForbiddenInactive, got %v", err)
	}
	if err := guard.RequireActive(nil); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for nil user, got %v", err)
	}
}
