package account

import (
	"context"
	"errors"
	"testing"

	profilesvc "github.com/zhouzirui/calm-companion/backend/internal/service/profile"
	"github.com/zhouzirui/calm-companion/backend/internal/storage/kv"
)

func TestSignUpCurrentSignOut(t *testing.T) {
	backend := kv.NewMemoryStore()
	profiles := profilesvc.NewStore(backend)
	svc := NewService(backend, profiles)
	ctx := context.Background()

	if _, err := svc.Current(ctx); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}

	// No validation: anything non-empty is accepted.
	if _, err := svc.SignUp(ctx, "Sam", "not-an-email"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	user, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if user.Name != "Sam" || user.Email != "not-an-email" {
		t.Fatalf("unexpected user %+v", user)
	}
	if got := profiles.Load(ctx).Name; got != "Sam" {
		t.Fatalf("profile name should be seeded, got %q", got)
	}

	if err := svc.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := svc.Current(ctx); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected signed out, got %v", err)
	}
}

func TestSignUpRequiresBothFields(t *testing.T) {
	svc := NewService(kv.NewMemoryStore(), nil)
	ctx := context.Background()
	if _, err := svc.SignUp(ctx, "", "a@b.c"); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.SignUp(ctx, "Sam", " "); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
}

func TestSignUpKeepsExistingProfileName(t *testing.T) {
	backend := kv.NewMemoryStore()
	profiles := profilesvc.NewStore(backend)
	ctx := context.Background()
	if err := profiles.SetNameIfEmpty(ctx, "Alex"); err != nil {
		t.Fatalf("SetNameIfEmpty: %v", err)
	}

	if _, err := NewService(backend, profiles).SignUp(ctx, "Sam", "s@example.com"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if got := profiles.Load(ctx).Name; got != "Alex" {
		t.Fatalf("existing name should be kept, got %q", got)
	}
}

func TestCorruptRecordCountsAsSignedOut(t *testing.T) {
	backend := kv.NewMemoryStore()
	ctx := context.Background()
	_ = backend.Put(ctx, Key, "garbage")
	if _, err := NewService(backend, nil).Current(ctx); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}
