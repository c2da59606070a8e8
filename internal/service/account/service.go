package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/zhouzirui/calm-companion/backend/internal/model/account"
	"github.com/zhouzirui/calm-companion/backend/internal/storage/kv"
)

// Key is the storage key of the demo sign-up record.
const Key = "demoUser"

var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
	ErrNotSignedIn   = errors.New("no demo user signed in")
)

// NameSetter lets sign-up seed the profile's display name.
type NameSetter interface {
	SetNameIfEmpty(ctx context.Context, name string) error
}

// Service manages the landing page's demo sign-in.
type Service struct {
	kv      kv.Store
	profile NameSetter
}

// NewService creates the demo account service. profile may be nil.
func NewService(backend kv.Store, profile NameSetter) *Service {
	return &Service{kv: backend, profile: profile}
}

// SignUp stores the name/email pair as-is.
func (s *Service) SignUp(ctx context.Context, name, email string) (account.DemoUser, error) {
	if strings.TrimSpace(name) == "" {
		return account.DemoUser{}, ErrNameRequired
	}
	if strings.TrimSpace(email) == "" {
		return account.DemoUser{}, ErrEmailRequired
	}

	user := account.DemoUser{Name: name, Email: email}
	data, err := json.Marshal(user)
	if err != nil {
		return account.DemoUser{}, fmt.Errorf("encoding demo user: %w", err)
	}
	if err := s.kv.Put(ctx, Key, string(data)); err != nil {
		return account.DemoUser{}, fmt.Errorf("saving demo user: %w", err)
	}

	if s.profile != nil {
		if err := s.profile.SetNameIfEmpty(ctx, strings.TrimSpace(name)); err != nil {
			log.Printf("[account] failed to seed profile name: %v", err)
		}
	}
	return user, nil
}

// Current returns the signed-in demo user. A corrupt record counts as signed out.
func (s *Service) Current(ctx context.Context) (account.DemoUser, error) {
	raw, err := s.kv.Get(ctx, Key)
	if errors.Is(err, kv.ErrNotFound) {
		return account.DemoUser{}, ErrNotSignedIn
	}
	if err != nil {
		return account.DemoUser{}, fmt.Errorf("reading demo user: %w", err)
	}

	var user account.DemoUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Printf("[account] stored demo user is corrupt: %v", err)
		return account.DemoUser{}, ErrNotSignedIn
	}
	return user, nil
}

// SignOut removes the demo user record.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("removing demo user: %w", err)
	}
	return nil
}
